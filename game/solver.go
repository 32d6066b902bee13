package game

// Equilibrium is a (possibly approximate) solution of a zero-sum matrix
// game. RowStrategy and ColStrategy are mixed strategies summing to 1.
// RowAction and ColAction are each player's dominant pure strategy, the
// most-weighted index with deterministic first-index tie-breaking, and
// Value is the matrix payoff at that pure pair: the cost the planner
// records. Estimate is the solver's own value estimate, which for the
// fictitious-play solver is the midpoint of its realized bounds and for
// exact solvers equals the equilibrium value.
type Equilibrium struct {
	RowStrategy []float64
	ColStrategy []float64
	RowAction   int
	ColAction   int
	Value       float64
	Estimate    float64
}

// Solver resolves a zero-sum matrix game in which the row player
// minimizes the payoff and the column player maximizes it.
type Solver interface {
	// Solve returns an equilibrium for m. Implementations must be
	// deterministic: identical matrices yield identical equilibria.
	Solve(m Matrix) (*Equilibrium, error)

	// Name identifies the solver method.
	Name() string
}

// finalize derives the pure policy from the mixed strategies: each
// player's most-played strategy, ties to the lowest index, and the
// payoff at that pure pair.
func finalize(m Matrix, rowStrategy, colStrategy []float64, estimate float64) *Equilibrium {
	i := argmax(rowStrategy)
	j := argmax(colStrategy)
	return &Equilibrium{
		RowStrategy: rowStrategy,
		ColStrategy: colStrategy,
		RowAction:   i,
		ColAction:   j,
		Value:       m[i][j],
		Estimate:    estimate,
	}
}

// argmax returns the index of the largest value, first index on ties.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
