package game

// DefaultFictitiousIterations is the default best-response iteration
// count. Accuracy improves roughly with the square root of the count.
const DefaultFictitiousIterations = 100

// FictitiousPlay approximates a zero-sum equilibrium by iterated best
// response: at each step every player plays a pure best response to the
// opponent's empirical mixture so far, and the normalized play counts
// converge toward the equilibrium mixed strategies (Brown's fictitious
// play, in the tabular form described by J.D. Williams in The Compleat
// Strategyst).
type FictitiousPlay struct {
	// Iterations bounds the best-response loop. Zero selects
	// DefaultFictitiousIterations.
	Iterations int
}

// Name implements Solver.
func (FictitiousPlay) Name() string { return "fictitious-play" }

// Solve implements Solver. Best responses break ties toward the lowest
// index, keeping the result deterministic for identical inputs.
func (fp FictitiousPlay) Solve(m Matrix) (*Equilibrium, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	iters := fp.Iterations
	if iters <= 0 {
		iters = DefaultFictitiousIterations
	}

	rows, cols := m.Rows(), m.Cols()

	// Work on the negated matrix so the row player maximizes: rows seek
	// high negated payoff (low cost), columns seek low negated payoff
	// (high cost).
	rowCum := make([]float64, rows)
	colCum := make([]float64, cols)
	rowCnt := make([]float64, rows)
	colCnt := make([]float64, cols)

	active := 0
	for i := 0; i < iters; i++ {
		rowCnt[active]++
		for c := 0; c < cols; c++ {
			colCum[c] += -m[active][c]
		}
		// Column best response: minimal cumulative negated payoff.
		best := 0
		for c := 1; c < cols; c++ {
			if colCum[c] < colCum[best] {
				best = c
			}
		}
		colCnt[best]++
		for r := 0; r < rows; r++ {
			rowCum[r] += -m[r][best]
		}
		// Row best response: maximal cumulative negated payoff.
		active = 0
		for r := 1; r < rows; r++ {
			if rowCum[r] > rowCum[active] {
				active = r
			}
		}
	}

	rowStrategy := make([]float64, rows)
	for r := range rowCnt {
		rowStrategy[r] = rowCnt[r] / float64(iters)
	}
	colStrategy := make([]float64, cols)
	for c := range colCnt {
		colStrategy[c] = colCnt[c] / float64(iters)
	}

	// Midpoint of the realized bounds on the negated game, mapped back
	// to cost by sign flip.
	maxRow := rowCum[0]
	for _, v := range rowCum[1:] {
		if v > maxRow {
			maxRow = v
		}
	}
	minCol := colCum[0]
	for _, v := range colCum[1:] {
		if v < minCol {
			minCol = v
		}
	}
	estimate := -(maxRow + minCol) / 2 / float64(iters)

	return finalize(m, rowStrategy, colStrategy, estimate), nil
}
