package game

import "math"

const supportTol = 1e-9

// SupportEnumeration finds an exact equilibrium by enumerating support
// pairs of equal size and solving the indifference equations for each.
// The first valid support pair in lexicographic order wins, so results
// are deterministic. Enumeration is combinatorial in the matrix
// dimensions: intended for small games and for cross-checking the
// fictitious-play solver, not for wide adversary spaces.
type SupportEnumeration struct{}

// Name implements Solver.
func (SupportEnumeration) Name() string { return "support-enumeration" }

// Solve implements Solver.
func (SupportEnumeration) Solve(m Matrix) (*Equilibrium, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	rows, cols := m.Rows(), m.Cols()

	// Row player maximizes the negated payoff.
	p := NewMatrix(rows, cols)
	for r := range p {
		for c := range p[r] {
			p[r][c] = -m[r][c]
		}
	}

	maxK := rows
	if cols < maxK {
		maxK = cols
	}
	for k := 1; k <= maxK; k++ {
		var found *Equilibrium
		forEachCombination(rows, k, func(rowSupport []int) bool {
			var done bool
			forEachCombination(cols, k, func(colSupport []int) bool {
				if eq := trySupport(p, m, rowSupport, colSupport); eq != nil {
					found = eq
					done = true
				}
				return done
			})
			return done
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, ErrNoEquilibrium
}

// trySupport solves the indifference equations on one support pair and
// verifies feasibility and best-response conditions. Returns nil when
// the pair admits no equilibrium.
func trySupport(p, m Matrix, rowSupport, colSupport []int) *Equilibrium {
	k := len(rowSupport)

	// Column mixture y over colSupport and value v such that every
	// supported row earns exactly v.
	ySys := make([][]float64, k+1)
	for i, r := range rowSupport {
		ySys[i] = make([]float64, k+2)
		for j, c := range colSupport {
			ySys[i][j] = p[r][c]
		}
		ySys[i][k] = -1 // -v
		ySys[i][k+1] = 0
	}
	ySys[k] = make([]float64, k+2)
	for j := 0; j < k; j++ {
		ySys[k][j] = 1
	}
	ySys[k][k+1] = 1
	ySol, ok := solveLinear(ySys)
	if !ok {
		return nil
	}
	y, v := ySol[:k], ySol[k]

	// Row mixture x over rowSupport and value w such that every
	// supported column concedes exactly w.
	xSys := make([][]float64, k+1)
	for j, c := range colSupport {
		xSys[j] = make([]float64, k+2)
		for i, r := range rowSupport {
			xSys[j][i] = p[r][c]
		}
		xSys[j][k] = -1
		xSys[j][k+1] = 0
	}
	xSys[k] = make([]float64, k+2)
	for i := 0; i < k; i++ {
		xSys[k][i] = 1
	}
	xSys[k][k+1] = 1
	xSol, ok := solveLinear(xSys)
	if !ok {
		return nil
	}
	x, w := xSol[:k], xSol[k]

	if math.Abs(v-w) > supportTol {
		return nil
	}
	for _, prob := range y {
		if prob < -supportTol {
			return nil
		}
	}
	for _, prob := range x {
		if prob < -supportTol {
			return nil
		}
	}

	rowStrategy := make([]float64, p.Rows())
	for i, r := range rowSupport {
		rowStrategy[r] = clampProb(x[i])
	}
	colStrategy := make([]float64, p.Cols())
	for j, c := range colSupport {
		colStrategy[c] = clampProb(y[j])
	}

	// Best-response checks outside the supports: no row may earn more
	// than v against y, no column may concede less than w against x.
	for r := 0; r < p.Rows(); r++ {
		earn := 0.0
		for j, c := range colSupport {
			earn += p[r][c] * y[j]
		}
		if earn > v+supportTol {
			return nil
		}
	}
	for c := 0; c < p.Cols(); c++ {
		concede := 0.0
		for i, r := range rowSupport {
			concede += p[r][c] * x[i]
		}
		if concede < w-supportTol {
			return nil
		}
	}

	// Map the negated-game value back to cost.
	return finalize(m, rowStrategy, colStrategy, -v)
}

func clampProb(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// forEachCombination visits the k-subsets of {0..n-1} in lexicographic
// order until visit returns true.
func forEachCombination(n, k int, visit func([]int) bool) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if visit(idx) {
			return
		}
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// solveLinear solves an augmented system rows×(rows+1) by Gaussian
// elimination with partial pivoting. Returns ok=false for singular
// systems.
func solveLinear(aug [][]float64) ([]float64, bool) {
	n := len(aug)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col] / aug[col][col]
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = aug[i][n] / aug[i][i]
	}
	return out, true
}
