// Package game builds and solves the per-cell zero-sum matrix games at
// the heart of robust navigation planning. The traveler picks a row
// (a move) to minimize cost; the adversary picks a column (a joint
// force realization) to maximize it.
package game

import "errors"

// Game errors.
var (
	ErrEmptyMatrix   = errors.New("game: payoff matrix must have at least one row and one column")
	ErrInvalidMove   = errors.New("game: outcome requested for a move not validated by connectivity")
	ErrNoEquilibrium = errors.New("game: no equilibrium found")
)

// Matrix is a dense payoff matrix indexed [row][col].
type Matrix [][]float64

// NewMatrix allocates a rows×cols zero matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for r := range m {
		m[r] = make([]float64, cols)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// MinMax returns the smallest and largest entries.
func (m Matrix) MinMax() (min, max float64) {
	min, max = m[0][0], m[0][0]
	for _, row := range m {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

func (m Matrix) validate() error {
	if m.Rows() == 0 || m.Cols() == 0 {
		return ErrEmptyMatrix
	}
	for _, row := range m {
		if len(row) != m.Cols() {
			return ErrEmptyMatrix
		}
	}
	return nil
}
