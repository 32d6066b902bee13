// Package grid provides the spatial primitives for robust navigation
// planning: occupancy grids, scalar field grids, rectangular bounds, and
// the discrete move alphabet with its connectivity rules.
package grid

import (
	"errors"
	"fmt"
)

// Common grid errors.
var (
	ErrEmptyGrid         = errors.New("grid: grid must have at least one row and one column")
	ErrNonRectangular    = errors.New("grid: all rows must have the same length")
	ErrDimensionMismatch = errors.New("grid: grid dimensions do not match")
	ErrOutOfBounds       = errors.New("grid: cell outside grid dimensions")
	ErrInvalidBounds     = errors.New("grid: bounds not contained in grid")
)

// Cell identifies a single grid location by row and column.
type Cell struct {
	Row int
	Col int
}

// Grid is a dense 2D scalar field indexed [row][col].
type Grid [][]float64

// NewGrid allocates a rows×cols grid initialized to zero.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]float64, cols)
	}
	return g
}

// NewUniformGrid allocates a rows×cols grid with every cell set to v.
func NewUniformGrid(rows, cols int, v float64) Grid {
	g := NewGrid(rows, cols)
	g.Fill(v)
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Fill sets every cell to v.
func (g Grid) Fill(v float64) {
	for r := range g {
		for c := range g[r] {
			g[r][c] = v
		}
	}
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r := range g {
		out[r] = append([]float64(nil), g[r]...)
	}
	return out
}

// Validate checks that the grid is non-empty and rectangular.
func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return ErrEmptyGrid
	}
	for r := 1; r < len(g); r++ {
		if len(g[r]) != len(g[0]) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonRectangular, r, len(g[r]), len(g[0]))
		}
	}
	return nil
}

// Occupancy is a binary obstacle map: true marks a blocked cell.
type Occupancy [][]bool

// NewOccupancy allocates a fully free rows×cols occupancy map.
func NewOccupancy(rows, cols int) Occupancy {
	o := make(Occupancy, rows)
	for r := range o {
		o[r] = make([]bool, cols)
	}
	return o
}

// Rows returns the number of rows.
func (o Occupancy) Rows() int { return len(o) }

// Cols returns the number of columns, or 0 for an empty map.
func (o Occupancy) Cols() int {
	if len(o) == 0 {
		return 0
	}
	return len(o[0])
}

// InBounds reports whether c lies inside the map.
func (o Occupancy) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < o.Rows() && c.Col >= 0 && c.Col < o.Cols()
}

// Blocked reports whether c is an obstacle. Out-of-bounds cells are
// treated as blocked.
func (o Occupancy) Blocked(c Cell) bool {
	if !o.InBounds(c) {
		return true
	}
	return o[c.Row][c.Col]
}

// Validate checks that the map is non-empty and rectangular.
func (o Occupancy) Validate() error {
	if len(o) == 0 || len(o[0]) == 0 {
		return ErrEmptyGrid
	}
	for r := 1; r < len(o); r++ {
		if len(o[r]) != len(o[0]) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonRectangular, r, len(o[r]), len(o[0]))
		}
	}
	return nil
}

// Bounds restricts planning to a rectangular sub-region. UpperLeft is
// inclusive and LowerRight is exclusive (half-open on both axes).
type Bounds struct {
	UpperLeft  Cell
	LowerRight Cell
}

// FullBounds covers an entire rows×cols grid.
func FullBounds(rows, cols int) Bounds {
	return Bounds{LowerRight: Cell{Row: rows, Col: cols}}
}

// Contains reports whether c lies inside the half-open region.
func (b Bounds) Contains(c Cell) bool {
	return c.Row >= b.UpperLeft.Row && c.Row < b.LowerRight.Row &&
		c.Col >= b.UpperLeft.Col && c.Col < b.LowerRight.Col
}

// Cells returns the number of cells inside the region.
func (b Bounds) Cells() int {
	rows := b.LowerRight.Row - b.UpperLeft.Row
	cols := b.LowerRight.Col - b.UpperLeft.Col
	if rows <= 0 || cols <= 0 {
		return 0
	}
	return rows * cols
}

// Validate checks that the region is non-empty and contained in a
// rows×cols grid.
func (b Bounds) Validate(rows, cols int) error {
	if b.UpperLeft.Row < 0 || b.UpperLeft.Col < 0 ||
		b.LowerRight.Row > rows || b.LowerRight.Col > cols {
		return fmt.Errorf("%w: region [%d,%d)×[%d,%d) outside %d×%d grid",
			ErrInvalidBounds, b.UpperLeft.Row, b.LowerRight.Row, b.UpperLeft.Col, b.LowerRight.Col, rows, cols)
	}
	if b.Cells() == 0 {
		return fmt.Errorf("%w: empty region", ErrInvalidBounds)
	}
	return nil
}
