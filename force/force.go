// Package force models the uncertain environmental forces acting on a
// traveler: per-source vector component grids with spatially variable
// weights and error bounds, and the discretized adversary action space
// derived from them.
package force

import (
	"errors"
	"fmt"

	"github.com/traverse-xyz/go-traverse/grid"
)

// Field errors.
var (
	ErrNoSources      = errors.New("force: field must have at least one source")
	ErrSourceMismatch = errors.New("force: source grids must share the occupancy dimensions")
)

// Source is one environmental force: u/v component grids plus a weight
// grid (local significance) and an error grid (per-cell uncertainty
// bound on each component).
type Source struct {
	U      grid.Grid
	V      grid.Grid
	Weight grid.Grid
	Error  grid.Grid
}

// Field is an ordered collection of force sources, all sharing one set
// of grid dimensions. It is immutable once validated.
type Field struct {
	Sources []Source
	rows    int
	cols    int
}

// NewField validates the sources against the rows×cols planning grid.
func NewField(rows, cols int, sources ...Source) (*Field, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	for i, s := range sources {
		for name, g := range map[string]grid.Grid{"u": s.U, "v": s.V, "weight": s.Weight, "error": s.Error} {
			if err := g.Validate(); err != nil {
				return nil, fmt.Errorf("force: source %d %s grid: %w", i, name, err)
			}
			if g.Rows() != rows || g.Cols() != cols {
				return nil, fmt.Errorf("%w: source %d %s grid is %d×%d, want %d×%d",
					ErrSourceMismatch, i, name, g.Rows(), g.Cols(), rows, cols)
			}
		}
	}
	return &Field{Sources: sources, rows: rows, cols: cols}, nil
}

// ZeroField builds a field with a single zero-valued source at weight 0
// and error 0. Planning against it degenerates to a minimum-effort
// shortest path.
func ZeroField(rows, cols int) *Field {
	return &Field{
		Sources: []Source{{
			U:      grid.NewGrid(rows, cols),
			V:      grid.NewGrid(rows, cols),
			Weight: grid.NewGrid(rows, cols),
			Error:  grid.NewGrid(rows, cols),
		}},
		rows: rows,
		cols: cols,
	}
}

// UniformSource builds a source with constant components, weight, and
// error across a rows×cols grid.
func UniformSource(rows, cols int, u, v, weight, errBound float64) Source {
	return Source{
		U:      grid.NewUniformGrid(rows, cols, u),
		V:      grid.NewUniformGrid(rows, cols, v),
		Weight: grid.NewUniformGrid(rows, cols, weight),
		Error:  grid.NewUniformGrid(rows, cols, errBound),
	}
}

// NumSources returns the number of force sources.
func (f *Field) NumSources() int { return len(f.Sources) }

// Rows returns the field's row count.
func (f *Field) Rows() int { return f.rows }

// Cols returns the field's column count.
func (f *Field) Cols() int { return f.cols }

// WeightsAt returns the per-source weights at c, in source order.
func (f *Field) WeightsAt(c grid.Cell) []float64 {
	w := make([]float64, len(f.Sources))
	for i, s := range f.Sources {
		w[i] = s.Weight[c.Row][c.Col]
	}
	return w
}

// ErrorsAt returns the per-source error bounds at c, in source order.
func (f *Field) ErrorsAt(c grid.Cell) []float64 {
	e := make([]float64, len(f.Sources))
	for i, s := range f.Sources {
		e[i] = s.Error[c.Row][c.Col]
	}
	return e
}
