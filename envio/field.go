package envio

import (
	"fmt"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
)

// FieldConfig names the inputs for assembling a force field. Component
// lists pair by index: UComponents[i] and VComponents[i] describe one
// force. Weights and errors may be spatially variable grids or scalar
// values; grid files take priority over scalars, and omitted entries
// fall back to weight 1 and error 0.
type FieldConfig struct {
	UComponents []string
	VComponents []string
	Weights     []float64
	WeightGrids []string
	Errors      []float64
	ErrorGrids  []string
}

// BuildField assembles a force field shaped like the occupancy grid.
// With no component files the field is a single zero force, which
// reduces planning to obstacle avoidance.
func BuildField(occ grid.Occupancy, cfg FieldConfig) (*force.Field, error) {
	rows, cols := occ.Rows(), occ.Cols()

	if len(cfg.UComponents) == 0 && len(cfg.VComponents) == 0 {
		return force.ZeroField(rows, cols), nil
	}
	if len(cfg.UComponents) != len(cfg.VComponents) {
		return nil, fmt.Errorf("envio: %d u components but %d v components",
			len(cfg.UComponents), len(cfg.VComponents))
	}

	n := len(cfg.UComponents)
	if len(cfg.WeightGrids) > 0 && len(cfg.WeightGrids) != n {
		return nil, fmt.Errorf("envio: %d weight grids for %d forces", len(cfg.WeightGrids), n)
	}
	if len(cfg.Weights) > 0 && len(cfg.Weights) != n {
		return nil, fmt.Errorf("envio: %d weights for %d forces", len(cfg.Weights), n)
	}
	if len(cfg.ErrorGrids) > 0 && len(cfg.ErrorGrids) != n {
		return nil, fmt.Errorf("envio: %d error grids for %d forces", len(cfg.ErrorGrids), n)
	}
	if len(cfg.Errors) > 0 && len(cfg.Errors) != n {
		return nil, fmt.Errorf("envio: %d errors for %d forces", len(cfg.Errors), n)
	}

	sources := make([]force.Source, n)
	for i := 0; i < n; i++ {
		u, err := LoadComponentGrid(cfg.UComponents[i])
		if err != nil {
			return nil, err
		}
		v, err := LoadComponentGrid(cfg.VComponents[i])
		if err != nil {
			return nil, err
		}

		weight, err := scalarOrGrid(rows, cols, cfg.WeightGrids, cfg.Weights, i, 1)
		if err != nil {
			return nil, err
		}
		errGrid, err := scalarOrGrid(rows, cols, cfg.ErrorGrids, cfg.Errors, i, 0)
		if err != nil {
			return nil, err
		}

		sources[i] = force.Source{U: u, V: v, Weight: weight, Error: errGrid}
	}

	return force.NewField(rows, cols, sources...)
}

// scalarOrGrid resolves one weight or error layer: grid file first,
// then scalar, then the default value everywhere.
func scalarOrGrid(rows, cols int, paths []string, scalars []float64, i int, def float64) (grid.Grid, error) {
	if len(paths) > 0 {
		return LoadFloatGrid(paths[i])
	}
	if len(scalars) > 0 {
		return grid.NewUniformGrid(rows, cols, scalars[i]), nil
	}
	return grid.NewUniformGrid(rows, cols, def), nil
}
