package results

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/traveler"
)

// Builder helps construct Results from planner output
type Builder struct {
	results Results
}

// NewBuilder creates a new results builder with a fresh run ID
func NewBuilder() *Builder {
	return &Builder{
		results: Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.NewString(),
				Timestamp: time.Now(),
			},
		},
	}
}

// WithScenario sets the planning inputs
func (b *Builder) WithScenario(occ grid.Occupancy, field *force.Field, trav *traveler.Traveler, name string) *Builder {
	obstacles := 0
	for r := 0; r < occ.Rows(); r++ {
		for c := 0; c < occ.Cols(); c++ {
			if occ[r][c] {
				obstacles++
			}
		}
	}

	b.results.Scenario = Scenario{
		Name:      name,
		Rows:      occ.Rows(),
		Cols:      occ.Cols(),
		Obstacles: obstacles,
		Sources:   field.NumSources(),
		Start:     trav.Start,
		Target:    trav.Target,
		Speed:     trav.Speed,
		Motion:    trav.Motion.String(),
	}
	return b
}

// WithPlanning sets the propagation parameters
func (b *Builder) WithPlanning(iterations int, bounds grid.Bounds, dmax float64, opts *GameOptions) *Builder {
	b.results.Planning = Planning{
		Iterations: iterations,
		Bounds:     bounds,
		DMax:       dmax,
		Options:    opts,
	}
	return b
}

// WithPlan processes planner output. Call after WithScenario so the
// summary can report the start cell's cost.
func (b *Builder) WithPlan(plan *planner.Plan, solverName string, computeTime float64) *Builder {
	b.results.Metadata.Solver = solverName
	b.results.Metadata.Status = "success"
	b.results.Metadata.ComputeTime = computeTime

	summary := Summary{
		Sweeps: len(plan.History),
	}
	if n := len(plan.History); n > 0 {
		last := plan.History[n-1]
		summary.Converged = last.Changed == 0
		summary.Reachable = last.Reachable
		summary.MeanCost = last.MeanCost
		summary.MaxCost = last.MaxCost
	}
	start := b.results.Scenario.Start
	if start.Row >= 0 && start.Row < plan.Cost2Go.Rows() &&
		start.Col >= 0 && start.Col < plan.Cost2Go.Cols() {
		summary.StartCost = plan.Cost2Go[start.Row][start.Col]
	}

	b.results.Results = Data{
		Summary: summary,
		Grids: Grids{
			Cost2Go: plan.Cost2Go.Clone(),
			Work2Go: plan.Work2Go.Clone(),
			Actions: encodeActions(plan.Actions),
		},
		History: plan.History,
	}
	return b
}

// WithError sets error status
func (b *Builder) WithError(err error) *Builder {
	b.results.Metadata.Status = "error"
	b.results.Metadata.Error = err.Error()
	return b
}

// Build returns the constructed Results
func (b *Builder) Build() *Results {
	return &b.results
}

func encodeActions(actions grid.ActionGrid) []string {
	rows := make([]string, len(actions))
	for r, row := range actions {
		var sb strings.Builder
		sb.Grow(len(row))
		for _, m := range row {
			sb.WriteByte(byte(m))
		}
		rows[r] = sb.String()
	}
	return rows
}

// ActionGrid reconstructs the policy grid from its encoded rows.
func (g Grids) ActionGrid() (grid.ActionGrid, error) {
	return grid.DecodeActionGrid(strings.NewReader(strings.Join(g.Actions, "\n")))
}
