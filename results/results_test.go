package results_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/results"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func buildRun(t *testing.T) *results.Results {
	t.Helper()

	occ := grid.NewOccupancy(3, 3)
	field := force.ZeroField(3, 3)
	trav, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 2, Col: 2}, 1, traveler.EightWay)
	require.NoError(t, err)

	p, err := planner.New(occ, field, trav, planner.DefaultOptions())
	require.NoError(t, err)
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	r := results.NewBuilder().
		WithScenario(occ, field, trav, "open-3x3").
		WithPlanning(0, p.Bounds(), p.DMax(), nil).
		WithPlan(plan, "fictitious-play", 0.01).
		Build()
	r.Analysis = results.NewAnalyzer(r).ComputeAll()
	return r
}

func TestBuilderPopulatesRun(t *testing.T) {
	r := buildRun(t)

	assert.Equal(t, results.SchemaVersion, r.Version)
	assert.NotEmpty(t, r.Metadata.RunID)
	assert.Equal(t, "success", r.Metadata.Status)
	assert.Equal(t, "fictitious-play", r.Metadata.Solver)

	assert.Equal(t, 3, r.Scenario.Rows)
	assert.Equal(t, 0, r.Scenario.Obstacles)
	assert.Equal(t, "8way", r.Scenario.Motion)

	assert.True(t, r.Results.Summary.Converged)
	assert.Equal(t, 9, r.Results.Summary.Reachable)
	assert.InDelta(t, 2.0, r.Results.Summary.StartCost, 1e-9)
	assert.NotEmpty(t, r.Results.History)

	require.Len(t, r.Results.Grids.Actions, 3)
	assert.Equal(t, byte('*'), r.Results.Grids.Actions[2][2])
}

func TestBuilderWithError(t *testing.T) {
	r := results.NewBuilder().WithError(assert.AnError).Build()
	assert.Equal(t, "error", r.Metadata.Status)
	assert.Equal(t, assert.AnError.Error(), r.Metadata.Error)
}

func TestJSONRoundTrip(t *testing.T) {
	r := buildRun(t)

	s, err := results.ToJSON(r)
	require.NoError(t, err)
	back, err := results.FromJSON(s)
	require.NoError(t, err)

	assert.Equal(t, r.Metadata.RunID, back.Metadata.RunID)
	assert.Equal(t, r.Scenario, back.Scenario)
	assert.Equal(t, r.Results.Grids, back.Results.Grids)
	assert.Equal(t, r.Results.History, back.Results.History)
	require.NotNil(t, back.Analysis)
	assert.Equal(t, r.Analysis.Path, back.Analysis.Path)
}

func TestFileRoundTrip(t *testing.T) {
	r := buildRun(t)
	path := filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, results.WriteJSON(r, path))
	back, err := results.ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, r.Metadata.RunID, back.Metadata.RunID)
	assert.Equal(t, r.Results.Grids.Cost2Go, back.Results.Grids.Cost2Go)
}

func TestAnalyzerPathFollowsPolicy(t *testing.T) {
	r := buildRun(t)
	require.NotNil(t, r.Analysis)
	path := r.Analysis.Path
	require.NotNil(t, path)

	assert.True(t, path.Reached)
	assert.Equal(t, 2, path.Steps)
	assert.Equal(t, "dd", path.Moves)
	assert.InDelta(t, 2.0, path.Work, 1e-9)
	assert.Equal(t, grid.Cell{Row: 2, Col: 2}, path.Cells[len(path.Cells)-1])
}

func TestAnalyzerPolicyCounts(t *testing.T) {
	r := buildRun(t)
	policy := r.Analysis.Policy
	require.NotNil(t, policy)

	assert.Equal(t, 8, policy.Decisions, "every free cell but the target holds a move")
	assert.Zero(t, policy.Blocked)
	assert.Zero(t, policy.NoRoute)
	assert.Equal(t, 2, policy.Moves[grid.MoveDownRight.String()])
}

func TestAnalyzerStatistics(t *testing.T) {
	r := buildRun(t)
	stat, ok := r.Analysis.Statistics["cost2go"]
	require.True(t, ok)

	assert.Zero(t, stat.Min)
	assert.InDelta(t, 2.0, stat.Max, 1e-9)
	assert.InDelta(t, 13.0/9.0, stat.Mean, 1e-9)
}

func TestActionGridDecode(t *testing.T) {
	r := buildRun(t)
	ag, err := r.Results.Grids.ActionGrid()
	require.NoError(t, err)
	assert.Equal(t, grid.MoveTarget, ag[2][2])
	assert.Equal(t, grid.MoveDownRight, ag[0][0])
}
