package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/game"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func occupancyFrom(rows ...string) grid.Occupancy {
	o := grid.NewOccupancy(len(rows), len(rows[0]))
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			o[r][c] = line[c] == '#'
		}
	}
	return o
}

func planOpen3x3(t *testing.T, opts planner.Options) *planner.Plan {
	t.Helper()
	occ := grid.NewOccupancy(3, 3)
	tr, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 2, Col: 2}, 1, traveler.EightWay)
	require.NoError(t, err)

	p, err := planner.New(occ, force.ZeroField(3, 3), tr, opts)
	require.NoError(t, err)
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)
	return plan
}

func TestNewValidatesInputs(t *testing.T) {
	occ := grid.NewOccupancy(3, 3)
	tr, err := traveler.New(grid.Cell{}, grid.Cell{Row: 2, Col: 2}, 1, traveler.FourWay)
	require.NoError(t, err)

	_, err = planner.New(nil, force.ZeroField(3, 3), tr, planner.DefaultOptions())
	assert.ErrorIs(t, err, planner.ErrNilInput)

	_, err = planner.New(occ, force.ZeroField(4, 3), tr, planner.DefaultOptions())
	assert.ErrorIs(t, err, grid.ErrDimensionMismatch)

	badBounds := grid.Bounds{LowerRight: grid.Cell{Row: 9, Col: 9}}
	opts := planner.DefaultOptions()
	opts.Bounds = &badBounds
	_, err = planner.New(occ, force.ZeroField(3, 3), tr, opts)
	assert.ErrorIs(t, err, grid.ErrInvalidBounds)

	occ[2][2] = true
	_, err = planner.New(occ, force.ZeroField(3, 3), tr, planner.DefaultOptions())
	assert.Error(t, err, "obstacle target rejected before propagation")
}

func TestTargetFixedPoint(t *testing.T) {
	for _, iters := range []int{1, 3, 9} {
		opts := planner.DefaultOptions()
		opts.Iterations = iters
		plan := planOpen3x3(t, opts)

		assert.Zero(t, plan.Cost2Go[2][2], "iterations=%d", iters)
		assert.Equal(t, grid.MoveTarget, plan.Actions[2][2], "iterations=%d", iters)
	}
}

func TestDegenerateShortestPath(t *testing.T) {
	// Zero-weight, zero-error field: the game has one effective column
	// and planning reduces to a minimum-effort shortest path. On an
	// open 3×3 with unit speed every step costs exactly 1, so cost-to-go
	// is the Chebyshev distance to the target.
	plan := planOpen3x3(t, planner.DefaultOptions())

	want := grid.Grid{
		{2, 2, 2},
		{2, 1, 1},
		{2, 1, 0},
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want[r][c], plan.Cost2Go[r][c], 1e-9, "cell (%d,%d)", r, c)
		}
	}

	// The equilibrium policy moves straight toward the target.
	assert.Equal(t, grid.MoveDownRight, plan.Actions[0][0])
	assert.Equal(t, grid.MoveDownRight, plan.Actions[1][1])
	assert.Equal(t, grid.MoveDown, plan.Actions[1][2])
	assert.Equal(t, grid.MoveRight, plan.Actions[2][1])

	// Work-to-go records the immediate effort of the chosen step.
	assert.InDelta(t, 1.0, plan.Work2Go[1][1], 1e-9)
	assert.Zero(t, plan.Work2Go[2][2])
}

func TestMonotonicConvergence(t *testing.T) {
	// The worklist explores the full move neighborhood, so a four-way
	// traveler can be visited before its best orthogonal predecessor
	// has settled and needs extra sweeps to relax. Truncated runs of
	// the same deterministic planner expose per-sweep values: for any
	// fixed cell the cost never increases as the budget grows.
	occ := occupancyFrom(
		".....",
		".##..",
		".....",
		"..#..",
		".....",
	)

	var prev grid.Grid
	for _, iters := range []int{1, 2, 3, 5} {
		tr, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 4, Col: 4}, 1, traveler.FourWay)
		require.NoError(t, err)
		opts := planner.DefaultOptions()
		opts.Iterations = iters
		p, err := planner.New(occ, force.ZeroField(5, 5), tr, opts)
		require.NoError(t, err)
		plan, err := p.Plan(context.Background())
		require.NoError(t, err)

		if prev != nil {
			for r := 0; r < 5; r++ {
				for c := 0; c < 5; c++ {
					assert.LessOrEqual(t, plan.Cost2Go[r][c], prev[r][c]+1e-9,
						"cost at (%d,%d) must not increase between sweep budgets", r, c)
				}
			}
		}
		prev = plan.Cost2Go
	}
}

func TestObstacleInvariant(t *testing.T) {
	occ := occupancyFrom(
		"...",
		".#.",
		"...",
	)
	tr, err := traveler.New(grid.Cell{}, grid.Cell{Row: 2, Col: 2}, 1, traveler.EightWay)
	require.NoError(t, err)
	p, err := planner.New(occ, force.ZeroField(3, 3), tr, planner.DefaultOptions())
	require.NoError(t, err)
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, plan.DMax, plan.Cost2Go[1][1])
	assert.Equal(t, grid.MoveBlocked, plan.Actions[1][1])
}

func TestSentinelIsolation(t *testing.T) {
	// A full obstacle wall splits off the right column: no finite value
	// may leak across it, whatever the sweep budget.
	occ := occupancyFrom(
		"...#.",
		"...#.",
		"...#.",
		"...#.",
		"...#.",
	)
	tr, err := traveler.New(grid.Cell{Row: 4, Col: 0}, grid.Cell{Row: 0, Col: 0}, 1, traveler.SixteenWay)
	require.NoError(t, err)
	opts := planner.DefaultOptions()
	opts.Iterations = 5
	p, err := planner.New(occ, force.ZeroField(5, 5), tr, opts)
	require.NoError(t, err)
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	for r := 0; r < 5; r++ {
		assert.Equal(t, plan.DMax, plan.Cost2Go[r][4], "row %d", r)
		assert.Equal(t, grid.MoveNoRoute, plan.Actions[r][4], "row %d", r)
	}
	// Left of the wall everything resolves.
	for r := 0; r < 5; r++ {
		for c := 0; c < 3; c++ {
			assert.Less(t, plan.Cost2Go[r][c], plan.DMax, "cell (%d,%d)", r, c)
		}
	}
}

func TestBoundsFreezeOutsideCells(t *testing.T) {
	occ := grid.NewOccupancy(4, 4)
	tr, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 1, Col: 1}, 1, traveler.EightWay)
	require.NoError(t, err)

	b := grid.Bounds{LowerRight: grid.Cell{Row: 2, Col: 2}}
	opts := planner.DefaultOptions()
	opts.Bounds = &b
	p, err := planner.New(occ, force.ZeroField(4, 4), tr, opts)
	require.NoError(t, err)
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	// Inside the region: resolved.
	assert.Zero(t, plan.Cost2Go[1][1])
	assert.Less(t, plan.Cost2Go[0][0], plan.DMax)

	// Outside: frozen at initialization.
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if r < 2 && c < 2 {
				continue
			}
			assert.Equal(t, plan.DMax, plan.Cost2Go[r][c], "cell (%d,%d)", r, c)
			assert.Equal(t, grid.MoveNoRoute, plan.Actions[r][c], "cell (%d,%d)", r, c)
		}
	}
}

func TestConvergenceHistory(t *testing.T) {
	var streamed []planner.SweepStats
	opts := planner.DefaultOptions()
	opts.OnSweep = func(s planner.SweepStats) { streamed = append(streamed, s) }
	plan := planOpen3x3(t, opts)

	require.NotEmpty(t, plan.History)
	assert.Equal(t, plan.History, streamed, "OnSweep mirrors the recorded history")

	last := plan.History[len(plan.History)-1]
	assert.Zero(t, last.Changed, "run ends on a converged sweep")
	assert.Equal(t, 9, last.Reachable)
	assert.Equal(t, 9, last.Visited)
	assert.Greater(t, last.MeanCost, 0.0)
	assert.InDelta(t, 2.0, last.MaxCost, 1e-9)

	for i, s := range plan.History {
		assert.Equal(t, i, s.Sweep)
	}
}

func TestTraceHook(t *testing.T) {
	watch := grid.Cell{Row: 0, Col: 0}
	var events []planner.TraceEvent
	opts := planner.DefaultOptions()
	opts.Trace = func(ev planner.TraceEvent) { events = append(events, ev) }
	opts.TraceCells = []grid.Cell{watch}

	planOpen3x3(t, opts)

	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, watch, ev.Cell, "only the watched cell is traced")
	}
	last := events[len(events)-1]
	assert.InDelta(t, 2.0, last.Cost, 1e-9)
	assert.Equal(t, grid.MoveDownRight, last.Action)
	require.NotNil(t, last.Equilibrium)
	assert.Equal(t, grid.MoveDownRight, grid.AllMoves[last.Equilibrium.RowAction])
}

func TestCancellationBetweenSweeps(t *testing.T) {
	occ := grid.NewOccupancy(3, 3)
	tr, err := traveler.New(grid.Cell{}, grid.Cell{Row: 2, Col: 2}, 1, traveler.FourWay)
	require.NoError(t, err)
	p, err := planner.New(occ, force.ZeroField(3, 3), tr, planner.DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Plan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupportEnumerationSolverAgreesOnDegenerateGame(t *testing.T) {
	opts := planner.DefaultOptions()
	opts.Solver = game.SupportEnumeration{}
	exact := planOpen3x3(t, opts)

	approx := planOpen3x3(t, planner.DefaultOptions())
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, approx.Cost2Go[r][c], exact.Cost2Go[r][c], 1e-6, "cell (%d,%d)", r, c)
		}
	}
}
