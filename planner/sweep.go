package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/traverse-xyz/go-traverse/game"
	"github.com/traverse-xyz/go-traverse/grid"
)

// Plan is the result of a planning run: the three output grids, the
// sentinel they use, and per-sweep convergence history.
type Plan struct {
	Cost2Go grid.Grid
	Work2Go grid.Grid
	Actions grid.ActionGrid
	History []SweepStats
	DMax    float64
}

// Plan runs the propagation engine: repeated FIFO worklist sweeps from
// the target outward, each cell resolved by a zero-sum game against the
// environment, until the sweep budget is exhausted or a sweep changes
// nothing. Costs within a sweep are updated in place, so later cells see
// partially refreshed neighbors (Gauss-Seidel order, deterministic by
// the fixed worklist order).
//
// Cancellation is honored between sweeps; a canceled run returns the
// context error and no plan. Cell writes are atomic with respect to
// their cost/action pair, so every returned grid is fully populated and
// internally consistent.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	rows, cols := p.occ.Rows(), p.occ.Cols()

	cost2go := grid.NewUniformGrid(rows, cols, p.dmax)
	work2go := grid.NewGrid(rows, cols)
	actions := grid.NewActionGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if p.occ[r][c] {
				actions[r][c] = grid.MoveBlocked
			}
		}
	}

	iterations := p.opts.Iterations
	if iterations <= 0 {
		iterations = p.bounds.Cells()
	}

	var history []SweepStats
	for k := 0; k < iterations; k++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("planner: canceled before sweep %d: %w", k, err)
		}

		stats, err := p.sweep(k, cost2go, work2go, actions)
		if err != nil {
			return nil, err
		}
		history = append(history, stats)

		p.log.Debug().
			Int("sweep", k).
			Int("visited", stats.Visited).
			Int("reachable", stats.Reachable).
			Float64("mean_cost", stats.MeanCost).
			Int("changed", stats.Changed).
			Dur("elapsed", stats.Elapsed).
			Msg("sweep complete")

		if p.opts.OnSweep != nil {
			p.opts.OnSweep(stats)
		}
		if stats.Changed == 0 {
			p.log.Debug().Int("sweep", k).Msg("converged")
			break
		}
	}

	return &Plan{
		Cost2Go: cost2go,
		Work2Go: work2go,
		Actions: actions,
		History: history,
		DMax:    p.dmax,
	}, nil
}

// sweep runs one full worklist traversal seeded at the target.
func (p *Planner) sweep(k int, cost2go, work2go grid.Grid, actions grid.ActionGrid) (SweepStats, error) {
	start := time.Now()

	queue := []grid.Cell{p.trav.Target}
	visited := map[grid.Cell]bool{p.trav.Target: true}
	stats := SweepStats{Sweep: k}

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		cost, work, action, eq, err := p.resolveCell(cell, cost2go)
		if err != nil {
			return stats, err
		}
		if cost != cost2go[cell.Row][cell.Col] || action != actions[cell.Row][cell.Col] {
			stats.Changed++
		}
		cost2go[cell.Row][cell.Col] = cost
		work2go[cell.Row][cell.Col] = work
		actions[cell.Row][cell.Col] = action
		stats.Visited++

		if p.opts.Trace != nil && (p.traced == nil || p.traced[cell]) {
			p.opts.Trace(TraceEvent{
				Sweep:       k,
				Cell:        cell,
				Cost:        cost,
				Work:        work,
				Action:      action,
				Equilibrium: eq,
			})
		}

		for _, s := range p.occ.Neighbors(cell) {
			if !p.bounds.Contains(s.To) || visited[s.To] {
				continue
			}
			visited[s.To] = true
			queue = append(queue, s.To)
		}
	}

	// Aggregate cost statistics over finitely costed cells.
	for r := p.bounds.UpperLeft.Row; r < p.bounds.LowerRight.Row; r++ {
		for c := p.bounds.UpperLeft.Col; c < p.bounds.LowerRight.Col; c++ {
			v := cost2go[r][c]
			if v >= p.dmax {
				continue
			}
			stats.Reachable++
			stats.MeanCost += v
			if v > stats.MaxCost {
				stats.MaxCost = v
			}
		}
	}
	if stats.Reachable > 0 {
		stats.MeanCost /= float64(stats.Reachable)
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// resolveCell classifies one cell and computes its new cost, immediate
// work, and action.
func (p *Planner) resolveCell(cell grid.Cell, cost2go grid.Grid) (cost, work float64, action grid.Move, eq *game.Equilibrium, err error) {
	// The target is a fixed point: zero cost, never recomputed into
	// anything else.
	if cell == p.trav.Target {
		return 0, 0, grid.MoveTarget, nil, nil
	}
	if p.occ[cell.Row][cell.Col] {
		return p.dmax, 0, grid.MoveBlocked, nil, nil
	}
	// A cell whose whole 8-neighborhood is still at the sentinel has no
	// information to draw on yet; pruning it keeps stale values from
	// leaking through the frontier.
	if p.frontierDark(cell, cost2go) {
		return p.dmax, 0, grid.MoveNoRoute, nil, nil
	}

	g, err := game.Build(cell, p.trav, p.field, p.occ, p.dmax, cost2go)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	eq, err = p.solver.Solve(g.Cost)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("planner: solve cell (%d,%d): %w", cell.Row, cell.Col, err)
	}

	if eq.Value >= p.dmax {
		return p.dmax, 0, grid.MoveNoRoute, eq, nil
	}
	return eq.Value, g.Work[eq.RowAction][eq.ColAction], p.trav.Actions[eq.RowAction], eq, nil
}

// frontierDark reports whether every orthogonal and diagonal neighbor
// of cell still carries the sentinel. Cells outside the grid count as
// dark.
func (p *Planner) frontierDark(cell grid.Cell, cost2go grid.Grid) bool {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := cell.Row+dr, cell.Col+dc
			if r < 0 || r >= cost2go.Rows() || c < 0 || c >= cost2go.Cols() {
				continue
			}
			if cost2go[r][c] < p.dmax {
				return false
			}
		}
	}
	return true
}
