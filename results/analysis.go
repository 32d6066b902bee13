package results

import (
	"math"
	"sort"
	"strings"

	"github.com/traverse-xyz/go-traverse/grid"
)

// Analyzer computes insights from planning results
type Analyzer struct {
	results *Results
}

// NewAnalyzer creates an analyzer for results
func NewAnalyzer(r *Results) *Analyzer {
	return &Analyzer{results: r}
}

// ComputeAll runs all analysis functions
func (a *Analyzer) ComputeAll() *Analysis {
	analysis := &Analysis{
		Statistics: make(map[string]Stat),
	}

	analysis.Path = a.tracePath()
	analysis.Convergence = a.summarizeConvergence()
	analysis.Policy = a.summarizePolicy()

	dmax := a.results.Planning.DMax
	analysis.Statistics["cost2go"] = a.computeStats(a.results.Results.Grids.Cost2Go, dmax)
	analysis.Statistics["work2go"] = a.computeStats(a.results.Results.Grids.Work2Go, dmax)

	return analysis
}

// tracePath follows the policy from the start cell until it reaches the
// target, hits a dead end, or revisits a cell.
func (a *Analyzer) tracePath() *Path {
	actions, err := a.results.Results.Grids.ActionGrid()
	if err != nil {
		return nil
	}

	path := &Path{}
	var moves strings.Builder
	var work float64

	cur := a.results.Scenario.Start
	seen := map[grid.Cell]bool{}
	workGrid := a.results.Results.Grids.Work2Go

	for !seen[cur] {
		seen[cur] = true
		path.Cells = append(path.Cells, cur)

		if cur.Row < 0 || cur.Row >= len(actions) || cur.Col < 0 || cur.Col >= len(actions[cur.Row]) {
			break
		}
		m := actions[cur.Row][cur.Col]
		if m == grid.MoveTarget {
			path.Reached = true
			break
		}
		if !m.Directional() {
			break
		}

		moves.WriteByte(byte(m))
		if cur.Row < workGrid.Rows() && cur.Col < workGrid.Cols() {
			work += workGrid[cur.Row][cur.Col]
		}
		cur = m.Dest(cur)
		path.Steps++
	}

	path.Moves = moves.String()
	path.Work = work
	return path
}

// summarizeConvergence aggregates the sweep history
func (a *Analyzer) summarizeConvergence() *Convergence {
	history := a.results.Results.History
	if len(history) == 0 {
		return nil
	}

	conv := &Convergence{Sweeps: len(history)}
	for _, s := range history {
		conv.TotalChanged += s.Changed
		conv.ElapsedTotal += s.Elapsed.Seconds()
	}
	last := history[len(history)-1]
	conv.FinalChanged = last.Changed
	conv.Converged = last.Changed == 0
	return conv
}

// summarizePolicy counts action symbols across the grid
func (a *Analyzer) summarizePolicy() *Policy {
	policy := &Policy{Moves: make(map[string]int)}

	for _, row := range a.results.Results.Grids.Actions {
		for i := 0; i < len(row); i++ {
			m, err := grid.ParseMove(row[i])
			if err != nil {
				continue
			}
			switch {
			case m == grid.MoveBlocked:
				policy.Blocked++
			case m == grid.MoveNoRoute:
				policy.NoRoute++
			case m.Directional():
				policy.Moves[m.String()]++
				policy.Decisions++
			}
		}
	}
	return policy
}

// computeStats calculates a statistical summary over cells below the
// sentinel
func (a *Analyzer) computeStats(g grid.Grid, dmax float64) Stat {
	var values []float64
	for _, row := range g {
		for _, v := range row {
			if dmax > 0 && v >= dmax {
				continue
			}
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Stat{}
	}

	min := values[0]
	max := values[0]
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(len(values)))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return Stat{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
		Std:    std,
	}
}
