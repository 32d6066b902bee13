package sensitivity

import (
	"context"
	"math"
	"testing"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func testScenario(t *testing.T) (grid.Occupancy, *force.Field, *traveler.Traveler) {
	t.Helper()
	occ := grid.NewOccupancy(3, 3)
	// Source 0 carries the only effective force. Source 1 has weight
	// zero everywhere, so silencing it must change nothing.
	field, err := force.NewField(3, 3,
		force.UniformSource(3, 3, 0.4, 0.2, 1, 0.3),
		force.UniformSource(3, 3, 0.9, -0.5, 0, 0),
	)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	trav, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 2, Col: 2}, 10, traveler.EightWay)
	if err != nil {
		t.Fatalf("traveler.New failed: %v", err)
	}
	return occ, field, trav
}

func TestAnalyzeSources(t *testing.T) {
	occ, field, trav := testScenario(t)
	a := NewAnalyzer(occ, field, trav, StartCostScorer(grid.Cell{Row: 0, Col: 0}))

	result, err := a.AnalyzeSources(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeSources failed: %v", err)
	}

	if len(result.Scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(result.Scores))
	}
	if result.Impact[1] != 0 {
		t.Errorf("Silencing a zero-weight source must have zero impact, got %f", result.Impact[1])
	}
	if result.Impact[0] == 0 {
		t.Error("Silencing the effective source should change the start cost")
	}
	if len(result.Ranking) != 2 || result.Ranking[0].Source != 0 {
		t.Errorf("Expected source 0 ranked first, got %+v", result.Ranking)
	}
	if math.IsInf(result.Baseline, 0) || math.IsNaN(result.Baseline) {
		t.Errorf("Baseline should be finite, got %f", result.Baseline)
	}
}

func TestAnalyzeSourcesParallelMatchesSequential(t *testing.T) {
	occ, field, trav := testScenario(t)
	a := NewAnalyzer(occ, field, trav, StartCostScorer(grid.Cell{Row: 0, Col: 0}))

	seq, err := a.AnalyzeSources(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeSources failed: %v", err)
	}
	par, err := a.AnalyzeSourcesParallel(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeSourcesParallel failed: %v", err)
	}

	if par.Baseline != seq.Baseline {
		t.Errorf("Baseline %f != %f", par.Baseline, seq.Baseline)
	}
	for src, want := range seq.Scores {
		if got := par.Scores[src]; got != want {
			t.Errorf("Source %d: score %f != %f", src, got, want)
		}
	}
	for i := range seq.Ranking {
		if par.Ranking[i] != seq.Ranking[i] {
			t.Errorf("Ranking %d: %+v != %+v", i, par.Ranking[i], seq.Ranking[i])
		}
	}
}

func TestSweepErrorScale(t *testing.T) {
	occ, field, trav := testScenario(t)
	a := NewAnalyzer(occ, field, trav, StartCostScorer(grid.Cell{Row: 0, Col: 0}))

	scales := []float64{0, 1, 2}
	result, err := a.SweepErrorScale(context.Background(), scales)
	if err != nil {
		t.Fatalf("SweepErrorScale failed: %v", err)
	}

	if len(result.Scores) != len(scales) {
		t.Fatalf("Expected %d scores, got %d", len(scales), len(result.Scores))
	}
	minScore, maxScore := math.Inf(1), math.Inf(-1)
	for i, s := range result.Scores {
		if math.IsInf(s, 0) || math.IsNaN(s) {
			t.Fatalf("Score %d not finite: %f", i, s)
		}
		minScore = math.Min(minScore, s)
		maxScore = math.Max(maxScore, s)
	}
	if result.Best.Score != minScore {
		t.Errorf("Best score %f != min %f", result.Best.Score, minScore)
	}
	if result.Worst.Score != maxScore {
		t.Errorf("Worst score %f != max %f", result.Worst.Score, maxScore)
	}
}

func TestAnalyzerRespectsCancellation(t *testing.T) {
	occ, field, trav := testScenario(t)
	a := NewAnalyzer(occ, field, trav, ReachableScorer())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.AnalyzeSources(ctx); err == nil {
		t.Error("Expected error from canceled context")
	}
}

func TestAnalyzerWithOptions(t *testing.T) {
	occ, field, trav := testScenario(t)
	opts := planner.DefaultOptions()
	opts.Iterations = 1

	a := NewAnalyzer(occ, field, trav, MeanCostScorer()).WithOptions(opts)
	result, err := a.AnalyzeSources(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeSources failed: %v", err)
	}
	if len(result.Scores) != 2 {
		t.Errorf("Expected 2 scores, got %d", len(result.Scores))
	}
}
