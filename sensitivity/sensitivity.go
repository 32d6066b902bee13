// Package sensitivity provides tools for analyzing how a planned
// policy changes with the force environment. This includes per-source
// impact ranking and sweeps over the uncertainty bounds.
package sensitivity

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/traveler"
)

// Scorer evaluates a completed plan and returns a score.
type Scorer func(p *planner.Plan) float64

// StartCostScorer creates a Scorer that returns the cost-to-go at a
// cell, typically the traveler's start.
func StartCostScorer(c grid.Cell) Scorer {
	return func(p *planner.Plan) float64 {
		return p.Cost2Go[c.Row][c.Col]
	}
}

// ReachableScorer creates a Scorer that returns the number of cells
// with a finite route to the target.
func ReachableScorer() Scorer {
	return func(p *planner.Plan) float64 {
		if len(p.History) == 0 {
			return 0
		}
		return float64(p.History[len(p.History)-1].Reachable)
	}
}

// MeanCostScorer creates a Scorer that returns the mean cost-to-go
// over reachable cells.
func MeanCostScorer() Scorer {
	return func(p *planner.Plan) float64 {
		if len(p.History) == 0 {
			return 0
		}
		return p.History[len(p.History)-1].MeanCost
	}
}

// Result holds the result of a source sensitivity analysis.
type Result struct {
	Baseline float64         // Score with the original field
	Scores   map[int]float64 // Score with each source silenced
	Impact   map[int]float64 // Change from baseline (Score - Baseline)
	Ranking  []RankedSource  // Sources sorted by absolute impact
}

// RankedSource represents a force source and its impact.
type RankedSource struct {
	Source int
	Impact float64
}

// Analyzer performs sensitivity analysis on a planning scenario.
type Analyzer struct {
	occ    grid.Occupancy
	field  *force.Field
	trav   *traveler.Traveler
	opts   planner.Options
	scorer Scorer
}

// NewAnalyzer creates an analyzer for the given scenario.
func NewAnalyzer(occ grid.Occupancy, field *force.Field, trav *traveler.Traveler, scorer Scorer) *Analyzer {
	return &Analyzer{
		occ:    occ,
		field:  field,
		trav:   trav,
		opts:   planner.DefaultOptions(),
		scorer: scorer,
	}
}

// WithOptions sets the planner options used for every run.
func (a *Analyzer) WithOptions(opts planner.Options) *Analyzer {
	a.opts = opts
	return a
}

// plan runs one planning pass against f and returns the score.
func (a *Analyzer) plan(ctx context.Context, f *force.Field) (float64, error) {
	p, err := planner.New(a.occ, f, a.trav, a.opts)
	if err != nil {
		return 0, err
	}
	plan, err := p.Plan(ctx)
	if err != nil {
		return 0, err
	}
	return a.scorer(plan), nil
}

// AnalyzeSources tests the impact of silencing each force source
// (weight zero everywhere) on the planned policy.
func (a *Analyzer) AnalyzeSources(ctx context.Context) (*Result, error) {
	result := &Result{
		Scores: make(map[int]float64),
		Impact: make(map[int]float64),
	}

	baseline, err := a.plan(ctx, a.field)
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	for i := range a.field.Sources {
		score, err := a.plan(ctx, withoutSource(a.field, i))
		if err != nil {
			return nil, err
		}
		result.Scores[i] = score
		result.Impact[i] = score - baseline
	}

	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// AnalyzeSourcesParallel runs the per-source analysis concurrently.
// Each source costs a full planning run, so on multi-source fields this
// trades memory for wall time.
func (a *Analyzer) AnalyzeSourcesParallel(ctx context.Context) (*Result, error) {
	result := &Result{
		Scores: make(map[int]float64),
		Impact: make(map[int]float64),
	}

	baseline, err := a.plan(ctx, a.field)
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for i := range a.field.Sources {
		wg.Add(1)
		go func(src int) {
			defer wg.Done()

			score, err := a.plan(ctx, withoutSource(a.field, src))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			result.Scores[src] = score
			result.Impact[src] = score - baseline
		}(i)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// rankByImpact sorts sources by absolute impact (descending), ties to
// the lower index.
func rankByImpact(impact map[int]float64) []RankedSource {
	ranking := make([]RankedSource, 0, len(impact))
	for src, imp := range impact {
		ranking = append(ranking, RankedSource{Source: src, Impact: imp})
	}
	sort.Slice(ranking, func(i, j int) bool {
		ai, aj := math.Abs(ranking[i].Impact), math.Abs(ranking[j].Impact)
		if ai != aj {
			return ai > aj
		}
		return ranking[i].Source < ranking[j].Source
	})
	return ranking
}

// SweepResult holds results from an error-bound sweep.
type SweepResult struct {
	Scales []float64
	Scores []float64
	Best   struct {
		Scale float64
		Score float64
	}
	Worst struct {
		Scale float64
		Score float64
	}
}

// SweepErrorScale plans against the field with every error bound
// multiplied by each scale in turn. Lower scores rank as better, so
// with StartCostScorer the sweep shows how the route cost degrades as
// uncertainty grows.
func (a *Analyzer) SweepErrorScale(ctx context.Context, scales []float64) (*SweepResult, error) {
	result := &SweepResult{
		Scales: scales,
		Scores: make([]float64, len(scales)),
	}

	bestScore := math.Inf(1)
	worstScore := math.Inf(-1)

	for i, scale := range scales {
		score, err := a.plan(ctx, scaleErrors(a.field, scale))
		if err != nil {
			return nil, err
		}
		result.Scores[i] = score

		if score < bestScore {
			bestScore = score
			result.Best.Scale = scale
			result.Best.Score = score
		}
		if score > worstScore {
			worstScore = score
			result.Worst.Scale = scale
			result.Worst.Score = score
		}
	}

	return result, nil
}

// withoutSource copies f with source i's weight grid zeroed.
func withoutSource(f *force.Field, i int) *force.Field {
	sources := make([]force.Source, len(f.Sources))
	copy(sources, f.Sources)
	sources[i].Weight = grid.NewGrid(f.Rows(), f.Cols())

	out, err := force.NewField(f.Rows(), f.Cols(), sources...)
	if err != nil {
		// f was already validated and the zero grid shares its shape.
		panic(err)
	}
	return out
}

// scaleErrors copies f with every error grid multiplied by scale.
func scaleErrors(f *force.Field, scale float64) *force.Field {
	sources := make([]force.Source, len(f.Sources))
	copy(sources, f.Sources)
	for i, s := range f.Sources {
		scaled := grid.NewGrid(f.Rows(), f.Cols())
		for r := 0; r < f.Rows(); r++ {
			for c := 0; c < f.Cols(); c++ {
				scaled[r][c] = s.Error[r][c] * scale
			}
		}
		sources[i].Error = scaled
	}

	out, err := force.NewField(f.Rows(), f.Cols(), sources...)
	if err != nil {
		panic(err)
	}
	return out
}
