// Package planner computes a grid-wide robust navigation policy by
// propagating cost-to-go values outward from the target, resolving a
// zero-sum game against the environment at every cell.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/game"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/traveler"
)

// Planner errors.
var (
	ErrNilInput = errors.New("planner: occupancy, field, and traveler are required")
)

// sentinelMargin inflates the cost sentinel far beyond any achievable
// accumulated effort.
const sentinelMargin = 1e12

// TraceEvent reports one cell update during a sweep.
type TraceEvent struct {
	Sweep       int
	Cell        grid.Cell
	Cost        float64
	Work        float64
	Action      grid.Move
	Equilibrium *game.Equilibrium // nil for target/obstacle/pruned cells
}

// TraceFunc observes cell updates. It must not mutate the planner's
// grids.
type TraceFunc func(TraceEvent)

// SweepStats summarizes one full worklist sweep.
type SweepStats struct {
	Sweep     int           `json:"sweep"`
	Visited   int           `json:"visited"`
	Reachable int           `json:"reachable"`
	MeanCost  float64       `json:"meanCost"`
	MaxCost   float64       `json:"maxCost"`
	Changed   int           `json:"changed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Options configures a planning run.
type Options struct {
	// Iterations is the outer sweep budget. Zero selects the planning
	// region's cell count.
	Iterations int

	// Bounds restricts propagation to a sub-region; cells outside stay
	// at their initialized values. Nil covers the whole grid.
	Bounds *grid.Bounds

	// Solver resolves the per-cell games. Nil selects fictitious play
	// with its default iteration count.
	Solver game.Solver

	// Logger receives per-sweep progress at debug level.
	Logger zerolog.Logger

	// Trace, when set, observes updates to the cells listed in
	// TraceCells, or to every cell when TraceCells is empty.
	Trace      TraceFunc
	TraceCells []grid.Cell

	// OnSweep, when set, receives each sweep's statistics as soon as
	// the sweep completes.
	OnSweep func(SweepStats)
}

// DefaultOptions returns options suitable for most runs: full-grid
// bounds, fictitious-play solving, cell-count sweep budget.
func DefaultOptions() Options {
	return Options{
		Solver: game.FictitiousPlay{},
		Logger: zerolog.Nop(),
	}
}

// Planner owns the mutable planning state for one run. Inputs are
// validated once at construction; sweeps assume dimensional
// consistency.
type Planner struct {
	occ    grid.Occupancy
	field  *force.Field
	trav   *traveler.Traveler
	opts   Options
	bounds grid.Bounds
	solver game.Solver
	dmax   float64
	traced map[grid.Cell]bool
	log    zerolog.Logger
}

// New validates the inputs and prepares a planner. Configuration errors
// surface here, before any propagation work.
func New(occ grid.Occupancy, field *force.Field, trav *traveler.Traveler, opts Options) (*Planner, error) {
	if occ == nil || field == nil || trav == nil {
		return nil, ErrNilInput
	}
	if err := occ.Validate(); err != nil {
		return nil, err
	}
	rows, cols := occ.Rows(), occ.Cols()
	if field.Rows() != rows || field.Cols() != cols {
		return nil, fmt.Errorf("%w: field is %d×%d, occupancy is %d×%d",
			grid.ErrDimensionMismatch, field.Rows(), field.Cols(), rows, cols)
	}

	bounds := grid.FullBounds(rows, cols)
	if opts.Bounds != nil {
		bounds = *opts.Bounds
	}
	if err := bounds.Validate(rows, cols); err != nil {
		return nil, err
	}
	if err := trav.Validate(occ, bounds); err != nil {
		return nil, err
	}

	solver := opts.Solver
	if solver == nil {
		solver = game.FictitiousPlay{}
	}

	var traced map[grid.Cell]bool
	if len(opts.TraceCells) > 0 {
		traced = make(map[grid.Cell]bool, len(opts.TraceCells))
		for _, c := range opts.TraceCells {
			traced[c] = true
		}
	}

	return &Planner{
		occ:    occ,
		field:  field,
		trav:   trav,
		opts:   opts,
		bounds: bounds,
		solver: solver,
		dmax:   SentinelCost(bounds.Cells(), trav.Speed),
		traced: traced,
		log:    opts.Logger,
	}, nil
}

// DMax returns the run's cost sentinel: the in-band value for
// unknown, unreachable, and forbidden.
func (p *Planner) DMax() float64 { return p.dmax }

// Bounds returns the effective planning region.
func (p *Planner) Bounds() grid.Bounds { return p.bounds }

// SentinelCost derives a cost sentinel guaranteed to exceed any true
// accumulated effort: region size times a conservative per-step effort
// bound, inflated by a large safety margin.
func SentinelCost(cells int, speed float64) float64 {
	step := math.Sqrt2 * math.Max(10, speed)
	return float64(cells) * step * sentinelMargin
}
