package game

import (
	"fmt"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/traveler"
)

// Outcome computes the one-step result of the traveler playing move at
// cell against one adversary action (us, vs: component realizations per
// source, combined under weights).
//
// work is the magnitude of the effort the traveler must apply given its
// desired velocity vector and the weighted environmental resultant.
// total adds the downstream cost-to-go of the move's destination, the
// Bellman backup for the cell; with a nil cost2go it equals work.
//
// The move must have been validated against connectivity by the caller:
// a status symbol other than MoveTarget, or a destination outside the
// cost-to-go grid, is a contract violation reported as ErrInvalidMove,
// never silently costed. MoveTarget yields total = dmax by convention so
// "stay put" is never selected as a real action.
func Outcome(tr *traveler.Traveler, move grid.Move, us, vs, weights []float64,
	dmax float64, cost2go grid.Grid, cell grid.Cell) (total, work float64, err error) {

	// Weighted resultant of all sources under this adversary action.
	uw, vw := force.WeightedSum(us, vs, weights)

	// The traveler's desired velocity along the move heading.
	ut, vt := force.UV(tr.Speed, tr.Heading(move))

	// Effort the traveler must apply, combining the resultant and the
	// desired vector at unit weight each. Cost is effort magnitude;
	// direction is discarded.
	ua, va := force.WeightedDiff([]float64{uw, ut}, []float64{vw, vt}, []float64{1, 1})
	work, _ = force.MagDir(ua, va)

	if move == grid.MoveTarget {
		return dmax, work, nil
	}
	if !move.Directional() {
		return 0, 0, fmt.Errorf("%w: symbol %q", ErrInvalidMove, move.String())
	}

	if cost2go == nil {
		return work, work, nil
	}

	dest := move.Dest(cell)
	if dest.Row < 0 || dest.Row >= cost2go.Rows() || dest.Col < 0 || dest.Col >= cost2go.Cols() {
		return 0, 0, fmt.Errorf("%w: move %s from (%d,%d) leaves the grid",
			ErrInvalidMove, move.String(), cell.Row, cell.Col)
	}
	return work + cost2go[dest.Row][dest.Col], work, nil
}
