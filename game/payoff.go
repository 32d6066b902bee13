package game

import (
	"fmt"

	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/traveler"
)

// CellGame is the full traveler-move × adversary-action game at one
// cell. Rows follow the traveler's action order; columns follow the
// adversary action space. Cost holds the Bellman backup values used for
// equilibrium solving; Work holds the immediate effort of each pair.
type CellGame struct {
	Cell      grid.Cell
	Cost      Matrix
	Work      Matrix
	Actions   []grid.Move
	Adversary *force.ActionSpace
}

// Build assembles the payoff matrices for cell. Moves not currently
// valid under connectivity get dmax in both matrices: a hard exclusion
// the equilibrium can never select while any finite row exists.
func Build(cell grid.Cell, tr *traveler.Traveler, f *force.Field, occ grid.Occupancy,
	dmax float64, cost2go grid.Grid) (*CellGame, error) {

	adv := f.ActionSpaceAt(cell)
	weights := f.WeightsAt(cell)

	valid := make(map[grid.Move]bool, len(tr.Actions))
	for _, s := range occ.Neighbors(cell) {
		valid[s.Move] = true
	}

	cost := NewMatrix(len(tr.Actions), adv.Num())
	work := NewMatrix(len(tr.Actions), adv.Num())

	for r, move := range tr.Actions {
		if !valid[move] {
			for c := range cost[r] {
				cost[r][c] = dmax
				work[r][c] = dmax
			}
			continue
		}
		for c := 0; c < adv.Num(); c++ {
			total, w, err := Outcome(tr, move, adv.UActions[c], adv.VActions[c], weights, dmax, cost2go, cell)
			if err != nil {
				return nil, fmt.Errorf("game: cell (%d,%d): %w", cell.Row, cell.Col, err)
			}
			cost[r][c] = total
			work[r][c] = w
		}
	}

	return &CellGame{
		Cell:      cell,
		Cost:      cost,
		Work:      work,
		Actions:   tr.Actions,
		Adversary: adv,
	}, nil
}
