package grid

// Step is one valid transition out of a cell: the destination and the
// move symbol that reaches it.
type Step struct {
	To   Cell
	Move Move
}

// Neighbors enumerates the valid transitions out of c in canonical move
// order: orthogonals, diagonals, then knight moves. A transition is
// valid when its destination is in bounds and free. A knight move is
// additionally gated on the orthogonal and diagonal moves flanking its
// path, so the traveler cannot slip between a diagonally adjacent
// obstacle pair.
func (o Occupancy) Neighbors(c Cell) []Step {
	free := func(dr, dc int) bool {
		d := Cell{Row: c.Row + dr, Col: c.Col + dc}
		return o.InBounds(d) && !o[d.Row][d.Col]
	}

	up := free(-1, 0)
	down := free(1, 0)
	left := free(0, -1)
	right := free(0, 1)
	upLeft := free(-1, -1)
	upRight := free(-1, 1)
	downLeft := free(1, -1)
	downRight := free(1, 1)

	// Gate for each knight move: the orthogonal, the diagonal, and the
	// sideways orthogonal that flank its path must all be individually
	// valid.
	gates := map[Move]bool{
		MoveUpUpLeft:       up && upLeft && left,
		MoveUpUpRight:      up && upRight && right,
		MoveUpLeftLeft:     up && upLeft && left,
		MoveUpRightRight:   up && upRight && right,
		MoveDownDownLeft:   down && downLeft && left,
		MoveDownDownRight:  down && downRight && right,
		MoveDownLeftLeft:   down && downLeft && left,
		MoveDownRightRight: down && downRight && right,
	}

	steps := make([]Step, 0, len(AllMoves))
	for _, m := range AllMoves {
		dr, dc, _ := m.Offset()
		if !free(dr, dc) {
			continue
		}
		if gate, gated := gates[m]; gated && !gate {
			continue
		}
		steps = append(steps, Step{To: m.Dest(c), Move: m})
	}
	return steps
}
