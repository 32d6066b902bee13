package grid

import "fmt"

// Move is a single-character symbol for one discrete traveler action.
// The alphabet covers the four orthogonal moves, the four diagonals, and
// the eight knight-style extended moves, plus three status symbols used
// in action grids.
type Move byte

// Directional moves, in canonical enumeration order.
const (
	MoveUp    Move = '^'
	MoveDown  Move = 'v'
	MoveLeft  Move = '<'
	MoveRight Move = '>'

	MoveUpLeft    Move = 'a'
	MoveUpRight   Move = 'b'
	MoveDownLeft  Move = 'c'
	MoveDownRight Move = 'd'

	MoveUpUpLeft       Move = 'm'
	MoveUpUpRight      Move = 'n'
	MoveUpLeftLeft     Move = 'o'
	MoveUpRightRight   Move = 'p'
	MoveDownDownLeft   Move = 'w'
	MoveDownDownRight  Move = 'x'
	MoveDownLeftLeft   Move = 'y'
	MoveDownRightRight Move = 'z'
)

// Status symbols recorded in action grids for cells with no directional
// move.
const (
	// MoveTarget marks the target cell.
	MoveTarget Move = '*'
	// MoveBlocked marks an obstacle cell.
	MoveBlocked Move = '#'
	// MoveNoRoute marks a cell with no known route to the target.
	MoveNoRoute Move = '-'
)

// AllMoves is the canonical move enumeration. Connectivity results,
// payoff matrix rows, and action spaces all follow this order, which
// keeps tie-breaking deterministic throughout the planner.
var AllMoves = [16]Move{
	MoveUp, MoveDown, MoveLeft, MoveRight,
	MoveUpLeft, MoveUpRight, MoveDownLeft, MoveDownRight,
	MoveUpUpLeft, MoveUpUpRight, MoveUpLeftLeft, MoveUpRightRight,
	MoveDownDownLeft, MoveDownDownRight, MoveDownLeftLeft, MoveDownRightRight,
}

// moveOffsets maps each directional move to its (row, col) displacement.
var moveOffsets = map[Move][2]int{
	MoveUp:    {-1, 0},
	MoveDown:  {1, 0},
	MoveLeft:  {0, -1},
	MoveRight: {0, 1},

	MoveUpLeft:    {-1, -1},
	MoveUpRight:   {-1, 1},
	MoveDownLeft:  {1, -1},
	MoveDownRight: {1, 1},

	MoveUpUpLeft:       {-2, -1},
	MoveUpUpRight:      {-2, 1},
	MoveUpLeftLeft:     {-1, -2},
	MoveUpRightRight:   {-1, 2},
	MoveDownDownLeft:   {2, -1},
	MoveDownDownRight:  {2, 1},
	MoveDownLeftLeft:   {1, -2},
	MoveDownRightRight: {1, 2},
}

// Directional reports whether m is a directional move rather than a
// status symbol.
func (m Move) Directional() bool {
	_, ok := moveOffsets[m]
	return ok
}

// Offset returns the (row, col) displacement of a directional move.
// Status symbols have no displacement and return ok=false.
func (m Move) Offset() (dr, dc int, ok bool) {
	off, ok := moveOffsets[m]
	return off[0], off[1], ok
}

// Dest returns the cell reached by applying m at c. It performs no
// bounds or obstacle checking: callers must have validated the move via
// Neighbors first. Applying a status symbol returns c unchanged.
func (m Move) Dest(c Cell) Cell {
	off, ok := moveOffsets[m]
	if !ok {
		return c
	}
	return Cell{Row: c.Row + off[0], Col: c.Col + off[1]}
}

// String returns the one-character symbol.
func (m Move) String() string { return string(byte(m)) }

// ParseMove validates a symbol against the known alphabet.
func ParseMove(b byte) (Move, error) {
	m := Move(b)
	switch m {
	case MoveTarget, MoveBlocked, MoveNoRoute:
		return m, nil
	}
	if m.Directional() {
		return m, nil
	}
	return 0, fmt.Errorf("grid: unknown move symbol %q", b)
}
