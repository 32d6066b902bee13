// Package traveler describes the mobile agent being planned for: its
// endpoints, speed, and discrete action space with per-move headings.
package traveler

import (
	"errors"
	"fmt"
	"math"

	"github.com/traverse-xyz/go-traverse/grid"
)

// Traveler errors.
var (
	ErrBadSpeed      = errors.New("traveler: speed must be positive")
	ErrUnknownMotion = errors.New("traveler: unknown motion model")
)

// Motion selects one of the three fixed discrete action spaces.
type Motion int

const (
	// FourWay permits the orthogonal moves only.
	FourWay Motion = iota
	// EightWay adds the diagonals.
	EightWay
	// SixteenWay adds the knight-style extended moves.
	SixteenWay
)

// String returns the motion model name.
func (m Motion) String() string {
	switch m {
	case FourWay:
		return "4way"
	case EightWay:
		return "8way"
	case SixteenWay:
		return "16way"
	}
	return fmt.Sprintf("Motion(%d)", int(m))
}

// ParseMotion converts a motion model name ("4way", "8way", "16way").
func ParseMotion(s string) (Motion, error) {
	switch s {
	case "4way":
		return FourWay, nil
	case "8way":
		return EightWay, nil
	case "16way":
		return SixteenWay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMotion, s)
}

// headings maps every directional move to its heading angle in radians,
// measured counterclockwise from the positive u axis. Knight moves head
// along the bisector of their flanking orthogonal and diagonal.
var headings = map[grid.Move]float64{
	grid.MoveRight:     0,
	grid.MoveUpRight:   math.Pi / 4,
	grid.MoveUp:        math.Pi / 2,
	grid.MoveUpLeft:    math.Pi * 0.75,
	grid.MoveLeft:      math.Pi,
	grid.MoveDownLeft:  math.Pi * 1.25,
	grid.MoveDown:      math.Pi * 1.5,
	grid.MoveDownRight: math.Pi * 1.75,

	grid.MoveUpUpLeft:       math.Pi * 0.625,
	grid.MoveUpUpRight:      math.Pi * 0.375,
	grid.MoveUpLeftLeft:     math.Pi * 0.875,
	grid.MoveUpRightRight:   math.Pi * 0.125,
	grid.MoveDownDownLeft:   math.Pi * 1.375,
	grid.MoveDownDownRight:  math.Pi * 1.625,
	grid.MoveDownLeftLeft:   math.Pi * 1.125,
	grid.MoveDownRightRight: math.Pi * 1.875,
}

// Traveler is the planning subject. Actions is the fixed move list in
// canonical order for the chosen motion model; payoff matrix rows use
// this order.
type Traveler struct {
	Start   grid.Cell
	Target  grid.Cell
	Speed   float64 // cells per second
	Motion  Motion
	Actions []grid.Move
}

// New builds a traveler with the action space of the given motion
// model.
func New(start, target grid.Cell, speed float64, motion Motion) (*Traveler, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadSpeed, speed)
	}
	var n int
	switch motion {
	case FourWay:
		n = 4
	case EightWay:
		n = 8
	case SixteenWay:
		n = 16
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMotion, int(motion))
	}
	return &Traveler{
		Start:   start,
		Target:  target,
		Speed:   speed,
		Motion:  motion,
		Actions: grid.AllMoves[:n],
	}, nil
}

// Heading returns the heading angle in radians for a directional move.
// Status symbols have a null heading of 0.
func (tr *Traveler) Heading(m grid.Move) float64 {
	return headings[m]
}

// Validate checks the traveler's endpoints against an occupancy map and
// an optional planning region.
func (tr *Traveler) Validate(occ grid.Occupancy, bounds grid.Bounds) error {
	for name, c := range map[string]grid.Cell{"start": tr.Start, "target": tr.Target} {
		if !occ.InBounds(c) {
			return fmt.Errorf("%w: %s (%d,%d)", grid.ErrOutOfBounds, name, c.Row, c.Col)
		}
		if !bounds.Contains(c) {
			return fmt.Errorf("%w: %s (%d,%d) outside planning region", grid.ErrInvalidBounds, name, c.Row, c.Col)
		}
	}
	if occ.Blocked(tr.Target) {
		return fmt.Errorf("traveler: target (%d,%d) is an obstacle", tr.Target.Row, tr.Target.Col)
	}
	return nil
}
