package grid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traverse-xyz/go-traverse/grid"
)

func TestGridValidate(t *testing.T) {
	cases := []struct {
		name string
		g    grid.Grid
		err  error
	}{
		{"NoRows", grid.Grid{}, grid.ErrEmptyGrid},
		{"NoCols", grid.Grid{{}}, grid.ErrEmptyGrid},
		{"Ragged", grid.Grid{{1, 2}, {3}}, grid.ErrNonRectangular},
		{"OK", grid.Grid{{1, 2}, {3, 4}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := grid.NewUniformGrid(2, 3, 1.5)
	c := g.Clone()
	c[1][2] = 9
	assert.Equal(t, 1.5, g[1][2])
	assert.Equal(t, 9.0, c[1][2])
}

func TestBoundsHalfOpen(t *testing.T) {
	b := grid.Bounds{UpperLeft: grid.Cell{Row: 1, Col: 1}, LowerRight: grid.Cell{Row: 3, Col: 4}}

	assert.True(t, b.Contains(grid.Cell{Row: 1, Col: 1}), "upper-left corner is inclusive")
	assert.True(t, b.Contains(grid.Cell{Row: 2, Col: 3}))
	assert.False(t, b.Contains(grid.Cell{Row: 3, Col: 1}), "lower-right edge is exclusive")
	assert.False(t, b.Contains(grid.Cell{Row: 1, Col: 4}))
	assert.Equal(t, 6, b.Cells())
}

func TestBoundsValidate(t *testing.T) {
	require.NoError(t, grid.FullBounds(4, 5).Validate(4, 5))

	bad := grid.Bounds{UpperLeft: grid.Cell{}, LowerRight: grid.Cell{Row: 5, Col: 5}}
	assert.ErrorIs(t, bad.Validate(4, 5), grid.ErrInvalidBounds)

	empty := grid.Bounds{UpperLeft: grid.Cell{Row: 2, Col: 2}, LowerRight: grid.Cell{Row: 2, Col: 4}}
	assert.ErrorIs(t, empty.Validate(4, 5), grid.ErrInvalidBounds)
}

func TestMoveOffsets(t *testing.T) {
	c := grid.Cell{Row: 5, Col: 5}
	cases := map[grid.Move]grid.Cell{
		grid.MoveUp:             {Row: 4, Col: 5},
		grid.MoveDown:           {Row: 6, Col: 5},
		grid.MoveLeft:           {Row: 5, Col: 4},
		grid.MoveRight:          {Row: 5, Col: 6},
		grid.MoveUpLeft:         {Row: 4, Col: 4},
		grid.MoveUpRight:        {Row: 4, Col: 6},
		grid.MoveDownLeft:       {Row: 6, Col: 4},
		grid.MoveDownRight:      {Row: 6, Col: 6},
		grid.MoveUpUpLeft:       {Row: 3, Col: 4},
		grid.MoveUpUpRight:      {Row: 3, Col: 6},
		grid.MoveUpLeftLeft:     {Row: 4, Col: 3},
		grid.MoveUpRightRight:   {Row: 4, Col: 7},
		grid.MoveDownDownLeft:   {Row: 7, Col: 4},
		grid.MoveDownDownRight:  {Row: 7, Col: 6},
		grid.MoveDownLeftLeft:   {Row: 6, Col: 3},
		grid.MoveDownRightRight: {Row: 6, Col: 7},
	}
	for m, want := range cases {
		assert.Equal(t, want, m.Dest(c), "move %s", m)
	}

	// Status symbols do not displace.
	assert.Equal(t, c, grid.MoveTarget.Dest(c))
	assert.False(t, grid.MoveBlocked.Directional())
}

// occupancyFrom builds an Occupancy from a compact string picture where
// '#' marks blocked cells.
func occupancyFrom(rows ...string) grid.Occupancy {
	o := grid.NewOccupancy(len(rows), len(rows[0]))
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			o[r][c] = line[c] == '#'
		}
	}
	return o
}

func TestNeighborsValidity(t *testing.T) {
	o := occupancyFrom(
		"...",
		".#.",
		"...",
	)

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if o[r][c] {
				continue
			}
			for _, s := range o.Neighbors(grid.Cell{Row: r, Col: c}) {
				assert.True(t, o.InBounds(s.To), "neighbor %v of (%d,%d) in bounds", s.To, r, c)
				assert.False(t, o.Blocked(s.To), "neighbor %v of (%d,%d) free", s.To, r, c)
			}
		}
	}
}

func TestNeighborsCenterOfOpenGrid(t *testing.T) {
	o := grid.NewOccupancy(5, 5)
	steps := o.Neighbors(grid.Cell{Row: 2, Col: 2})
	require.Len(t, steps, 16, "open interior cell reaches the full move set")

	// Canonical enumeration order is stable.
	var moves []grid.Move
	for _, s := range steps {
		moves = append(moves, s.Move)
	}
	assert.Equal(t, grid.AllMoves[:], moves)
}

func TestNeighborsCornerClipping(t *testing.T) {
	o := grid.NewOccupancy(3, 3)
	steps := o.Neighbors(grid.Cell{Row: 0, Col: 0})

	got := map[grid.Move]bool{}
	for _, s := range steps {
		got[s.Move] = true
	}
	assert.Equal(t, map[grid.Move]bool{
		grid.MoveDown:           true,
		grid.MoveRight:          true,
		grid.MoveDownRight:      true,
		grid.MoveDownDownRight:  true,
		grid.MoveDownRightRight: true,
	}, got)
}

func TestKnightMoveGating(t *testing.T) {
	// Obstacle at (0,1). From (1,0): the up-right diagonal is blocked,
	// so every knight move flanked by it must be excluded, while the
	// left-flank knight moves toward the bottom remain available.
	o := occupancyFrom(
		".#.",
		"...",
		"...",
	)
	from := grid.Cell{Row: 1, Col: 0}

	got := map[grid.Move]bool{}
	for _, s := range o.Neighbors(from) {
		got[s.Move] = true
	}

	assert.False(t, got[grid.MoveUpUpRight], "gated on blocked up-right diagonal")
	assert.False(t, got[grid.MoveUpRightRight], "gated on blocked up-right diagonal")
	assert.True(t, got[grid.MoveDownRightRight], "unaffected knight move stays valid")
	assert.True(t, got[grid.MoveUp])
	assert.True(t, got[grid.MoveRight])

	// The destination of an excluded knight move is itself free; only
	// the gate removes it.
	assert.False(t, o.Blocked(grid.MoveUpRightRight.Dest(from)))
}

func TestKnightMoveGatingOnSideOrthogonal(t *testing.T) {
	// From (2,1) on an open 5x5 grid, blocking (2,0) kills the left
	// orthogonal and with it all four left-flank knight moves.
	o := occupancyFrom(
		".....",
		".....",
		"#....",
		".....",
		".....",
	)
	got := map[grid.Move]bool{}
	for _, s := range o.Neighbors(grid.Cell{Row: 2, Col: 1}) {
		got[s.Move] = true
	}
	for _, m := range []grid.Move{grid.MoveUpUpLeft, grid.MoveUpLeftLeft, grid.MoveDownDownLeft, grid.MoveDownLeftLeft} {
		assert.False(t, got[m], "left-flank knight move %s", m)
	}
	for _, m := range []grid.Move{grid.MoveUpUpRight, grid.MoveUpRightRight, grid.MoveDownDownRight, grid.MoveDownRightRight} {
		assert.True(t, got[m], "right-flank knight move %s", m)
	}
}

func TestActionGridRoundTrip(t *testing.T) {
	a := grid.NewActionGrid(3, 4)
	a[0][0] = grid.MoveTarget
	a[0][1] = grid.MoveUp
	a[1][2] = grid.MoveBlocked
	a[2][3] = grid.MoveDownRightRight

	var sb strings.Builder
	require.NoError(t, a.Encode(&sb))

	back, err := grid.DecodeActionGrid(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestDecodeActionGridRejectsBadInput(t *testing.T) {
	_, err := grid.DecodeActionGrid(strings.NewReader("^^\n^\n"))
	assert.ErrorIs(t, err, grid.ErrNonRectangular)

	_, err = grid.DecodeActionGrid(strings.NewReader("^?\n"))
	assert.Error(t, err)

	_, err = grid.DecodeActionGrid(strings.NewReader(""))
	assert.ErrorIs(t, err, grid.ErrEmptyGrid)
}
