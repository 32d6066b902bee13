package traveler_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func TestActionSpaceSizes(t *testing.T) {
	cases := []struct {
		motion traveler.Motion
		want   int
	}{
		{traveler.FourWay, 4},
		{traveler.EightWay, 8},
		{traveler.SixteenWay, 16},
	}
	for _, tc := range cases {
		t.Run(tc.motion.String(), func(t *testing.T) {
			tr, err := traveler.New(grid.Cell{}, grid.Cell{Row: 1}, 10, tc.motion)
			require.NoError(t, err)
			assert.Len(t, tr.Actions, tc.want)
			assert.Equal(t, grid.AllMoves[:tc.want], tr.Actions, "prefix of the canonical enumeration")
		})
	}
}

func TestNewRejectsBadInputs(t *testing.T) {
	_, err := traveler.New(grid.Cell{}, grid.Cell{}, 0, traveler.FourWay)
	assert.ErrorIs(t, err, traveler.ErrBadSpeed)

	_, err = traveler.New(grid.Cell{}, grid.Cell{}, 1, traveler.Motion(7))
	assert.ErrorIs(t, err, traveler.ErrUnknownMotion)
}

func TestParseMotion(t *testing.T) {
	for _, s := range []string{"4way", "8way", "16way"} {
		m, err := traveler.ParseMotion(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}
	_, err := traveler.ParseMotion("32way")
	assert.ErrorIs(t, err, traveler.ErrUnknownMotion)
}

func TestHeadings(t *testing.T) {
	tr, err := traveler.New(grid.Cell{}, grid.Cell{Row: 1}, 10, traveler.SixteenWay)
	require.NoError(t, err)

	assert.Equal(t, 0.0, tr.Heading(grid.MoveRight))
	assert.InDelta(t, math.Pi/2, tr.Heading(grid.MoveUp), 1e-12)
	assert.InDelta(t, math.Pi, tr.Heading(grid.MoveLeft), 1e-12)
	assert.InDelta(t, 1.5*math.Pi, tr.Heading(grid.MoveDown), 1e-12)

	// Knight moves bisect their flanking orthogonal and diagonal.
	assert.InDelta(t, math.Pi*0.375, tr.Heading(grid.MoveUpUpRight), 1e-12)
	assert.InDelta(t, math.Pi*0.625, tr.Heading(grid.MoveUpUpLeft), 1e-12)
	assert.InDelta(t, math.Pi*0.125, tr.Heading(grid.MoveUpRightRight), 1e-12)
	assert.InDelta(t, math.Pi*1.875, tr.Heading(grid.MoveDownRightRight), 1e-12)

	// Status symbols carry a null heading.
	assert.Zero(t, tr.Heading(grid.MoveTarget))
}

func TestValidateEndpoints(t *testing.T) {
	occ := grid.NewOccupancy(4, 4)
	occ[2][2] = true
	bounds := grid.FullBounds(4, 4)

	tr, err := traveler.New(grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 3, Col: 3}, 10, traveler.EightWay)
	require.NoError(t, err)
	assert.NoError(t, tr.Validate(occ, bounds))

	tr.Target = grid.Cell{Row: 2, Col: 2}
	assert.Error(t, tr.Validate(occ, bounds), "obstacle target rejected")

	tr.Target = grid.Cell{Row: 5, Col: 0}
	assert.ErrorIs(t, tr.Validate(occ, bounds), grid.ErrOutOfBounds)

	tr.Target = grid.Cell{Row: 3, Col: 3}
	sub := grid.Bounds{UpperLeft: grid.Cell{Row: 0, Col: 0}, LowerRight: grid.Cell{Row: 2, Col: 2}}
	assert.ErrorIs(t, tr.Validate(occ, sub), grid.ErrInvalidBounds)
}
