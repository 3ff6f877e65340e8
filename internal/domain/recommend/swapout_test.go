package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

func TestSelectSwapOutEmptyRoster(t *testing.T) {
	_, err := SelectSwapOut(nil)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestSelectSwapOutLowestPPG(t *testing.T) {
	players := []roster.RosterPlayer{
		{ID: 1, PointsPerGame: 5.2, ExpectedPoints: 4.0, Form: 6.0},
		{ID: 2, PointsPerGame: 2.1, ExpectedPoints: 3.0, Form: 2.0},
		{ID: 3, PointsPerGame: 4.8, ExpectedPoints: 5.0, Form: 4.0},
	}

	out, err := SelectSwapOut(players)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.ID)
}

func TestSelectSwapOutTieBreakExpectedPoints(t *testing.T) {
	players := []roster.RosterPlayer{
		{ID: 1, PointsPerGame: 3.0, ExpectedPoints: 2.5, Form: 3.0},
		{ID: 2, PointsPerGame: 3.0, ExpectedPoints: 1.5, Form: 5.0},
	}

	out, err := SelectSwapOut(players)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.ID)
}

func TestSelectSwapOutTieBreakForm(t *testing.T) {
	players := []roster.RosterPlayer{
		{ID: 1, PointsPerGame: 3.0, ExpectedPoints: 2.0, Form: 4.0},
		{ID: 2, PointsPerGame: 3.0, ExpectedPoints: 2.0, Form: 1.0},
		{ID: 3, PointsPerGame: 3.0, ExpectedPoints: 2.0, Form: 2.0},
	}

	out, err := SelectSwapOut(players)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.ID)
}

func TestSelectSwapOutDeterministic(t *testing.T) {
	players := []roster.RosterPlayer{
		{ID: 7, PointsPerGame: 1.0, ExpectedPoints: 1.0, Form: 1.0},
		{ID: 8, PointsPerGame: 4.0, ExpectedPoints: 4.0, Form: 4.0},
	}

	first, err := SelectSwapOut(players)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := SelectSwapOut(players)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}
}
