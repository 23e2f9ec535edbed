// game_test.go
//
// Copyright (C) 2024 The scrabble authors

// Tests for the turn machine and end-of-game scoring.

package scrabble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnRotation(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(3)

	// one full round of passes wraps back to player 0 without ending
	// the game
	for want := 0; want < 3; want++ {
		n, ok := game.ToPlay()
		require.True(t, ok)
		assert.Equal(t, PlayerNum(want), n)
		require.NoError(t, game.MakePlay(PassPlay{}, fsm))
	}
	n, ok := game.ToPlay()
	require.True(t, ok)
	assert.Equal(t, PlayerNum(0), n)
	assert.False(t, game.IsOver())
}

func TestTwoPassesEndsGame(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)

	rack0 := game.Player(0).Rack().TileSum()
	rack1 := game.Player(1).Rack().TileSum()

	require.NoError(t, game.MakePlay(PassPlay{}, fsm)) // player 0
	require.NoError(t, game.MakePlay(PassPlay{}, fsm)) // player 1
	require.False(t, game.IsOver())
	require.NoError(t, game.MakePlay(PassPlay{}, fsm)) // player 0, second in a row

	require.True(t, game.IsOver())
	over := game.Over()
	require.NotNil(t, over)
	assert.Equal(t, TwoPasses, over.Reason())

	// the adjustment: both players lose their rack sum, and the
	// ending player (0) gains player 1's rack sum
	final := []int{rack1 - rack0, -rack1}
	wantMax := final[0]
	if final[1] > wantMax {
		wantMax = final[1]
	}
	var wantWinners []PlayerNum
	for i, s := range final {
		if s == wantMax {
			wantWinners = append(wantWinners, PlayerNum(i))
		}
	}
	assert.Equal(t, final[0], over.Score(0))
	assert.Equal(t, final[1], over.Score(1))
	assert.Equal(t, wantMax, over.MaxScore())
	assert.Equal(t, wantWinners, over.Winners())

	// no further plays are accepted
	assert.ErrorIs(t, game.MakePlay(PassPlay{}, fsm), ErrGameOver)

	_, ok := game.ToPlay()
	assert.False(t, ok)
}

func TestPlaceUpdatesRackAndScore(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)

	// seed a known rack for player 0
	game.players[0].rack = NewRackWithTiles(mustParse(t, "CATBBGG"))

	err := game.MakePlay(PlacePlay{Placements: placements(t, 7, 7, true, "CAT")}, fsm)
	require.NoError(t, err)

	assert.Equal(t, 10, game.Player(0).Score())

	// the rack lost C, A, T, kept the rest, and refilled to 7
	rack := game.Player(0).Rack()
	assert.Equal(t, RackSize, rack.Len())
	assert.True(t, rack.Contains(mustParse(t, "BBGG")))
	assert.Equal(t, 100-2*RackSize-3, game.LetterBagLen())

	n, ok := game.ToPlay()
	require.True(t, ok)
	assert.Equal(t, PlayerNum(1), n)
}

func TestPlaceRequiresRackTiles(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)
	game.players[0].rack = NewRackWithTiles(mustParse(t, "BBGGQQQ"))

	err := game.MakePlay(PlacePlay{Placements: placements(t, 7, 7, true, "CAT")}, fsm)
	assert.ErrorIs(t, err, ErrNotInRack)

	// the turn was not consumed
	n, ok := game.ToPlay()
	require.True(t, ok)
	assert.Equal(t, PlayerNum(0), n)
	assert.Equal(t, 0, game.Player(0).Score())
}

func TestRedraw(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)

	// a pass, then a redraw resets the pass counter
	require.NoError(t, game.MakePlay(PassPlay{}, fsm)) // p0
	require.NoError(t, game.MakePlay(PassPlay{}, fsm)) // p1
	swap := game.Player(0).Rack().Tiles()[:2]
	require.NoError(t, game.MakePlay(RedrawPlay{Tiles: swap}, fsm)) // p0 redraws
	swap1 := game.Player(1).Rack().Tiles()[:2]
	require.NoError(t, game.MakePlay(RedrawPlay{Tiles: swap1}, fsm)) // p1 redraws
	require.NoError(t, game.MakePlay(PassPlay{}, fsm))              // p0 passes again
	require.False(t, game.IsOver(), "the redraw reset player 0's pass counter")

	assert.Equal(t, RackSize, game.Player(0).Rack().Len())
}

func TestRedrawErrors(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)

	err := game.MakePlay(RedrawPlay{Tiles: mustParse(t, "QQQQQQQ")}, fsm)
	assert.ErrorIs(t, err, ErrNotInRack)

	err = game.MakePlay(RedrawPlay{}, fsm)
	assert.ErrorIs(t, err, ErrRedrawCount)
}

func TestEmptyRackEndsGame(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	game := NewGame(2)

	// drain the bag so the placement cannot refill
	for !game.bag.IsEmpty() {
		game.bag.Draw()
	}
	game.players[0].rack = NewRackWithTiles(mustParse(t, "CAT"))

	score1Before := game.Player(1).Rack().TileSum()

	err := game.MakePlay(PlacePlay{Placements: placements(t, 7, 7, true, "CAT")}, fsm)
	require.NoError(t, err)

	require.True(t, game.IsOver())
	over := game.Over()
	assert.Equal(t, EmptyRack, over.Reason())
	// player 0 scored 10 for CAT, then gains player 1's rack sum
	assert.Equal(t, 10+score1Before, over.Score(0))
	assert.Equal(t, -score1Before, over.Score(1))
}
