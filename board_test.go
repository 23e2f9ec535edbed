// board_test.go
//
// Copyright (C) 2024 The scrabble authors

// Tests for placement validation, scoring and the transactional
// failure guarantee.

package scrabble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placements(t *testing.T, row, col int, horizontal bool, tiles string) []TilePlacement {
	t.Helper()
	parsed := mustParse(t, tiles)
	out := make([]TilePlacement, len(parsed))
	for i, tile := range parsed {
		if horizontal {
			out[i] = TilePlacement{Pos: PosAt(row, col+i), Tile: tile}
		} else {
			out[i] = TilePlacement{Pos: PosAt(row+i, col), Tile: tile}
		}
	}
	return out
}

// checkOccupancy asserts the board invariants: each occupancy bit set
// exactly where the grid holds a tile, in both orientations.
func checkOccupancy(t *testing.T, b *Board) {
	t.Helper()
	occH, occV := b.OccH(), b.OccV()
	for pos := Pos(0); pos < BoardCells; pos++ {
		_, occupied := b.Get(pos)
		assert.Equal(t, occupied, occH.IsSet(pos), "occH at %v", pos)
		assert.Equal(t, occupied, occV.IsSet(pos.AntiClockwise90()), "occV at %v", pos)
	}
}

func boardSnapshot(b *Board) ([]*Tile, BitBoard, BitBoard) {
	return b.Tiles(), b.OccH(), b.OccV()
}

// requireUnchanged asserts the transactional guarantee after a
// failed placement.
func requireUnchanged(t *testing.T, b *Board, tiles []*Tile, occH, occV BitBoard) {
	t.Helper()
	require.Equal(t, occH, b.OccH())
	require.Equal(t, occV, b.OccV())
	require.Equal(t, tiles, b.Tiles())
}

func TestFirstMoveScore(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	var board Board

	score, err := board.MakePlacement(placements(t, 7, 7, true, "CAT"), fsm)
	require.NoError(t, err)
	// (3+1+1) doubled by the start square
	assert.Equal(t, 10, score)
	assert.Equal(t, 3, board.OccH().Count())
	checkOccupancy(t, &board)

	words := board.LastWords()
	require.Len(t, words, 1)
	assert.Equal(t, PlacedWord{Word: "CAT", Score: 10}, words[0])
}

func TestExtendWord(t *testing.T) {
	fsm := buildFsm(t, "CAT", "CATS")
	var board Board

	_, err := board.MakePlacement(placements(t, 7, 7, true, "CAT"), fsm)
	require.NoError(t, err)

	score, err := board.MakePlacement(placements(t, 7, 10, true, "S"), fsm)
	require.NoError(t, err)
	// the whole of CATS scores; no premium under (7,10)
	assert.Equal(t, 6, score)
	checkOccupancy(t, &board)

	words := board.LastWords()
	require.Len(t, words, 1)
	assert.Equal(t, "CATS", words[0].Word)
}

func TestVerticalWordScores(t *testing.T) {
	fsm := buildFsm(t, "CAT", "AT", "TA")
	var board Board

	_, err := board.MakePlacement(placements(t, 7, 7, true, "CAT"), fsm)
	require.NoError(t, err)

	// placing T under the A forms the vertical word AT
	score, err := board.MakePlacement(placements(t, 8, 8, true, "T"), fsm)
	require.NoError(t, err)
	// A(1) + T(1) doubled by the double letter square at (8,8)
	assert.Equal(t, 3, score)
	checkOccupancy(t, &board)

	words := board.LastWords()
	require.Len(t, words, 1)
	assert.Equal(t, "AT", words[0].Word)
}

func TestBlankScoresZero(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	var board Board

	// the A is a designated blank
	score, err := board.MakePlacement(placements(t, 7, 7, true, "CaT"), fsm)
	require.NoError(t, err)
	assert.Equal(t, 8, score)
}

func TestSevenTileBonus(t *testing.T) {
	fsm := buildFsm(t, "CABBAGE")
	var board Board

	score, err := board.MakePlacement(placements(t, 7, 4, true, "CABBAGE"), fsm)
	require.NoError(t, err)
	// 14 points doubled by the start square, plus the 50 point bonus
	assert.Equal(t, 78, score)
}

func TestPlacementErrors(t *testing.T) {
	fsm := buildFsm(t, "CAT", "CATS", "AT")
	var board Board

	cases := []struct {
		name       string
		placements []TilePlacement
		want       error
	}{
		{"no tiles", nil, ErrPlacementCount},
		{"too many tiles", placements(t, 7, 4, true, "CATSCATS"), ErrPlacementCount},
		{
			"duplicate position",
			[]TilePlacement{
				{Pos: StartPos, Tile: mustTile(t, 'C')},
				{Pos: StartPos, Tile: mustTile(t, 'A')},
			},
			ErrDuplicatePosition,
		},
		{
			"no common line",
			[]TilePlacement{
				{Pos: PosAt(7, 7), Tile: mustTile(t, 'C')},
				{Pos: PosAt(7, 8), Tile: mustTile(t, 'A')},
				{Pos: PosAt(8, 9), Tile: mustTile(t, 'T')},
			},
			ErrNoCommonLine,
		},
		{"misses the start square", placements(t, 0, 0, true, "CAT"), ErrMustIntersectStart},
		{"single lonely tile", placements(t, 7, 7, true, "C"), ErrWordsNeedTwoLetters},
		{
			"detached tiles",
			[]TilePlacement{
				{Pos: PosAt(7, 7), Tile: mustTile(t, 'A')},
				{Pos: PosAt(7, 8), Tile: mustTile(t, 'T')},
				{Pos: PosAt(7, 12), Tile: mustTile(t, 'C')},
			},
			ErrNotConnected,
		},
		{"not a word", placements(t, 7, 7, true, "TAC"), ErrInvalidWord},
		{"undesignated blank", placements(t, 7, 7, true, "CA?"), ErrMissingLetter},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tiles, occH, occV := boardSnapshot(&board)
			_, err := board.MakePlacement(c.placements, fsm)
			require.ErrorIs(t, err, c.want)
			requireUnchanged(t, &board, tiles, occH, occV)
		})
	}

	// overlap needs existing tiles
	_, err := board.MakePlacement(placements(t, 7, 7, true, "CAT"), fsm)
	require.NoError(t, err)

	tiles, occH, occV := boardSnapshot(&board)
	_, err = board.MakePlacement(placements(t, 7, 9, true, "TS"), fsm)
	require.ErrorIs(t, err, ErrCoincedentTiles)
	requireUnchanged(t, &board, tiles, occH, occV)

	// an invalid cross word reverts a placement that wrote tiles
	tiles, occH, occV = boardSnapshot(&board)
	_, err = board.MakePlacement(placements(t, 8, 7, true, "AT"), fsm)
	require.ErrorIs(t, err, ErrInvalidWord)
	requireUnchanged(t, &board, tiles, occH, occV)
}
