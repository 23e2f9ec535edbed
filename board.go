// board.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the Board: a sparse tile grid backed by two
// occupancy bitboards (natural and rotated), with transactional
// placement validation and scoring.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package scrabble

import "strings"

// TilePlacement is a single (position, tile) pair of a placement.
type TilePlacement struct {
	Pos  Pos  `json:"pos"`
	Tile Tile `json:"tile"`
}

// PlacedWord is one word formed by a placement, with its score.
type PlacedWord struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Board is the 15x15 board. The grid holds the tiles; occH is the
// occupancy in natural orientation and occV the occupancy rotated 90
// degrees anticlockwise, so that vertical words read left to right.
// Any mutation writes both bitboards: the rotated board is a derived
// view, never a second source of truth.
type Board struct {
	grid [BoardCells]Tile
	occH BitBoard
	occV BitBoard
	// lastWords records the words formed by the most recent
	// successful placement, for the event log.
	lastWords []PlacedWord
}

// Get returns the tile at pos, with false when the square is empty.
func (b *Board) Get(pos Pos) (Tile, bool) {
	if !b.occH.IsSet(pos) {
		return 0, false
	}
	return b.grid[pos], true
}

// OccH returns the natural occupancy.
func (b *Board) OccH() BitBoard {
	return b.occH
}

// OccV returns the rotated occupancy.
func (b *Board) OccV() BitBoard {
	return b.occV
}

// Tiles returns the full grid as a 225-entry slice with nil for
// empty squares, the shape sent in Joined and Play frames.
func (b *Board) Tiles() []*Tile {
	tiles := make([]*Tile, BoardCells)
	for pos := Pos(0); pos < BoardCells; pos++ {
		if b.occH.IsSet(pos) {
			t := b.grid[pos]
			tiles[pos] = &t
		}
	}
	return tiles
}

// LastWords returns the words formed by the most recent successful
// placement.
func (b *Board) LastWords() []PlacedWord {
	return b.lastWords
}

// UndoPlacement removes the given tiles from the grid and both
// bitboards, restoring the state before the placement.
func (b *Board) UndoPlacement(placements []TilePlacement) {
	for _, tp := range placements {
		b.grid[tp.Pos] = 0
		b.occH.Clear(tp.Pos)
		b.occV.Clear(tp.Pos.AntiClockwise90())
	}
}

// MakePlacement attempts to place the tiles on the board. On success
// the tiles stay on the board and the score of the play is returned.
// On any failure the board is left bitwise unchanged.
func (b *Board) MakePlacement(placements []TilePlacement, fsm Fsm) (int, error) {
	if len(placements) < 1 || len(placements) > RackSize {
		return 0, ErrPlacementCount
	}

	row, col := placements[0].Pos.Row(), placements[0].Pos.Col()
	sameRow, sameCol := true, true

	// new tiles in natural orientation
	var newH BitBoard
	// new tiles rotated 90deg anticlockwise
	var newV BitBoard

	for _, tp := range placements {
		if newH.IsSet(tp.Pos) {
			return 0, ErrDuplicatePosition
		}
		sameRow = sameRow && tp.Pos.Row() == row
		sameCol = sameCol && tp.Pos.Col() == col
		newH.Set(tp.Pos)
		newV.Set(tp.Pos.AntiClockwise90())
	}

	if !sameRow && !sameCol {
		return 0, ErrNoCommonLine
	}

	if err := validateOccH(b.occH, newH); err != nil {
		return 0, err
	}

	// The positions are now valid: write the tiles so that word
	// validation can read them. If an invalid word turns up, the
	// placement is reverted below.
	for _, tp := range placements {
		b.grid[tp.Pos] = tp.Tile
	}
	b.occH = b.occH.Or(newH)
	b.occV = b.occV.Or(newV)

	score, words, err := b.scoreAndValidate(newH, newV, fsm)
	if err != nil {
		b.UndoPlacement(placements)
		return 0, err
	}

	b.lastWords = words
	return score, nil
}

// validateOccH checks the positional constraints of a placement:
// no overlap with existing tiles, the start square covered, at least
// two tiles in total and 4-neighbour connectivity.
func validateOccH(occH, newH BitBoard) error {
	if occH.Intersects(newH) {
		return ErrCoincedentTiles
	}

	occ := occH.Or(newH)

	if !occ.IsSet(StartPos) {
		return ErrMustIntersectStart
	}

	if occ.Count() < 2 {
		return ErrWordsNeedTwoLetters
	}

	// The existing tiles are already connected, so grow a frontier
	// from them (seeded with the start square for the first move) and
	// absorb the neighbouring new tiles. With at most 7 new tiles the
	// loop runs at most 7 times.
	connected := occH
	connected.Set(StartPos)
	newH.Clear(StartPos)

	for {
		neighbours := connected.Neighbours().And(newH)
		newH = newH.Xor(neighbours)
		connected = connected.Or(neighbours)

		if neighbours.IsZero() {
			if !newH.IsZero() {
				return ErrNotConnected
			}
			return nil
		}
	}
}

// scoreAndValidate traverses every word affected by the placement
// through the FSM and sums their scores, adding the 50 point bonus
// for a 7-tile placement. Called with the new tiles already written.
func (b *Board) scoreAndValidate(newH, newV BitBoard, fsm Fsm) (int, []PlacedWord, error) {
	identity := func(pos Pos) Pos { return pos }

	score := 0
	var words []PlacedWord

	scoreH, err := b.scoreWords(b.occH, newH, fsm, identity, &words)
	if err != nil {
		return 0, nil, err
	}
	scoreV, err := b.scoreWords(b.occV, newV, fsm, Pos.Clockwise90, &words)
	if err != nil {
		return 0, nil, err
	}
	score = scoreH + scoreV

	if newH.Count() == RackSize {
		score += allTilesBonus
	}
	return score, words, nil
}

// scoreWords validates and scores the words of one direction. occ and
// newTiles are in the direction's own orientation; mapPos takes a
// position of that orientation back to the natural grid.
func (b *Board) scoreWords(
	occ, newTiles BitBoard,
	fsm Fsm,
	mapPos func(Pos) Pos,
	words *[]PlacedWord,
) (int, error) {
	total := 0

	for _, span := range newWordBoundaries(occ, newTiles) {
		state := fsm.Initial()
		wordScore := 0
		wordMultiplier := 1
		var text strings.Builder

		for pos := span.Start(); pos <= span.End(); pos++ {
			realPos := mapPos(pos)
			tile := b.grid[realPos]

			letter, err := tile.Letter()
			if err != nil {
				return 0, err
			}

			next, ok := fsm.Next(state, letter)
			if !ok {
				return 0, ErrInvalidWord
			}
			state = next
			text.WriteRune(letter.Rune())

			// Premiums only apply beneath newly placed tiles.
			tileM, wordM := 1, 1
			if newTiles.IsSet(pos) {
				tileM, wordM = realPos.Multipliers()
			}
			wordScore += tileM * tile.Score()
			wordMultiplier *= wordM
		}

		if !fsm.IsTerminal(state) {
			return 0, ErrInvalidWord
		}

		wordScore *= wordMultiplier
		total += wordScore
		*words = append(*words, PlacedWord{Word: text.String(), Score: wordScore})
	}

	return total, nil
}

// String displays the board as a grid, with '.' for empty squares.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if tile, ok := b.Get(PosAt(row, col)); ok {
				sb.WriteString(" " + tile.String() + " ")
			} else {
				sb.WriteString(" . ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
