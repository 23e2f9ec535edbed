// errors.go
//
// Copyright (C) 2024 The scrabble authors

// This file defines the error values returned by the game engine.

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

import (
	"encoding/json"
	"fmt"
)

// GameError is the error type for the game engine. Every value is a
// contract violation that is detectable at call time; the engine never
// returns anything else. Errors cross the live boundary unchanged,
// wrapped as LiveError.
type GameError int

const (
	// ErrNotEnoughLetters is returned when the letter bag does not contain
	// enough letters to redraw the requested tiles.
	ErrNotEnoughLetters GameError = iota
	// ErrNotInRack is returned when a play uses a tile that is not in the
	// player's rack.
	ErrNotInRack
	// ErrGameOver is returned when a play is made after the game has ended.
	ErrGameOver
	// ErrInvalidWord is returned when a placed word is not in the dictionary.
	ErrInvalidWord
	// ErrPlacementCount is returned when fewer than 1 or more than 7 tiles
	// are placed.
	ErrPlacementCount
	// ErrCoincedentTiles is returned when placed tiles overlay existing tiles.
	ErrCoincedentTiles
	// ErrDuplicatePosition is returned when two placed tiles share a square.
	ErrDuplicatePosition
	// ErrRedrawCount is returned when fewer than 1 or more than 7 tiles are
	// redrawn.
	ErrRedrawCount
	// ErrMustIntersectStart is returned when no tile covers the start square.
	ErrMustIntersectStart
	// ErrWordsNeedTwoLetters is returned when the board would hold a single
	// isolated tile.
	ErrWordsNeedTwoLetters
	// ErrNotConnected is returned when a placed tile cannot be reached from
	// the existing tiles (or the start square).
	ErrNotConnected
	// ErrNoCommonLine is returned when placed tiles do not share a row or
	// a column.
	ErrNoCommonLine
	// ErrMissingLetter is returned when a blank tile is placed on the board
	// without a letter designation.
	ErrMissingLetter
)

var gameErrorNames = map[GameError]string{
	ErrNotEnoughLetters:    "NotEnoughLetters",
	ErrNotInRack:           "NotInRack",
	ErrGameOver:            "Over",
	ErrInvalidWord:         "InvalidWord",
	ErrPlacementCount:      "PlacementCount",
	ErrCoincedentTiles:     "CoincedentTiles",
	ErrDuplicatePosition:   "DuplicatePosition",
	ErrRedrawCount:         "RedrawCount",
	ErrMustIntersectStart:  "MustIntersectStart",
	ErrWordsNeedTwoLetters: "WordsNeedTwoLetters",
	ErrNotConnected:        "NotConnected",
	ErrNoCommonLine:        "NoCommonLine",
	ErrMissingLetter:       "MissingLetter",
}

// Error implements the error interface.
func (e GameError) Error() string {
	switch e {
	case ErrNotEnoughLetters:
		return "there are not enough letters in the bag to redraw"
	case ErrNotInRack:
		return "one or more played tiles were not in the rack"
	case ErrGameOver:
		return "the game is over so no further plays can be made"
	case ErrInvalidWord:
		return "a word was not in the dictionary"
	case ErrPlacementCount:
		return "at least 1 and no more than 7 tiles can be placed"
	case ErrCoincedentTiles:
		return "tiles were placed over existing tiles"
	case ErrDuplicatePosition:
		return "multiple tiles were placed on the same square"
	case ErrRedrawCount:
		return "at least 1 and no more than 7 tiles can be redrawn"
	case ErrMustIntersectStart:
		return "a tile must be placed on the start square"
	case ErrWordsNeedTwoLetters:
		return "words need at least 2 letters"
	case ErrNotConnected:
		return "placed tiles must connect to the existing tiles"
	case ErrNoCommonLine:
		return "placed tiles must share a common row or column"
	case ErrMissingLetter:
		return "a blank tile placed on the board did not specify a letter"
	default:
		return fmt.Sprintf("unknown game error (%d)", int(e))
	}
}

// MarshalJSON encodes the error under its symbolic name, which is the
// form that crosses the wire.
func (e GameError) MarshalJSON() ([]byte, error) {
	name, ok := gameErrorNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown game error (%d)", int(e))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes an error from its symbolic name.
func (e *GameError) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for val, n := range gameErrorNames {
		if n == name {
			*e = val
			return nil
		}
	}
	return fmt.Errorf("unknown game error %q", name)
}
