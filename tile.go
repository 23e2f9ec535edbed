// tile.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the Letter and Tile types together with
// the standard tile scores.

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

// Letter is one of the 26 letters A..Z, stored as an index 0..25.
type Letter uint8

// tileScores holds the score for each of the 27 tile identities:
// the 26 letters followed by the blank.
var tileScores = [27]int{
	1,  // A
	3,  // B
	3,  // C
	2,  // D
	1,  // E
	4,  // F
	2,  // G
	4,  // H
	1,  // I
	8,  // J
	5,  // K
	1,  // L
	3,  // M
	1,  // N
	1,  // O
	3,  // P
	10, // Q
	1,  // R
	1,  // S
	1,  // T
	1,  // U
	4,  // V
	4,  // W
	8,  // X
	4,  // Y
	10, // Z
	0,  // blank
}

// LetterOf converts a rune to a Letter. Both cases are accepted.
func LetterOf(r rune) (Letter, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Letter(r - 'a'), true
	case r >= 'A' && r <= 'Z':
		return Letter(r - 'A'), true
	default:
		return 0, false
	}
}

// MakeLetter reduces an integer into the letter range.
func MakeLetter(v int) Letter {
	return Letter(v % 26)
}

// Score returns the score of the letter's tile.
func (l Letter) Score() int {
	return tileScores[l]
}

// Rune returns the uppercase character for the letter.
func (l Letter) Rune() rune {
	return rune('A' + l)
}

// String displays the letter as its uppercase character.
func (l Letter) String() string {
	return string(l.Rune())
}

// Tile is one of the 27 tile identities: a letter tile, or the blank.
// A blank placed on the board carries a letter designation; until it is
// placed the designation is absent. The encoding is
//
//	0..25   letter tiles A..Z
//	26      blank, no designation
//	27..52  blank designated as A..Z
//
// so that Index() collapses every blank onto the same identity.
type Tile uint8

const blankTile = Tile(26)

// LetterTile returns the tile for a letter.
func LetterTile(l Letter) Tile {
	return Tile(l)
}

// BlankTile returns the undesignated blank tile.
func BlankTile() Tile {
	return blankTile
}

// DesignatedBlank returns a blank tile designated as the given letter.
func DesignatedBlank(l Letter) Tile {
	return Tile(27 + uint8(l))
}

// TileAt returns the tile for an identity index 0..26. This is the
// inverse of Index, used when iterating tile counts.
func TileAt(index int) Tile {
	return Tile(index % 27)
}

// TileOf converts a rune to a tile: uppercase runes become letter tiles,
// lowercase runes become designated blanks and '?' is the undesignated
// blank.
func TileOf(r rune) (Tile, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return LetterTile(Letter(r - 'A')), true
	case r >= 'a' && r <= 'z':
		return DesignatedBlank(Letter(r - 'a')), true
	case r == '?':
		return BlankTile(), true
	default:
		return 0, false
	}
}

// IsBlank returns true if the tile is a blank, designated or not.
func (t Tile) IsBlank() bool {
	return t >= 26
}

// Index returns the tile identity 0..26, mapping every blank to 26.
func (t Tile) Index() int {
	if t.IsBlank() {
		return 26
	}
	return int(t)
}

// Letter returns the letter that the tile stands for. For an
// undesignated blank there is no letter, so ErrMissingLetter
// is returned.
func (t Tile) Letter() (Letter, error) {
	switch {
	case t < 26:
		return Letter(t), nil
	case t > 26:
		return Letter(t - 27), nil
	default:
		return 0, ErrMissingLetter
	}
}

// Score returns the score of the tile. Blanks score zero whether or
// not they carry a designation.
func (t Tile) Score() int {
	return tileScores[t.Index()]
}

// String displays a letter tile as its uppercase character, a
// designated blank as the lowercase character, and the undesignated
// blank as '?'.
func (t Tile) String() string {
	switch {
	case t < 26:
		return string(rune('A' + t))
	case t > 26:
		return string(rune('a' + t - 27))
	default:
		return "?"
	}
}

// MarshalJSON encodes the tile as its display rune, which keeps wire
// frames and persisted records readable.
func (t Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tile from its display rune.
func (t *Tile) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return fmt.Errorf("invalid tile %q", s)
	}
	tile, ok := TileOf(runes[0])
	if !ok {
		return fmt.Errorf("invalid tile %q", s)
	}
	*t = tile
	return nil
}

// ParseTiles converts a string such as "CAT?e" into a list of tiles.
func ParseTiles(s string) ([]Tile, error) {
	tiles := make([]Tile, 0, len(s))
	for _, r := range s {
		t, ok := TileOf(r)
		if !ok {
			return nil, fmt.Errorf("invalid tile %q", r)
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}
