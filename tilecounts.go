// tilecounts.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the TileCounts multiset which backs both
// the letter bag and the player racks.

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

// TileCounts stores a quantity of each of the 27 tile identities,
// with a cached total. Designated blanks count against the blank
// identity.
type TileCounts struct {
	counts [27]int
	total  int
}

// NewTileCounts builds a multiset from a list of tiles.
func NewTileCounts(tiles []Tile) TileCounts {
	var tc TileCounts
	tc.InsertAll(tiles)
	return tc
}

// Len returns the total number of tiles.
func (tc *TileCounts) Len() int {
	return tc.total
}

// IsEmpty returns true if no tiles are held.
func (tc *TileCounts) IsEmpty() bool {
	return tc.total == 0
}

// Count returns the count for a single tile identity.
func (tc *TileCounts) Count(t Tile) int {
	return tc.counts[t.Index()]
}

// Any returns true if at least one of the tile identity is held.
func (tc *TileCounts) Any(t Tile) bool {
	return tc.Count(t) > 0
}

// Insert adds a single tile.
func (tc *TileCounts) Insert(t Tile) {
	tc.counts[t.Index()]++
	tc.total++
}

// Remove removes a single tile. The caller must ensure the tile
// is present.
func (tc *TileCounts) Remove(t Tile) {
	tc.counts[t.Index()]--
	tc.total--
}

// InsertAll adds every tile in the list.
func (tc *TileCounts) InsertAll(tiles []Tile) {
	for _, t := range tiles {
		tc.Insert(t)
	}
}

// RemoveAll removes every tile in the list. The caller must ensure
// the tiles are present; Contains checks that.
func (tc *TileCounts) RemoveAll(tiles []Tile) {
	for _, t := range tiles {
		tc.Remove(t)
	}
}

// Contains reports whether the multiset of tiles is contained
// within the counts.
func (tc *TileCounts) Contains(tiles []Tile) bool {
	var needed [27]int
	for _, t := range tiles {
		needed[t.Index()]++
	}
	for i, n := range needed {
		if n > tc.counts[i] {
			return false
		}
	}
	return true
}

// Tiles returns the held tiles in sorted identity order, blanks last.
func (tc *TileCounts) Tiles() []Tile {
	tiles := make([]Tile, 0, tc.total)
	for i, count := range tc.counts {
		for j := 0; j < count; j++ {
			tiles = append(tiles, TileAt(i))
		}
	}
	return tiles
}

// UniqueTiles returns one tile per held identity, in sorted order.
func (tc *TileCounts) UniqueTiles() []Tile {
	tiles := make([]Tile, 0, 27)
	for i, count := range tc.counts {
		if count > 0 {
			tiles = append(tiles, TileAt(i))
		}
	}
	return tiles
}

// TileSum returns the sum of the scores of the held tiles. This is
// the quantity used for the end-of-game adjustment.
func (tc *TileCounts) TileSum() int {
	sum := 0
	for i, count := range tc.counts {
		sum += tileScores[i] * count
	}
	return sum
}

// String displays the counts as the sorted tile list.
func (tc *TileCounts) String() string {
	s := ""
	for _, t := range tc.Tiles() {
		s += t.String()
	}
	return s
}
