// bag.go
//
// Copyright (C) 2024 The scrabble authors

// This file contains the LetterBag logic.

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

import "lukechampine.com/frand"

// initialTileCounts is the official distribution: 100 tiles in total.
var initialTileCounts = [27]int{
	9,  // A
	2,  // B
	2,  // C
	4,  // D
	12, // E
	2,  // F
	3,  // G
	2,  // H
	9,  // I
	1,  // J
	1,  // K
	4,  // L
	2,  // M
	6,  // N
	8,  // O
	2,  // P
	1,  // Q
	6,  // R
	4,  // S
	6,  // T
	4,  // U
	2,  // V
	2,  // W
	1,  // X
	2,  // Y
	1,  // Z
	2,  // blank
}

// LetterBag holds the tiles that are yet to be drawn in a game.
type LetterBag struct {
	counts TileCounts
}

// NewLetterBag returns a bag filled with the official distribution.
func NewLetterBag() *LetterBag {
	bag := &LetterBag{}
	for i, count := range initialTileCounts {
		for j := 0; j < count; j++ {
			bag.counts.Insert(TileAt(i))
		}
	}
	return bag
}

// InitialCount returns the number of copies of a tile in a fresh bag.
func InitialCount(t Tile) int {
	return initialTileCounts[t.Index()]
}

// Len returns the number of tiles remaining in the bag.
func (bag *LetterBag) Len() int {
	return bag.counts.Len()
}

// IsEmpty returns true when no tiles remain.
func (bag *LetterBag) IsEmpty() bool {
	return bag.counts.IsEmpty()
}

// Counts exposes the remaining tile counts.
func (bag *LetterBag) Counts() *TileCounts {
	return &bag.counts
}

// Draw removes a uniformly random tile, weighted by the current
// counts, and returns it. Returns false when the bag is empty.
func (bag *LetterBag) Draw() (Tile, bool) {
	total := bag.counts.Len()
	if total == 0 {
		return 0, false
	}
	// Pick an index as though the remaining tiles were laid out in a
	// single array, then walk the counts to find its identity.
	idx := frand.Intn(total)
	tileIdx := 0
	count := bag.counts.Count(TileAt(tileIdx))
	for count <= idx {
		tileIdx++
		count += bag.counts.Count(TileAt(tileIdx))
	}
	tile := TileAt(tileIdx)
	bag.counts.Remove(tile)
	return tile, true
}

// DrawMany draws up to min(count, remaining, RackSize) tiles.
func (bag *LetterBag) DrawMany(count int) []Tile {
	if count > RackSize {
		count = RackSize
	}
	tiles := make([]Tile, 0, count)
	for len(tiles) < count {
		tile, ok := bag.Draw()
		if !ok {
			break
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

// AddTiles returns up to RackSize tiles to the bag, reporting how many
// were added. Designated blanks go back in as plain blanks.
func (bag *LetterBag) AddTiles(tiles []Tile) int {
	added := 0
	for _, t := range tiles {
		if added == RackSize {
			break
		}
		bag.counts.Insert(TileAt(t.Index()))
		added++
	}
	return added
}
