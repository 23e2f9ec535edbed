// rack.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the player Rack.

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

// RackSize is the number of slots in a Rack.
const RackSize = 7

// Rack holds the up to 7 tiles a player may place from.
type Rack struct {
	counts TileCounts
}

// NewRack draws a full rack from the bag.
func NewRack(bag *LetterBag) *Rack {
	rack := &Rack{}
	rack.Refill(bag)
	return rack
}

// NewRackWithTiles builds a rack holding the given tiles, capped at
// the rack size. Useful for tests and for reconstructing state.
func NewRackWithTiles(tiles []Tile) *Rack {
	rack := &Rack{}
	for _, t := range tiles {
		if rack.counts.Len() == RackSize {
			break
		}
		rack.counts.Insert(t)
	}
	return rack
}

// Len returns the number of tiles on the rack.
func (r *Rack) Len() int {
	return r.counts.Len()
}

// IsEmpty returns true when the rack holds no tiles.
func (r *Rack) IsEmpty() bool {
	return r.counts.IsEmpty()
}

// Missing returns how many tiles the rack is short of full.
func (r *Rack) Missing() int {
	return RackSize - r.counts.Len()
}

// Counts exposes the rack's tile counts.
func (r *Rack) Counts() *TileCounts {
	return &r.counts
}

// Tiles returns the rack tiles in sorted identity order.
func (r *Rack) Tiles() []Tile {
	return r.counts.Tiles()
}

// TileSum returns the summed scores of the held tiles, used for the
// end-of-game adjustment.
func (r *Rack) TileSum() int {
	return r.counts.TileSum()
}

// Contains reports whether the rack holds all the given tiles.
func (r *Rack) Contains(tiles []Tile) bool {
	return r.counts.Contains(tiles)
}

// Remove takes the given tiles off the rack. The caller must have
// checked Contains first.
func (r *Rack) Remove(tiles []Tile) {
	r.counts.RemoveAll(tiles)
}

// Refill draws from the bag until the rack is full or the bag is
// empty.
func (r *Rack) Refill(bag *LetterBag) {
	r.counts.InsertAll(bag.DrawMany(r.Missing()))
}

// Exchange swaps the given tiles with fresh ones from the bag. The
// bag must hold at least as many tiles as are being swapped, and the
// rack must contain every swapped tile. The replacements are drawn
// before the old tiles go back in, so a swapped tile cannot be drawn
// straight back.
func (r *Rack) Exchange(tiles []Tile, bag *LetterBag) error {
	if len(tiles) < 1 || len(tiles) > RackSize {
		return ErrRedrawCount
	}
	if bag.Len() < len(tiles) {
		return ErrNotEnoughLetters
	}
	if !r.counts.Contains(tiles) {
		return ErrNotInRack
	}

	r.counts.RemoveAll(tiles)
	r.counts.InsertAll(bag.DrawMany(len(tiles)))
	bag.AddTiles(tiles)

	return nil
}

// String displays the rack as its sorted tile letters.
func (r *Rack) String() string {
	return r.counts.String()
}
