// play.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the Play variants: the actions a player can
// take on their turn.

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
	"fmt"
	"strings"
)

// allTilesBonus is the bonus for placing all 7 rack tiles in one play.
const allTilesBonus = 50

// Play is one of the three actions a player can take: Pass, Redraw
// or Place. Plays carry no validation of their own; they are checked
// when applied to a Game.
type Play interface {
	fmt.Stringer
	play()
}

// PassPlay forfeits the turn.
type PassPlay struct{}

func (PassPlay) play() {}

// String describes the play.
func (PassPlay) String() string {
	return "Pass"
}

// RedrawPlay swaps 1..7 rack tiles with the bag.
type RedrawPlay struct {
	Tiles []Tile
}

func (RedrawPlay) play() {}

// String describes the play.
func (p RedrawPlay) String() string {
	var sb strings.Builder
	sb.WriteString("Redraw(")
	for _, t := range p.Tiles {
		sb.WriteString(t.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// PlacePlay places 1..7 tiles on the board.
type PlacePlay struct {
	Placements []TilePlacement
}

func (PlacePlay) play() {}

// String describes the play.
func (p PlacePlay) String() string {
	var sb strings.Builder
	sb.WriteString("Place(")
	for i, tp := range p.Placements {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%v%v", tp.Pos, tp.Tile))
	}
	sb.WriteString(")")
	return sb.String()
}

// PlacedTiles returns the tiles of a place play, or nil for the
// other variants.
func PlacedTiles(play Play) []Tile {
	place, ok := play.(PlacePlay)
	if !ok {
		return nil
	}
	tiles := make([]Tile, len(place.Placements))
	for i, tp := range place.Placements {
		tiles[i] = tp.Tile
	}
	return tiles
}
