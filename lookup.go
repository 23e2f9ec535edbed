// lookup.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the cross-check lookup: for every empty square
// with an occupied perpendicular neighbour, the set of tiles that can
// legally be placed there and the score of the perpendicular word
// each would complete.

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
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// crossCache is an LRU cache of cross-check results, keyed by the
// column pattern around the empty square. The same patterns recur
// across turns and games, and the result depends only on the pattern
// and the square's premium, so entries stay valid for the lifetime
// of the dictionary.
type crossCache struct {
	mux sync.Mutex
	lru *simplelru.LRU
}

// newCrossCache returns a cache bounded to the given entry count.
func newCrossCache(size int) *crossCache {
	lru, _ := simplelru.NewLRU(size, nil)
	return &crossCache{lru: lru}
}

// lookup returns the cached entry for a key, calling fetch to
// compute and store it on a miss.
func (cc *crossCache) lookup(key string, fetch func() map[Tile]int) map[Tile]int {
	cc.mux.Lock()
	defer cc.mux.Unlock()
	if entry, ok := cc.lru.Get(key); ok {
		return entry.(map[Tile]int)
	}
	entry := fetch()
	cc.lru.Add(key, entry)
	return entry
}

// Lookup holds the per-square cross-check results for one direction
// of move generation. Squares without a perpendicular neighbour
// accept any tile at zero cross score.
type Lookup struct {
	aboveOrBelow BitBoard
	entries      [BoardCells]map[Tile]int
}

// newLookup walks each column top to bottom, keeping the FSM state
// and the partial score of the contiguous run ending at the cursor.
// At each empty square with an occupied vertical neighbour it records
// which tiles would complete a valid perpendicular word, and for what
// score. getCell reads the (possibly transposed) board; occ is the
// matching occupancy.
func newLookup(fsm Fsm, getCell func(Pos) (Tile, bool), occ BitBoard, cache *crossCache) *Lookup {
	lookup := &Lookup{aboveOrBelow: occ.AboveOrBelow()}

	for col := 0; col < BoardSize; col++ {
		state := fsm.Initial()
		score := 0
		// alive is false when the run above the cursor failed to
		// traverse, which cannot happen on a board of validated words.
		alive := true
		var prefix strings.Builder

		for row := 0; row < BoardSize; row++ {
			pos := PosAt(row, col)

			if tile, ok := getCell(pos); ok {
				letter, err := tile.Letter()
				if err != nil {
					alive = false
					continue
				}
				if alive {
					next, ok := fsm.Next(state, letter)
					if !ok {
						alive = false
					} else {
						state = next
						score += tile.Score()
					}
				}
				prefix.WriteString(tile.String())
				continue
			}

			if lookup.aboveOrBelow.IsSet(pos) {
				if alive {
					lookup.entries[pos] = crossEntry(fsm, getCell, cache, pos, state, score, prefix.String())
				} else {
					lookup.entries[pos] = map[Tile]int{}
				}
			}

			// A break in the column: reset the running traversal.
			state = fsm.Initial()
			score = 0
			alive = true
			prefix.Reset()
		}
	}

	return lookup
}

// crossEntry enumerates the outgoing transitions at the cursor and,
// for each candidate tile, follows the column down through any
// occupied squares, keeping the tile iff the final state is terminal.
// Results are cached on the pattern around the square.
func crossEntry(
	fsm Fsm,
	getCell func(Pos) (Tile, bool),
	cache *crossCache,
	pos Pos,
	state StateId,
	score int,
	prefix string,
) map[Tile]int {
	fetch := func() map[Tile]int {
		entry := make(map[Tile]int)
		tileM, wordM := pos.Multipliers()

		for _, t := range fsm.Transitions(state) {
			for _, tile := range []Tile{LetterTile(t.Letter), DesignatedBlank(t.Letter)} {
				total := score + tileM*tile.Score()
				curr := t.Next
				ok := true

				for q, on := pos.Offset(South); ok && on; q, on = q.Offset(South) {
					below, occupied := getCell(q)
					if !occupied {
						break
					}
					letter, err := below.Letter()
					if err != nil {
						ok = false
						break
					}
					next, found := fsm.Next(curr, letter)
					if !found {
						ok = false
						break
					}
					curr = next
					total += below.Score()
				}

				if ok && fsm.IsTerminal(curr) {
					entry[tile] = total * wordM
				}
			}
		}
		return entry
	}

	if cache == nil {
		return fetch()
	}
	return cache.lookup(crossKey(getCell, pos, prefix), fetch)
}

// crossKey builds the cache key: the contiguous run above the square,
// a '?' for the square itself, the contiguous run below, and the
// square's premium. Blanks print in lowercase, so runs with the same
// letters but different scores key differently.
func crossKey(getCell func(Pos) (Tile, bool), pos Pos, prefix string) string {
	var suffix strings.Builder
	for q, on := pos.Offset(South); on; q, on = q.Offset(South) {
		tile, occupied := getCell(q)
		if !occupied {
			break
		}
		suffix.WriteString(tile.String())
	}
	return fmt.Sprintf("%s?%s:%d", prefix, suffix.String(), pos.Premium())
}

// ScoreTile returns the perpendicular word score for placing the
// tile at pos, and whether the placement is allowed at all. Squares
// with no perpendicular neighbour allow any tile at zero score.
func (l *Lookup) ScoreTile(pos Pos, tile Tile) (int, bool) {
	if !l.aboveOrBelow.IsSet(pos) {
		return 0, true
	}
	score, ok := l.entries[pos][tile]
	return score, ok
}

// IsAboveOrBelow checks whether the square has an occupied
// perpendicular neighbour.
func (l *Lookup) IsAboveOrBelow(pos Pos) bool {
	return l.aboveOrBelow.IsSet(pos)
}
