// movegen.go
//
// Copyright (C) 2024 The scrabble authors

// This file contains code to generate all legal placements on a
// board, given a player's rack. One direction-agnostic recursive
// generator handles both axes: the vertical pass runs the same code
// over the transposed occupancy and maps the positions back.

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

// ScoredPlay is a generated placement together with the score it
// would be awarded.
type ScoredPlay struct {
	Play  PlacePlay
	Score int
}

// GeneratePlays returns every legal placement for the position,
// with scores. Every play returned here succeeds when fed into
// Board.MakePlacement against the same board, for the same score.
func GeneratePlays(board *Board, rack *Rack, fsm Fsm) []ScoredPlay {
	return genPlays(board, rack, fsm, nil)
}

// genPlays runs the horizontal pass over the natural occupancy and
// the vertical pass over the transposed occupancy.
func genPlays(board *Board, rack *Rack, fsm Fsm, cache *crossCache) []ScoredPlay {
	var plays []ScoredPlay

	identity := func(pos Pos) Pos { return pos }
	getH := func(pos Pos) (Tile, bool) { return board.Get(pos) }
	// Transposing keeps both axes in reading order: vertical words run
	// left to right and their cross words top to bottom.
	transpose := func(pos Pos) Pos { return PosAt(pos.Col(), pos.Row()) }
	getV := func(pos Pos) (Tile, bool) { return board.Get(transpose(pos)) }
	var occT BitBoard
	for pos := Pos(0); pos < BoardCells; pos++ {
		if _, ok := board.Get(pos); ok {
			occT.Set(transpose(pos))
		}
	}

	newMoveGen(fsm, getH, identity, board.OccH(), rack, cache).gen(&plays)
	newMoveGen(fsm, getV, transpose, occT, rack, cache).gen(&plays)

	return plays
}

// wordState is the per-node search state.
type wordState struct {
	state StateId
	// accumulated tile score of the in-line word
	score int
	// accumulated scores of completed perpendicular words; these
	// carry their own premiums, so the in-line multiplier must not
	// touch them
	crossScore int
	// product of the word multipliers under new tiles
	multiplier int
	// true once the partial placement touches pre-existing tiles,
	// crosses a perpendicular word, or covers the start square
	connected bool
}

// moveGen generates placements in one direction. getCell reads the
// board through the direction's view (natural or transposed) and mapPos maps positions
// back to the natural grid for emitted plays.
type moveGen struct {
	fsm     Fsm
	getCell func(Pos) (Tile, bool)
	mapPos  func(Pos) Pos
	lookup  *Lookup

	occ          BitBoard
	aboveOrBelow BitBoard

	stack  []TilePlacement
	counts TileCounts
}

func newMoveGen(
	fsm Fsm,
	getCell func(Pos) (Tile, bool),
	mapPos func(Pos) Pos,
	occ BitBoard,
	rack *Rack,
	cache *crossCache,
) *moveGen {
	return &moveGen{
		fsm:          fsm,
		getCell:      getCell,
		mapPos:       mapPos,
		lookup:       newLookup(fsm, getCell, occ, cache),
		occ:          occ,
		aboveOrBelow: occ.AboveOrBelow(),
		stack:        make([]TilePlacement, 0, RackSize),
		counts:       *rack.Counts(),
	}
}

// gen recurses from every start position worth attempting.
func (m *moveGen) gen(plays *[]ScoredPlay) {
	maxTiles := m.counts.Len()
	if maxTiles > RackSize {
		maxTiles = RackSize
	}
	for _, start := range possibleStartsH(m.occ, maxTiles) {
		m.rec(plays, start, true, wordState{
			state:      m.fsm.Initial(),
			multiplier: 1,
		})
	}
}

// rec tries to emit at the current node, then extends the word one
// square to the east.
func (m *moveGen) rec(plays *[]ScoredPlay, pos Pos, onBoard bool, ws wordState) {
	m.emit(plays, ws, pos, onBoard)

	if !onBoard {
		return
	}
	next, nextOn := pos.Offset(East)

	if tile, ok := m.getCell(pos); ok {
		// A pre-existing tile: the traversal must match it, with no
		// branching and no premiums.
		letter, err := tile.Letter()
		if err != nil {
			return
		}
		if nextState, ok := m.fsm.Next(ws.state, letter); ok {
			m.rec(plays, next, nextOn, wordState{
				state:      nextState,
				score:      ws.score + tile.Score(),
				crossScore: ws.crossScore,
				multiplier: ws.multiplier,
				connected:  true,
			})
		}
		return
	}

	// An empty square: try every transition from the current state,
	// as a letter tile and as a designated blank, constrained by the
	// rack and the cross-checks.
	for _, t := range m.fsm.Transitions(ws.state) {
		for _, tile := range []Tile{LetterTile(t.Letter), DesignatedBlank(t.Letter)} {
			crossScore, allowed := m.lookup.ScoreTile(pos, tile)
			if !allowed || !m.counts.Any(tile) {
				continue
			}

			m.counts.Remove(tile)
			m.stack = append(m.stack, TilePlacement{Pos: pos, Tile: tile})

			tileM, wordM := pos.Multipliers()
			m.rec(plays, next, nextOn, wordState{
				state:      t.Next,
				score:      ws.score + tileM*tile.Score(),
				crossScore: ws.crossScore + crossScore,
				multiplier: ws.multiplier * wordM,
				connected:  ws.connected || m.lookup.IsAboveOrBelow(pos) || pos.IsStart(),
			})

			m.stack = m.stack[:len(m.stack)-1]
			m.counts.Insert(tile)
		}
	}
}

// emit records the current stack as a play if it forms a complete,
// connected word that ends legally. pos is the square the word would
// extend into next.
func (m *moveGen) emit(plays *[]ScoredPlay, ws wordState, pos Pos, onBoard bool) {
	if len(m.stack) == 0 || !ws.connected || !m.fsm.IsTerminal(ws.state) {
		return
	}

	// A word only ends where the next square is empty or off the
	// board; stopping directly before a pre-existing tile would not
	// form a maximal word.
	if onBoard && m.occ.IsSet(pos) {
		return
	}

	last := m.stack[len(m.stack)-1].Pos
	// A single tile adjacent to a perpendicular word is emitted by
	// the other direction's pass; skipping it here prevents the same
	// play from appearing twice.
	if len(m.stack) == 1 && m.aboveOrBelow.IsSet(last) {
		return
	}
	// A lone tile on an empty board forms no word.
	if len(m.stack) == 1 && m.occ.IsZero() {
		return
	}

	score := ws.score*ws.multiplier + ws.crossScore
	if len(m.stack) == RackSize {
		score += allTilesBonus
	}

	placements := make([]TilePlacement, len(m.stack))
	for i, tp := range m.stack {
		placements[i] = TilePlacement{Pos: m.mapPos(tp.Pos), Tile: tp.Tile}
	}
	*plays = append(*plays, ScoredPlay{Play: PlacePlay{Placements: placements}, Score: score})
}

// possibleStartsH returns the squares worth attempting as the start
// of a placement: word starts (no occupied square to the west) from
// which the search can still reach a connection (a pre-existing tile
// in line, a perpendicular neighbour or the start square) with at
// most maxTiles new tiles.
func possibleStartsH(occ BitBoard, maxTiles int) []Pos {
	if maxTiles == 0 {
		return nil
	}
	aboveOrBelow := occ.AboveOrBelow()
	var starts []Pos

	for pos := Pos(0); pos < BoardCells; pos++ {
		if west, ok := pos.Offset(West); ok && occ.IsSet(west) {
			continue
		}
		if occ.IsSet(pos) {
			starts = append(starts, pos)
			continue
		}

		remaining := maxTiles
		cur := pos
		on := true
		reachable := false
		for on && remaining > 0 {
			if occ.IsSet(cur) || aboveOrBelow.IsSet(cur) || cur.IsStart() {
				reachable = true
				break
			}
			remaining--
			cur, on = cur.Offset(East)
		}
		// the tiles placed so far may touch a tile just past them
		if !reachable && on && occ.IsSet(cur) {
			reachable = true
		}
		if reachable {
			starts = append(starts, pos)
		}
	}

	return starts
}
