// game.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the Game: the per-game turn machine that owns
// the board, the bag and the players, applies plays and detects the
// end of the game.

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

// PlayerNum identifies a player within a Game. How player numbers
// relate to actual users is decided by the live layer.
type PlayerNum int

// NextPlayer returns the next player number, wrapping around.
func (n PlayerNum) NextPlayer(playerCount int) PlayerNum {
	return PlayerNum((int(n) + 1) % playerCount)
}

// Player carries the per-seat game state: the rack, the running
// score and the count of consecutive passes.
type Player struct {
	rack      *Rack
	score     int
	passCount int
}

// Rack returns the player's rack.
func (p *Player) Rack() *Rack {
	return p.rack
}

// Score returns the player's running score.
func (p *Player) Score() int {
	return p.score
}

// GameOverReason is why a game ended.
type GameOverReason int

const (
	// TwoPasses: a player passed twice in a row.
	TwoPasses GameOverReason = iota
	// EmptyRack: a player emptied their rack with the bag exhausted.
	EmptyRack
)

// String names the reason.
func (r GameOverReason) String() string {
	switch r {
	case TwoPasses:
		return "TwoPasses"
	case EmptyRack:
		return "EmptyRack"
	default:
		return fmt.Sprintf("GameOverReason(%d)", int(r))
	}
}

// MarshalJSON encodes the reason by name.
func (r GameOverReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the reason from its name.
func (r *GameOverReason) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "TwoPasses":
		*r = TwoPasses
	case "EmptyRack":
		*r = EmptyRack
	default:
		return fmt.Errorf("unknown game over reason %q", name)
	}
	return nil
}

// GameOver records the end of a game: the terminating reason, the
// per-player final scores with the end-of-game adjustment applied,
// and the maximum score.
type GameOver struct {
	reason   GameOverReason
	scores   []int
	maxScore int
}

// newGameOver computes the final scores: every player loses the sum
// of their remaining rack tiles, and the ending player additionally
// gains the sum of everyone else's rack tiles.
func newGameOver(reason GameOverReason, players []*Player, last PlayerNum) *GameOver {
	scores := make([]int, len(players))
	overallRackSum := 0

	for i, player := range players {
		rackSum := player.rack.TileSum()
		scores[i] = player.score - rackSum
		overallRackSum += rackSum
	}
	scores[last] += overallRackSum - players[last].rack.TileSum()

	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	return &GameOver{reason: reason, scores: scores, maxScore: maxScore}
}

// Reason returns why the game ended.
func (g *GameOver) Reason() GameOverReason {
	return g.reason
}

// Score returns the final score of a player.
func (g *GameOver) Score(n PlayerNum) int {
	return g.scores[n]
}

// FinalScores returns the final score of every player.
func (g *GameOver) FinalScores() []int {
	scores := make([]int, len(g.scores))
	copy(scores, g.scores)
	return scores
}

// MaxScore returns the highest final score.
func (g *GameOver) MaxScore() int {
	return g.maxScore
}

// Winners returns the players that reached the maximum score.
func (g *GameOver) Winners() []PlayerNum {
	var winners []PlayerNum
	for i, s := range g.scores {
		if s == g.maxScore {
			winners = append(winners, PlayerNum(i))
		}
	}
	return winners
}

// Game mediates the turns of one game. All methods are synchronous;
// concurrent access is the caller's responsibility (the live room
// confines each Game to a single goroutine).
type Game struct {
	board   Board
	bag     *LetterBag
	players []*Player
	toPlay  PlayerNum
	over    *GameOver
}

// NewGame starts a game: a fresh bag, and a full rack drawn for each
// player.
func NewGame(playerCount int) *Game {
	bag := NewLetterBag()
	players := make([]*Player, playerCount)
	for i := range players {
		players[i] = &Player{rack: NewRack(bag)}
	}
	return &Game{
		board:   Board{},
		bag:     bag,
		players: players,
	}
}

// Board returns the game board.
func (g *Game) Board() *Board {
	return &g.board
}

// LetterBagLen returns the number of tiles left in the bag.
func (g *Game) LetterBagLen() int {
	return g.bag.Len()
}

// Player returns the state of a player.
func (g *Game) Player(n PlayerNum) *Player {
	return g.players[n]
}

// PlayerCount returns the number of players.
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Scores returns every player's running score.
func (g *Game) Scores() []int {
	scores := make([]int, len(g.players))
	for i, p := range g.players {
		scores[i] = p.score
	}
	return scores
}

// ToPlay returns the player whose turn it is, with false when the
// game is over.
func (g *Game) ToPlay() (PlayerNum, bool) {
	if g.over != nil {
		return 0, false
	}
	return g.toPlay, true
}

// IsOver checks whether the game has ended.
func (g *Game) IsOver() bool {
	return g.over != nil
}

// Over returns the end-of-game record, or nil while the game is
// ongoing.
func (g *Game) Over() *GameOver {
	return g.over
}

// MakePlay applies a play for the current player, advances the turn
// and recomputes the game status. On error nothing changes.
func (g *Game) MakePlay(play Play, fsm Fsm) error {
	if g.over != nil {
		return ErrGameOver
	}

	switch p := play.(type) {
	case PassPlay:
		g.pass()
	case RedrawPlay:
		if err := g.redraw(p.Tiles); err != nil {
			return err
		}
	case PlacePlay:
		if err := g.place(p.Placements, fsm); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown play %T", play)
	}

	// The status is derived from the player that just moved.
	previous := g.toPlay
	g.toPlay = g.toPlay.NextPlayer(len(g.players))
	g.updateStatus(previous)

	return nil
}

// LastWords returns the words formed by the most recent successful
// placement, for the event log.
func (g *Game) LastWords() []PlacedWord {
	return g.board.LastWords()
}

func (g *Game) pass() {
	g.players[g.toPlay].passCount++
}

func (g *Game) redraw(tiles []Tile) error {
	player := g.players[g.toPlay]
	if err := player.rack.Exchange(tiles, g.bag); err != nil {
		return err
	}
	player.passCount = 0
	return nil
}

func (g *Game) place(placements []TilePlacement, fsm Fsm) error {
	player := g.players[g.toPlay]

	placed := make([]Tile, len(placements))
	for i, tp := range placements {
		placed[i] = tp.Tile
	}
	if !player.rack.Contains(placed) {
		return ErrNotInRack
	}

	score, err := g.board.MakePlacement(placements, fsm)
	if err != nil {
		return err
	}

	player.passCount = 0
	player.score += score
	player.rack.Remove(placed)
	player.rack.Refill(g.bag)

	return nil
}

// updateStatus ends the game when the previous player has passed
// twice in a row or emptied their rack.
func (g *Game) updateStatus(previous PlayerNum) {
	player := g.players[previous]
	switch {
	case player.passCount >= 2:
		g.over = newGameOver(TwoPasses, g.players, previous)
	case player.rack.IsEmpty():
		g.over = newGameOver(EmptyRack, g.players, previous)
	}
}
