// robot.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the automatic players: play selection
// strategies over the move generator.

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
	"sort"

	"lukechampine.com/frand"
)

// AiDifficulty selects the strategy played by an AI seat.
type AiDifficulty int

const (
	AiEasy AiDifficulty = iota
	AiMedium
	AiHard
)

// String names the difficulty the way it is shown to players.
func (d AiDifficulty) String() string {
	switch d {
	case AiEasy:
		return "easy"
	case AiMedium:
		return "medium"
	default:
		return "hard"
	}
}

// Robot is a playing strategy: given the generated plays for a
// position, pick one. An empty play list must fall back to a pass.
type Robot interface {
	PickPlay(plays []ScoredPlay) Play
}

// RobotWrapper wraps a Robot together with a cross-check cache that
// persists across the robot's turns.
type RobotWrapper struct {
	Robot
	cache *crossCache
}

// GeneratePlay generates the legal plays for the position and asks
// the wrapped strategy to pick one.
func (rw *RobotWrapper) GeneratePlay(board *Board, rack *Rack, fsm Fsm) Play {
	plays := genPlays(board, rack, fsm, rw.cache)
	return rw.PickPlay(plays)
}

// HighScoreRobot always picks the highest-scoring play.
type HighScoreRobot struct{}

// PickPlay returns the highest-scoring play, or a pass when there
// are none.
func (HighScoreRobot) PickPlay(plays []ScoredPlay) Play {
	if len(plays) == 0 {
		return PassPlay{}
	}
	best := plays[0]
	for _, p := range plays[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best.Play
}

// LongWordRobot prefers plays that place the most tiles, breaking
// ties by score.
type LongWordRobot struct{}

// PickPlay returns the longest play, or a pass when there are none.
func (LongWordRobot) PickPlay(plays []ScoredPlay) Play {
	if len(plays) == 0 {
		return PassPlay{}
	}
	best := plays[0]
	for _, p := range plays[1:] {
		if len(p.Play.Placements) > len(best.Play.Placements) ||
			(len(p.Play.Placements) == len(best.Play.Placements) && p.Score > best.Score) {
			best = p
		}
	}
	return best.Play
}

// EasyRobot plays a deliberately weak game: a random pick from the
// lower-scoring half of the available plays.
type EasyRobot struct{}

// PickPlay returns a random low-scoring play, or a pass when there
// are none.
func (EasyRobot) PickPlay(plays []ScoredPlay) Play {
	if len(plays) == 0 {
		return PassPlay{}
	}
	sorted := make([]ScoredPlay, len(plays))
	copy(sorted, plays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })

	half := (len(sorted) + 1) / 2
	return sorted[frand.Intn(half)].Play
}

// NewHighScoreRobot returns a fresh HighScoreRobot wrapper.
func NewHighScoreRobot() *RobotWrapper {
	return &RobotWrapper{Robot: HighScoreRobot{}, cache: newCrossCache(2048)}
}

// NewLongWordRobot returns a fresh LongWordRobot wrapper.
func NewLongWordRobot() *RobotWrapper {
	return &RobotWrapper{Robot: LongWordRobot{}, cache: newCrossCache(2048)}
}

// NewEasyRobot returns a fresh EasyRobot wrapper.
func NewEasyRobot() *RobotWrapper {
	return &RobotWrapper{Robot: EasyRobot{}, cache: newCrossCache(2048)}
}

// NewRobotForDifficulty maps a difficulty to its strategy.
func NewRobotForDifficulty(d AiDifficulty) *RobotWrapper {
	switch d {
	case AiEasy:
		return NewEasyRobot()
	case AiMedium:
		return NewLongWordRobot()
	default:
		return NewHighScoreRobot()
	}
}
