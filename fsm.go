// fsm.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the finite state machine which encodes the
// dictionary of valid words, in its two physical layouts: FastFsm
// (hashmap transitions, O(1) lookup) and SmallFsm (packed transition
// array, compact bytes). Both layouts are interchangeable wherever
// an Fsm is consumed.

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

import "sort"

// StateId identifies a state in a finite state machine. Both layouts
// place the initial state at index 0 and the terminal states in a
// contiguous suffix, so the terminal check is a single comparison.
type StateId int

// Transition is one labelled edge out of a state.
type Transition struct {
	Letter Letter
	Next   StateId
}

// Fsm is the operational contract shared by FastFsm and SmallFsm.
// A finite state machine is built once, via FsmBuilder, and is
// immutable (and therefore freely shareable) afterwards.
type Fsm interface {
	// Initial returns the initial state, which is never terminal.
	Initial() StateId
	// IsTerminal checks whether a state ends a valid word.
	IsTerminal(state StateId) bool
	// Next follows a single transition, returning false when the
	// state has no edge for the letter.
	Next(state StateId, letter Letter) (StateId, bool)
	// Transitions returns the outgoing edges of a state in
	// ascending letter order.
	Transitions(state StateId) []Transition
	// StateCount returns the number of states.
	StateCount() int
	// TransitionCount returns the total number of transitions.
	TransitionCount() int
}

// TraverseFrom follows the sequence letter by letter from the given
// state, returning false if any transition is missing.
func TraverseFrom(fsm Fsm, state StateId, seq []Letter) (StateId, bool) {
	for _, letter := range seq {
		next, ok := fsm.Next(state, letter)
		if !ok {
			return 0, false
		}
		state = next
	}
	return state, true
}

// Traverse follows the sequence from the initial state.
func Traverse(fsm Fsm, seq []Letter) (StateId, bool) {
	return TraverseFrom(fsm, fsm.Initial(), seq)
}

// Accepts checks whether a word is in the dictionary. Words with
// non-letter characters are never accepted.
func Accepts(fsm Fsm, word string) bool {
	letters, ok := WordLetters(word)
	if !ok || len(letters) == 0 {
		return false
	}
	state, ok := Traverse(fsm, letters)
	return ok && fsm.IsTerminal(state)
}

// WordLetters converts a word to its letter sequence, returning
// false if the word contains a non-letter character.
func WordLetters(word string) ([]Letter, bool) {
	letters := make([]Letter, 0, len(word))
	for _, r := range word {
		letter, ok := LetterOf(r)
		if !ok {
			return nil, false
		}
		letters = append(letters, letter)
	}
	return letters, true
}

// fastState is a state in the FastFsm: just its transition map.
// Terminality is implied by the state's position in the layout.
type fastState struct {
	transitions map[Letter]StateId
}

// FastFsm is the time-optimised layout: per-state hashmaps give O(1)
// transitions at the cost of hashmap overhead per state.
type FastFsm struct {
	states        []fastState
	terminalCount int
}

// Initial returns the initial state.
func (f *FastFsm) Initial() StateId {
	return 0
}

// IsTerminal checks whether a state is terminal. With N states and T
// terminal states renumbered into the top of the range, a state is
// terminal exactly when its id is at least N-T.
func (f *FastFsm) IsTerminal(state StateId) bool {
	return int(state) >= len(f.states)-f.terminalCount
}

// Next follows a single transition.
func (f *FastFsm) Next(state StateId, letter Letter) (StateId, bool) {
	next, ok := f.states[state].transitions[letter]
	return next, ok
}

// Transitions returns the outgoing edges in ascending letter order.
func (f *FastFsm) Transitions(state StateId) []Transition {
	transitions := make([]Transition, 0, len(f.states[state].transitions))
	for letter, next := range f.states[state].transitions {
		transitions = append(transitions, Transition{Letter: letter, Next: next})
	}
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].Letter < transitions[j].Letter
	})
	return transitions
}

// StateCount returns the number of states.
func (f *FastFsm) StateCount() int {
	return len(f.states)
}

// TransitionCount returns the total number of transitions.
func (f *FastFsm) TransitionCount() int {
	count := 0
	for i := range f.states {
		count += len(f.states[i].transitions)
	}
	return count
}

// TerminalCount returns the number of terminal states.
func (f *FastFsm) TerminalCount() int {
	return f.terminalCount
}

// SmallFsm is the memory-optimised layout. States hold an index into
// a single packed transitions array; the edges of state i occupy the
// slice between the indices of states i and i+1. Transition lookup is
// a linear scan over at most the alphabet size.
type SmallFsm struct {
	// starts[i] is the index of the first transition of state i.
	starts        []uint32
	transitions   []Transition
	terminalCount int
}

// Initial returns the initial state.
func (f *SmallFsm) Initial() StateId {
	return 0
}

// IsTerminal checks whether a state is terminal.
func (f *SmallFsm) IsTerminal(state StateId) bool {
	return int(state) >= len(f.starts)-f.terminalCount
}

// transitionLimits returns the bounds of a state's slice of the
// packed transitions array.
func (f *SmallFsm) transitionLimits(state StateId) (int, int) {
	start := int(f.starts[state])
	end := len(f.transitions)
	if int(state)+1 < len(f.starts) {
		end = int(f.starts[state+1])
	}
	return start, end
}

// Next follows a single transition.
func (f *SmallFsm) Next(state StateId, letter Letter) (StateId, bool) {
	start, end := f.transitionLimits(state)
	for _, t := range f.transitions[start:end] {
		if t.Letter == letter {
			return t.Next, true
		}
	}
	return 0, false
}

// Transitions returns the outgoing edges in ascending letter order.
func (f *SmallFsm) Transitions(state StateId) []Transition {
	start, end := f.transitionLimits(state)
	transitions := make([]Transition, end-start)
	copy(transitions, f.transitions[start:end])
	return transitions
}

// StateCount returns the number of states.
func (f *SmallFsm) StateCount() int {
	return len(f.starts)
}

// TransitionCount returns the total number of transitions.
func (f *SmallFsm) TransitionCount() int {
	return len(f.transitions)
}

// TerminalCount returns the number of terminal states.
func (f *SmallFsm) TerminalCount() int {
	return f.terminalCount
}

// SmallFromFast converts to the compact layout. State ids are
// preserved, so the two automata accept the same language with the
// same state numbering.
func SmallFromFast(fast *FastFsm) *SmallFsm {
	starts := make([]uint32, len(fast.states))
	transitions := make([]Transition, 0, fast.TransitionCount())

	for i := range fast.states {
		starts[i] = uint32(len(transitions))
		transitions = append(transitions, fast.Transitions(StateId(i))...)
	}

	return &SmallFsm{
		starts:        starts,
		transitions:   transitions,
		terminalCount: fast.terminalCount,
	}
}

// FastFromSmall converts to the hashmap layout, preserving state ids.
func FastFromSmall(small *SmallFsm) *FastFsm {
	states := make([]fastState, small.StateCount())

	for i := range states {
		start, end := small.transitionLimits(StateId(i))
		transitions := make(map[Letter]StateId, end-start)
		for _, t := range small.transitions[start:end] {
			transitions[t.Letter] = t.Next
		}
		states[i] = fastState{transitions: transitions}
	}

	return &FastFsm{
		states:        states,
		terminalCount: small.terminalCount,
	}
}
