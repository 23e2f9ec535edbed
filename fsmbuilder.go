// fsmbuilder.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the incremental construction of the minimal
// dictionary automaton: words are inserted in sorted order and a
// replace-or-register pass shares equivalent suffixes.

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
	"errors"
	"sort"
	"strings"
)

// buildState is a mutable state used during construction.
type buildState struct {
	terminal    bool
	transitions map[Letter]StateId
}

// lastTransition returns the greatest transition label, which is the
// most recently added edge since insertion happens in sorted order.
func (s *buildState) lastTransition() (Letter, bool) {
	found := false
	var max Letter
	for letter := range s.transitions {
		if !found || letter > max {
			max = letter
			found = true
		}
	}
	return max, found
}

// sortedTransitions returns the edge labels in ascending order, for
// deterministic fingerprints.
func (s *buildState) sortedTransitions() []Letter {
	letters := make([]Letter, 0, len(s.transitions))
	for letter := range s.transitions {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// FsmBuilder constructs a minimal deterministic automaton from a
// sorted word list. Use Insert for each word, then BuildFast or
// BuildSmall exactly once.
type FsmBuilder struct {
	states map[StateId]*buildState
	// register maps a structural fingerprint to the state that
	// represents every subtree with that shape.
	register map[string]StateId
	// positionStack is the state path of the previous word, rooted
	// at the initial state.
	positionStack []StateId
	previous      []Letter
	nextId        StateId
}

// NewFsmBuilder returns a builder holding only the initial state.
func NewFsmBuilder() *FsmBuilder {
	root := &buildState{transitions: make(map[Letter]StateId)}
	return &FsmBuilder{
		states:        map[StateId]*buildState{0: root},
		register:      make(map[string]StateId),
		positionStack: []StateId{0},
		nextId:        1,
	}
}

// Insert adds a word. Words must arrive in non-decreasing
// lexicographic order; duplicates are tolerated.
func (b *FsmBuilder) Insert(word []Letter) error {
	if len(word) == 0 {
		return errors.New("cannot insert the empty word")
	}
	if lexCompare(word, b.previous) < 0 {
		return errors.New("words must be inserted in sorted order")
	}

	prefixLen := commonPrefixLen(b.previous, word)

	// Walk back to the deepest shared state, minimising everything
	// below it: those states can no longer gain transitions.
	b.positionStack = b.positionStack[:prefixLen+1]
	lastStateId := b.positionStack[prefixLen]

	b.replaceOrRegister(lastStateId)
	b.addSuffix(lastStateId, word[prefixLen:])

	b.previous = append(b.previous[:0], word...)
	return nil
}

// BuildFast finishes construction and packs the automaton into the
// hashmap layout. The initial state must be non-terminal: the empty
// string is not a word.
func (b *FsmBuilder) BuildFast() *FastFsm {
	b.replaceOrRegister(0)

	if b.states[0].terminal {
		panic("initial state must be non-terminal")
	}

	// Partition the states so that terminals occupy a contiguous
	// suffix of the id range, keeping the initial state at 0.
	terminalCount := 0
	for _, state := range b.states {
		if state.terminal {
			terminalCount++
		}
	}
	nonTerminalCount := len(b.states) - terminalCount

	idMap := make(map[StateId]StateId, len(b.states))
	idMap[0] = 0

	// Old ids are handed out in insertion order; renumber them in
	// sorted order so the packing is deterministic.
	oldIds := make([]StateId, 0, len(b.states))
	for id := range b.states {
		if id != 0 {
			oldIds = append(oldIds, id)
		}
	}
	sort.Slice(oldIds, func(i, j int) bool { return oldIds[i] < oldIds[j] })

	nextNonTerminal := StateId(1)
	nextTerminal := StateId(nonTerminalCount)
	for _, id := range oldIds {
		if b.states[id].terminal {
			idMap[id] = nextTerminal
			nextTerminal++
		} else {
			idMap[id] = nextNonTerminal
			nextNonTerminal++
		}
	}

	states := make([]fastState, len(b.states))
	for oldId, state := range b.states {
		transitions := make(map[Letter]StateId, len(state.transitions))
		for letter, next := range state.transitions {
			transitions[letter] = idMap[next]
		}
		states[idMap[oldId]] = fastState{transitions: transitions}
	}

	return &FastFsm{states: states, terminalCount: terminalCount}
}

// BuildSmall finishes construction in the compact layout.
func (b *FsmBuilder) BuildSmall() *SmallFsm {
	return SmallFromFast(b.BuildFast())
}

// addSuffix grows a fresh branch of states below the given state and
// marks the last one terminal.
func (b *FsmBuilder) addSuffix(from StateId, suffix []Letter) {
	curr := from
	for _, letter := range suffix {
		id := b.nextId
		b.nextId++
		b.states[id] = &buildState{transitions: make(map[Letter]StateId)}
		b.states[curr].transitions[letter] = id
		curr = id
		b.positionStack = append(b.positionStack, id)
	}
	b.states[curr].terminal = true
}

// replaceOrRegister minimises the most recent branch below the given
// state, bottom-up. Each candidate is fingerprinted; when the register
// already holds an equivalent state the parent's edge is redirected to
// it and the candidate discarded, otherwise the candidate is
// registered.
func (b *FsmBuilder) replaceOrRegister(stateId StateId) {
	state := b.states[stateId]
	childLabel, ok := state.lastTransition()
	if !ok {
		return
	}
	childId := state.transitions[childLabel]
	b.replaceOrRegister(childId)

	fingerprint := b.fingerprint(childId)
	if existing, ok := b.register[fingerprint]; ok {
		state.transitions[childLabel] = existing
		delete(b.states, childId)
	} else {
		b.register[fingerprint] = childId
	}
}

// fingerprint computes a structural hash of a state: its terminal
// flag plus, for each outgoing letter in order, the fingerprint of
// the target. Identical subtrees serialise identically, which is
// exactly the equivalence the register needs.
func (b *FsmBuilder) fingerprint(stateId StateId) string {
	var sb strings.Builder
	b.writeFingerprint(stateId, &sb)
	return sb.String()
}

func (b *FsmBuilder) writeFingerprint(stateId StateId, sb *strings.Builder) {
	state := b.states[stateId]
	if state.terminal {
		sb.WriteByte('Y')
	} else {
		sb.WriteByte('N')
	}
	sb.WriteByte('[')
	for _, letter := range state.sortedTransitions() {
		sb.WriteRune(letter.Rune())
		sb.WriteByte('[')
		b.writeFingerprint(state.transitions[letter], sb)
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
}

// commonPrefixLen returns the length of the longest common prefix.
func commonPrefixLen(a, b []Letter) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// lexCompare orders letter sequences lexicographically.
func lexCompare(a, b []Letter) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
