// fsm_test.go
//
// Copyright (C) 2024 The scrabble authors

// Tests for the dictionary automaton: construction, minimisation,
// the two layouts and their interchangeability.

package scrabble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFsm(t *testing.T, words ...string) *FastFsm {
	t.Helper()
	fsm, err := CompileDictionary(words)
	require.NoError(t, err)
	return fsm
}

func TestAccepts(t *testing.T) {
	fsm := buildFsm(t, "ABADE", "ABIDE", "A", "COLLECT", "COLLECTION")

	assert.True(t, Accepts(fsm, "A"))
	assert.True(t, Accepts(fsm, "ABIDE"))
	assert.True(t, Accepts(fsm, "ABADE"))
	assert.True(t, Accepts(fsm, "COLLECT"))
	assert.True(t, Accepts(fsm, "COLLECTION"))

	assert.False(t, Accepts(fsm, "ABADF"))
	assert.False(t, Accepts(fsm, "COLLECTI"))
	assert.False(t, Accepts(fsm, "AB"))
	assert.False(t, Accepts(fsm, ""))
	assert.False(t, Accepts(fsm, "Z"))
}

func TestAcceptsExactLexicon(t *testing.T) {
	words := []string{"BAT", "BATMAN", "BATS", "CAT", "CATS"}
	fsm := buildFsm(t, words...)

	for _, w := range words {
		assert.True(t, Accepts(fsm, w), w)
	}
	for _, w := range []string{"BATMA", "ZZZZZ", "CATSS", "B"} {
		assert.False(t, Accepts(fsm, w), w)
	}
	// lowercase input maps onto the same letters
	assert.True(t, Accepts(fsm, "bat"))
}

func TestTransitions(t *testing.T) {
	fsm := buildFsm(t, "BAT", "BATMAN", "BATS", "CAT", "CATS")

	transitionCount := func(prefix string) int {
		letters, ok := WordLetters(prefix)
		require.True(t, ok)
		state, ok := Traverse(fsm, letters)
		require.True(t, ok, prefix)
		return len(fsm.Transitions(state))
	}

	assert.Equal(t, 2, transitionCount(""))       // B, C
	assert.Equal(t, 2, transitionCount("BAT"))    // M, S
	assert.Equal(t, 0, transitionCount("BATMAN")) // leaf
	// transitions come back in ascending letter order
	ts := fsm.Transitions(fsm.Initial())
	require.Len(t, ts, 2)
	assert.True(t, ts[0].Letter < ts[1].Letter)
}

func TestMinimisationSharesSuffixes(t *testing.T) {
	// BATS and CATS share the -S suffix state; BAT/CAT share their
	// terminal-with-S-edge state. The automaton must be smaller than
	// the raw trie (9 states).
	fsm := buildFsm(t, "BAT", "BATS", "CAT", "CATS")
	assert.Less(t, fsm.StateCount(), 9)

	lettersBATS, _ := WordLetters("BATS")
	lettersCATS, _ := WordLetters("CATS")
	endB, okB := Traverse(fsm, lettersBATS)
	endC, okC := Traverse(fsm, lettersCATS)
	require.True(t, okB)
	require.True(t, okC)
	assert.Equal(t, endB, endC, "identical suffix subtrees should share a state")
}

func TestTerminalLayout(t *testing.T) {
	fsm := buildFsm(t, "BAT", "BATMAN", "BATS", "CAT", "CATS")

	assert.False(t, fsm.IsTerminal(fsm.Initial()))

	// every word ends in the terminal suffix of the id range
	boundary := fsm.StateCount() - fsm.TerminalCount()
	for _, w := range []string{"BAT", "BATMAN", "BATS", "CAT", "CATS"} {
		letters, _ := WordLetters(w)
		state, ok := Traverse(fsm, letters)
		require.True(t, ok)
		assert.GreaterOrEqual(t, int(state), boundary, w)
	}
	// a strict prefix ends below it
	letters, _ := WordLetters("BATMA")
	state, ok := Traverse(fsm, letters)
	require.True(t, ok)
	assert.Less(t, int(state), boundary)
}

func TestLayoutConversion(t *testing.T) {
	words := []string{"BAT", "BATMAN", "BATS", "CAT", "CATS"}
	fast := buildFsm(t, words...)

	small := SmallFromFast(fast)
	assert.Equal(t, fast.StateCount(), small.StateCount())
	assert.Equal(t, fast.TransitionCount(), small.TransitionCount())
	assert.Equal(t, fast.TerminalCount(), small.TerminalCount())

	roundtrip := FastFromSmall(small)
	assert.Equal(t, fast.StateCount(), roundtrip.StateCount())
	assert.Equal(t, fast.TransitionCount(), roundtrip.TransitionCount())

	// both layouts accept the same language
	for _, w := range words {
		assert.True(t, Accepts(small, w), w)
		assert.True(t, Accepts(roundtrip, w), w)
	}
	for _, w := range []string{"BA", "CATSS", "DOG"} {
		assert.False(t, Accepts(small, w), w)
		assert.False(t, Accepts(roundtrip, w), w)
	}
}

func TestBuilderRejectsUnsortedInput(t *testing.T) {
	builder := NewFsmBuilder()
	letters := func(w string) []Letter {
		ls, ok := WordLetters(w)
		require.True(t, ok)
		return ls
	}

	require.NoError(t, builder.Insert(letters("CAT")))
	assert.Error(t, builder.Insert(letters("BAT")))
	assert.Error(t, builder.Insert(nil))
	require.NoError(t, builder.Insert(letters("CATS")))
}

func TestLoadDictionary(t *testing.T) {
	input := " apple \nbanana\n\nch-erry\n  \ndate\n"
	fsm, err := LoadDictionary(strings.NewReader(input))
	require.NoError(t, err)

	assert.True(t, Accepts(fsm, "APPLE"))
	assert.True(t, Accepts(fsm, "BANANA"))
	assert.True(t, Accepts(fsm, "CHERRY"), "non-letter characters are filtered")
	assert.True(t, Accepts(fsm, "DATE"))
	assert.False(t, Accepts(fsm, "FIG"))

	_, err = LoadDictionary(strings.NewReader("zebra\napple\n"))
	assert.Error(t, err, "unsorted input must surface")
}
