// dict.go
//
// Copyright (C) 2024 The scrabble authors

// This file reads a dictionary word stream and compiles it into the
// shared, immutable automaton consumed by the rest of the engine.

package scrabble

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// LoadDictionary reads one word per line from the stream, trims
// surrounding whitespace, filters non-letter characters out of each
// word and skips empty results. The stream must be sorted: the words
// are fed straight into the builder.
func LoadDictionary(r io.Reader) (*FastFsm, error) {
	builder := NewFsmBuilder()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		word := cleanWord(scanner.Text())
		if len(word) == 0 {
			continue
		}
		if err := builder.Insert(word); err != nil {
			return nil, fmt.Errorf("dictionary line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}

	return builder.BuildFast(), nil
}

// CompileDictionary builds an automaton from an unsorted word list.
// Mostly useful for tests and tools; the server startup path streams
// a pre-sorted file through LoadDictionary instead.
func CompileDictionary(words []string) (*FastFsm, error) {
	cleaned := make([][]Letter, 0, len(words))
	for _, w := range words {
		if letters := cleanWord(w); len(letters) > 0 {
			cleaned = append(cleaned, letters)
		}
	}
	sort.Slice(cleaned, func(i, j int) bool {
		return lexCompare(cleaned[i], cleaned[j]) < 0
	})

	builder := NewFsmBuilder()
	for _, word := range cleaned {
		if err := builder.Insert(word); err != nil {
			return nil, err
		}
	}
	return builder.BuildFast(), nil
}

// cleanWord trims whitespace and drops every non-letter character.
func cleanWord(s string) []Letter {
	letters := make([]Letter, 0, len(s))
	for _, r := range strings.TrimSpace(s) {
		if letter, ok := LetterOf(r); ok {
			letters = append(letters, letter)
		}
	}
	return letters
}
