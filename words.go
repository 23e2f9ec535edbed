// words.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements word boundary extraction from a bitboard:
// pairing the starts and ends of maximal runs, and filtering down
// to the runs affected by a placement.

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

// WordBoundary is the inclusive (start, end) span of one maximal
// horizontal run of occupied squares. For vertical words the span is
// expressed in the rotated occupancy, where vertical words also read
// left to right.
type WordBoundary struct {
	start, end Pos
}

// Start returns the first position of the word.
func (w WordBoundary) Start() Pos {
	return w.start
}

// End returns the last position of the word.
func (w WordBoundary) End() Pos {
	return w.end
}

// Contains checks start <= pos <= end.
func (w WordBoundary) Contains(pos Pos) bool {
	return w.start <= pos && pos <= w.end
}

// Len returns the number of squares spanned.
func (w WordBoundary) Len() int {
	return int(w.end-w.start) + 1
}

// Positions returns the spanned positions in order. A span never
// crosses a row, so the positions are consecutive.
func (w WordBoundary) Positions() []Pos {
	positions := make([]Pos, 0, w.Len())
	for p := w.start; p <= w.end; p++ {
		positions = append(positions, p)
	}
	return positions
}

// WordBoundaries iterates over the (start, end) spans of the maximal
// horizontal runs of at least two squares in a bitboard, in ascending
// start order. The underlying bit iterator yields boundary squares in
// ascending order, and starts and ends alternate along each row, so
// consuming the bits in pairs produces the spans directly.
type WordBoundaries struct {
	bits Bits
}

// NewWordBoundaries returns an iterator over the word spans of the
// occupancy. For vertical words, pass the rotated occupancy.
func NewWordBoundaries(occ BitBoard) WordBoundaries {
	return WordBoundaries{bits: occ.wordBoundariesH().Bits()}
}

// Next returns the next word span, or false when done.
func (wb *WordBoundaries) Next() (WordBoundary, bool) {
	start, ok := wb.bits.Next()
	if !ok {
		return WordBoundary{}, false
	}
	end, ok := wb.bits.Next()
	if !ok {
		// starts and ends always pair up on a well-formed occupancy
		return WordBoundary{}, false
	}
	return WordBoundary{start: start, end: end}, true
}

// newWordBoundaries returns the word spans of occ that contain at
// least one bit of the new-tiles board. The span iterator and the
// new-tile bit cursor advance in lockstep, both in ascending order.
func newWordBoundaries(occ, newTiles BitBoard) []WordBoundary {
	var spans []WordBoundary

	wb := NewWordBoundaries(occ)
	span, haveSpan := wb.Next()

	bits := newTiles.Bits()
	cur, haveCur := bits.Next()

	for haveSpan && haveCur {
		switch {
		case cur > span.end:
			span, haveSpan = wb.Next()
		case span.Contains(cur):
			spans = append(spans, span)
			for haveCur && cur <= span.end {
				cur, haveCur = bits.Next()
			}
			span, haveSpan = wb.Next()
		default:
			// The new tile sits before the current span: it forms no
			// run of two in this direction, so it only scores in the
			// perpendicular direction.
			cur, haveCur = bits.Next()
		}
	}

	return spans
}
