// pos_test.go
//
// Copyright (C) 2024 The scrabble authors

// Tests for positions, rotations and the premium pattern.

package scrabble

import "testing"

// The standard premium pattern, written out row by row, to check the
// derived pattern against. '1'..'3' are the multiplier values.
var wordMultipliers = [BoardSize]string{
	"311111131111113",
	"121111111111121",
	"112111111111211",
	"111211111112111",
	"111121111121111",
	"111111111111111",
	"111111111111111",
	"311111121111113",
	"111111111111111",
	"111111111111111",
	"111121111121111",
	"111211111112111",
	"112111111111211",
	"121111111111121",
	"311111131111113",
}

var letterMultipliers = [BoardSize]string{
	"111211111112111",
	"111113111311111",
	"111111212111111",
	"211111121111112",
	"111111111111111",
	"131113111311131",
	"112111212111211",
	"111211111112111",
	"112111212111211",
	"131113111311131",
	"111111111111111",
	"211111121111112",
	"111111212111111",
	"111113111311111",
	"111211111112111",
}

func TestPremiumPattern(t *testing.T) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := PosAt(row, col)
			tileM, wordM := pos.Multipliers()

			wantWord := int(wordMultipliers[row][col] - '0')
			wantTile := int(letterMultipliers[row][col] - '0')

			if wordM != wantWord {
				t.Errorf("word multiplier at %v = %d, want %d", pos, wordM, wantWord)
			}
			if tileM != wantTile {
				t.Errorf("tile multiplier at %v = %d, want %d", pos, tileM, wantTile)
			}
		}
	}
}

func TestStartSquare(t *testing.T) {
	if !StartPos.IsStart() {
		t.Error("StartPos should be the start square")
	}
	if StartPos.Row() != 7 || StartPos.Col() != 7 {
		t.Errorf("start square at (%d,%d)", StartPos.Row(), StartPos.Col())
	}
	if StartPos.Premium() != Start {
		t.Errorf("start square premium = %v", StartPos.Premium())
	}
	if got := StartPos.Premium().WordMultiplier(); got != 2 {
		t.Errorf("start word multiplier = %d, want 2", got)
	}
}

func TestRotationInverse(t *testing.T) {
	for i := 0; i < BoardCells; i++ {
		pos := Pos(i)
		if got := pos.AntiClockwise90().Clockwise90(); got != pos {
			t.Errorf("anti+clockwise of %v = %v", pos, got)
		}
		if got := pos.Clockwise90().AntiClockwise90(); got != pos {
			t.Errorf("clockwise+anti of %v = %v", pos, got)
		}
	}
	// the centre is fixed under rotation
	if StartPos.AntiClockwise90() != StartPos {
		t.Error("centre square should be fixed under rotation")
	}
}

func TestMakePosReduces(t *testing.T) {
	cases := []struct {
		in   int
		want Pos
	}{
		{0, 0},
		{224, 224},
		{225, 0},
		{226, 1},
		{-1, 224},
	}
	for _, c := range cases {
		if got := MakePos(c.in); got != c.want {
			t.Errorf("MakePos(%d) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if _, ok := PosAt(0, 0).Offset(North); ok {
		t.Error("north of the top row is off the board")
	}
	if _, ok := PosAt(14, 14).Offset(East); ok {
		t.Error("east of the rightmost column is off the board")
	}
	if got, ok := StartPos.Offset(East); !ok || got != PosAt(7, 8) {
		t.Errorf("east of start = %v", got)
	}
	if got, ok := StartPos.Offset(North); !ok || got != PosAt(6, 7) {
		t.Errorf("north of start = %v", got)
	}
}
