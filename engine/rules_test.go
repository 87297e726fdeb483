package engine

import (
	"reflect"
	"testing"
)

func TestCaptureRemovesBracketedPair(t *testing.T) {
	mm := newTestManager(t, White, 5, []stone{
		{9, 10, Black}, {9, 11, Black}, {9, 12, White},
		{8, 9, Black},
	})
	move := mm.NewMove(White, 9, 9)
	if !reflect.DeepEqual(move.Captures(), []Direction{E}) {
		t.Fatalf("expected a single capture to the east, got %v", move.Captures())
	}
	mm.Apply(move)
	board := mm.Board()
	if board.At(9, 10) != Empty || board.At(9, 11) != Empty {
		t.Fatalf("expected captured pair to be removed")
	}
	if board.At(9, 12) != White || board.At(8, 9) != Black || board.At(9, 9) != White {
		t.Fatalf("expected the rest of the board to be untouched")
	}
	if mm.Captures(White) != 1 {
		t.Fatalf("expected 1 capture for white, got %d", mm.Captures(White))
	}
}

func TestCaptureInSeveralDirections(t *testing.T) {
	mm := newTestManager(t, Black, 6, []stone{
		{9, 10, White}, {9, 11, White}, {9, 12, Black},
		{10, 9, White}, {11, 9, White}, {12, 9, Black},
		{8, 8, White}, {7, 7, White}, {6, 6, Black},
	})
	move := mm.NewMove(Black, 9, 9)
	if !reflect.DeepEqual(move.Captures(), []Direction{E, S, NW}) {
		t.Fatalf("expected captures E,S,NW, got %v", move.Captures())
	}
	mm.Apply(move)
	if mm.Captures(Black) != 3 {
		t.Fatalf("expected 3 captures, got %d", mm.Captures(Black))
	}
	board := mm.Board()
	if board.Count(White) != 0 {
		t.Fatalf("expected every white stone to be captured, %d left", board.Count(White))
	}
}

func TestIncompletePatternsDoNotCapture(t *testing.T) {
	tests := []struct {
		name   string
		stones []stone
		row    int
		col    int
	}{
		{"no anchor", []stone{{9, 10, Black}, {9, 11, Black}}, 9, 9},
		{"enemy anchor", []stone{{9, 10, Black}, {9, 11, Black}, {9, 12, Black}}, 9, 9},
		{"single enemy", []stone{{9, 10, Black}, {9, 12, White}}, 9, 9},
		{"gap before pair", []stone{{9, 11, Black}, {9, 12, Black}, {9, 13, White}}, 9, 9},
		{"own stone in pair", []stone{{9, 10, White}, {9, 11, Black}, {9, 12, White}}, 9, 9},
		{"anchor off board", []stone{{9, 17, Black}, {9, 18, Black}}, 9, 16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mm := newTestManager(t, White, 5, tc.stones)
			move := mm.NewMove(White, tc.row, tc.col)
			if move.CaptureCount() != 0 {
				t.Fatalf("expected no capture, got %v", move.Captures())
			}
		})
	}
}

func TestNewMoveOnOccupiedCellPanics(t *testing.T) {
	mm := newTestManager(t, White, 5, []stone{{3, 3, Black}})
	expectPanic(t, ErrOccupied, func() { mm.NewMove(White, 3, 3) })
	expectPanic(t, ErrOutOfBounds, func() { mm.NewMove(White, 19, 0) })
	expectPanic(t, ErrNoPlayer, func() { mm.NewMove(Empty, 4, 4) })
}

func TestOpeningFirstTurnIsCentre(t *testing.T) {
	mm := newTestManager(t, White, 1, nil)
	moves := mm.CandidateMoves(White)
	if len(moves) != 1 {
		t.Fatalf("expected exactly one opening move, got %d", len(moves))
	}
	if moves[0].Row() != Center || moves[0].Col() != Center {
		t.Fatalf("expected the centre, got %s", moves[0].Notation())
	}
	if moves[0].Notation() != "10K" {
		t.Fatalf("expected notation 10K, got %s", moves[0].Notation())
	}
}

func TestOpeningSecondTurnIsRing(t *testing.T) {
	mm := newTestManager(t, White, 2, []stone{
		{9, 9, White}, {9, 10, Black}, {6, 8, Black},
	})
	moves := mm.CandidateMoves(White)
	if len(moves) != 23 {
		t.Fatalf("expected 23 ring moves, got %d", len(moves))
	}
	for _, m := range moves {
		dr, dc := m.Row()-Center, m.Col()-Center
		if max(abs(dr), abs(dc)) != 3 {
			t.Fatalf("expected every move on the distance-3 ring, got (%d,%d)", m.Row(), m.Col())
		}
	}
	if findMove(moves, 6, 8) != nil {
		t.Fatalf("expected the occupied ring cell to be skipped")
	}
	want := [][2]int{{6, 6}, {6, 7}, {6, 9}}
	for i, cell := range want {
		if moves[i].Row() != cell[0] || moves[i].Col() != cell[1] {
			t.Fatalf("expected move %d at %v, got (%d,%d)", i, cell, moves[i].Row(), moves[i].Col())
		}
	}
	// Right edge runs north to south, bottom edge east to west, left edge south to north.
	last := moves[len(moves)-1]
	if last.Row() != 7 || last.Col() != 6 {
		t.Fatalf("expected the walk to end at (7,6), got (%d,%d)", last.Row(), last.Col())
	}
	if idx := indexOf(moves, 12, 12); idx < 0 || moves[idx+1].Row() != 12 || moves[idx+1].Col() != 11 {
		t.Fatalf("expected the bottom edge to run east to west after (12,12)")
	}
}

func TestOpeningDoesNotBindSecondPlayer(t *testing.T) {
	mm := newTestManager(t, Black, 1, []stone{{9, 9, White}})
	if mm.Turn(White) != 2 {
		t.Fatalf("expected white to be on its second turn, got %d", mm.Turn(White))
	}
	moves := mm.CandidateMoves(Black)
	if len(moves) != 8 {
		t.Fatalf("expected the 8 neighbours of the centre, got %d", len(moves))
	}
}

func TestAdjacentCandidatesOnEmptyBoardFallBackToCentre(t *testing.T) {
	mm := newTestManager(t, Black, 3, nil)
	moves := mm.CandidateMoves(Black)
	if len(moves) != 1 || moves[0].Row() != Center || moves[0].Col() != Center {
		t.Fatalf("expected the centre as the only candidate, got %d moves", len(moves))
	}
}

func TestAdjacentCandidatesAreRowMajor(t *testing.T) {
	mm := newTestManager(t, White, 4, []stone{{0, 0, Black}, {18, 18, White}})
	moves := mm.CandidateMoves(White)
	want := [][2]int{{0, 1}, {1, 0}, {1, 1}, {17, 17}, {17, 18}, {18, 17}}
	if len(moves) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(moves))
	}
	for i, cell := range want {
		if moves[i].Row() != cell[0] || moves[i].Col() != cell[1] {
			t.Fatalf("expected candidate %d at %v, got (%d,%d)", i, cell, moves[i].Row(), moves[i].Col())
		}
	}
}

func TestWinningLineLengths(t *testing.T) {
	tests := []struct {
		name string
		line [][2]int
		move [2]int
		want bool
	}{
		{"four", [][2]int{{9, 9}, {9, 10}, {9, 11}}, [2]int{9, 8}, false},
		{"five", [][2]int{{9, 9}, {9, 10}, {9, 11}, {9, 12}}, [2]int{9, 8}, true},
		{"six", [][2]int{{9, 7}, {9, 9}, {9, 10}, {9, 11}, {9, 12}}, [2]int{9, 8}, true},
		{"five vertical", [][2]int{{4, 8}, {5, 8}, {6, 8}, {7, 8}}, [2]int{8, 8}, true},
		{"five diagonal", [][2]int{{4, 3}, {5, 4}, {6, 5}, {7, 6}}, [2]int{8, 7}, true},
		{"five anti-diagonal", [][2]int{{12, 5}, {11, 6}, {10, 7}, {8, 9}}, [2]int{9, 8}, true},
		{"broken", [][2]int{{9, 9}, {9, 10}, {9, 12}, {9, 13}}, [2]int{9, 14}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stones := []stone{}
			for _, cell := range tc.line {
				stones = append(stones, stone{cell[0], cell[1], White})
			}
			mm := newTestManager(t, White, 8, stones)
			move := mm.NewMove(White, tc.move[0], tc.move[1])
			mm.Apply(move)
			if got := mm.IsWinningMove(move, 0); got != tc.want {
				t.Fatalf("expected win=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestCaptureThresholdWins(t *testing.T) {
	mm := newTestManager(t, White, 8, []stone{{0, 0, Black}})
	move := mm.NewMove(White, 18, 18)
	mm.Apply(move)
	if !mm.IsWinningMove(move, CapturesToWin) {
		t.Fatalf("expected %d captures to win", CapturesToWin)
	}
	if mm.IsWinningMove(move, CapturesToWin-1) {
		t.Fatalf("expected %d captures not to win", CapturesToWin-1)
	}
}

func TestCaptureReachingThresholdWins(t *testing.T) {
	pos := Position{ToMove: White, Turn: 12, CapturedWhite: 8}
	pos.Board.Set(5, 5, White)
	pos.Board.Set(5, 6, Black)
	pos.Board.Set(5, 7, Black)
	mm, err := NewMoveManager(pos)
	if err != nil {
		t.Fatalf("NewMoveManager: %v", err)
	}
	move := mm.NewMove(White, 5, 8)
	mm.Apply(move)
	if !mm.HaveWeWon(move) {
		t.Fatalf("expected the fifth capture to win")
	}
}

func TestWinCheckAssertsMover(t *testing.T) {
	mm := newTestManager(t, White, 8, []stone{{0, 0, Black}})
	ours := mm.NewMove(White, 10, 10)
	mm.Apply(ours)
	expectPanic(t, ErrWrongMover, func() { mm.HaveTheyWon(ours) })
	theirs := mm.NewMove(Black, 11, 11)
	mm.Apply(theirs)
	expectPanic(t, ErrWrongMover, func() { mm.HaveWeWon(theirs) })
}

func TestFullBoardIsTied(t *testing.T) {
	pos := Position{ToMove: White, Turn: 100}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := White
			if (row/2+col)%2 == 0 {
				p = Black
			}
			pos.Board.Set(row, col, p)
		}
	}
	pos.Board.Remove(0, 0)
	mm, err := NewMoveManager(pos)
	if err != nil {
		t.Fatalf("NewMoveManager: %v", err)
	}
	if mm.IsTied() {
		t.Fatalf("expected a board with one empty cell not to be tied")
	}
	move := mm.NewMove(White, 0, 0)
	mm.Apply(move)
	if !mm.IsTied() {
		t.Fatalf("expected a full board to be tied")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func indexOf(moves []*Move, row, col int) int {
	for i, m := range moves {
		if m.Row() == row && m.Col() == col {
			return i
		}
	}
	return -1
}
