package engine

import (
	"errors"
	"testing"
)

type stone struct {
	row, col int
	player   Player
}

func newTestManager(t *testing.T, toMove Player, turn int, stones []stone, opts ...Option) *MoveManager {
	t.Helper()
	pos := Position{ToMove: toMove, Turn: turn}
	for _, s := range stones {
		pos.Board.Set(s.row, s.col, s.player)
	}
	mm, err := NewMoveManager(pos, opts...)
	if err != nil {
		t.Fatalf("NewMoveManager: %v", err)
	}
	return mm
}

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		recovered := recover()
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic wrapping %v, got %v", target, recovered)
		}
	}()
	fn()
}

func findMove(moves []*Move, row, col int) *Move {
	for _, m := range moves {
		if m.Row() == row && m.Col() == col {
			return m
		}
	}
	return nil
}
