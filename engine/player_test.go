package engine

import (
	"errors"
	"testing"
)

func TestOpponentIsInvolution(t *testing.T) {
	for _, p := range []Player{White, Black} {
		if p.Opponent() == p {
			t.Fatalf("expected %s to have a different opponent", p)
		}
		if p.Opponent().Opponent() != p {
			t.Fatalf("expected opponent of opponent of %s to be itself", p)
		}
	}
}

func TestOpponentOfEmptyPanics(t *testing.T) {
	expectPanic(t, ErrNoOpponent, func() { _ = Empty.Opponent() })
}

func TestLabelsAreBijective(t *testing.T) {
	seen := map[string]Player{}
	for _, p := range []Player{Empty, White, Black} {
		label := p.Label()
		if other, dup := seen[label]; dup {
			t.Fatalf("label %q shared by %s and %s", label, p, other)
		}
		seen[label] = p
		parsed, err := ParseLabel(label)
		if err != nil {
			t.Fatalf("ParseLabel(%q): %v", label, err)
		}
		if parsed != p {
			t.Fatalf("expected %q to parse to %s, got %s", label, p, parsed)
		}
	}
}

func TestParseLabelRejectsUnknown(t *testing.T) {
	for _, label := range []string{"x", "W", "", "ww"} {
		if _, err := ParseLabel(label); !errors.Is(err, ErrUnknownLabel) {
			t.Fatalf("expected ErrUnknownLabel for %q, got %v", label, err)
		}
	}
}

func TestParsePlayer(t *testing.T) {
	if p, err := ParsePlayer("WHITE"); err != nil || p != White {
		t.Fatalf("expected WHITE, got %s (%v)", p, err)
	}
	if p, err := ParsePlayer("BLACK"); err != nil || p != Black {
		t.Fatalf("expected BLACK, got %s (%v)", p, err)
	}
	if _, err := ParsePlayer("EMPTY"); err == nil {
		t.Fatalf("expected EMPTY to be rejected as a side to move")
	}
}
