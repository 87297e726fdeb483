package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"pente/engine"
)

// ParseNotation turns "10K" back into (9, 9). Column letters are case
// insensitive; 'I' is never valid.
func ParseNotation(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("notation %q: too short", s)
	}
	letter := strings.ToUpper(s[len(s)-1:])
	col := strings.Index(engine.ColumnLetters(), letter)
	if col < 0 {
		return 0, 0, fmt.Errorf("notation %q: unknown column %q", s, letter)
	}
	rank, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("notation %q: rank: %w", s, err)
	}
	if rank < 1 || rank > engine.Size {
		return 0, 0, fmt.Errorf("notation %q: rank out of range", s)
	}
	return engine.Size - rank, col, nil
}
