package engine

import "fmt"

const columnLetters = "ABCDEFGHJKLMNOPQRST"

// Move is a proposed placement. Everything but the applied flag is fixed when
// the move is created.
type Move struct {
	player   Player
	row      int
	col      int
	captures []Direction
	applied  bool
}

func newMove(player Player, row, col int, captures []Direction) *Move {
	if !InBounds(row, col) {
		panic(fmt.Errorf("%w: move at (%d,%d)", ErrOutOfBounds, row, col))
	}
	if player != White && player != Black {
		panic(fmt.Errorf("%w: %s", ErrNoPlayer, player))
	}
	return &Move{player: player, row: row, col: col, captures: captures}
}

func (m *Move) Player() Player {
	return m.player
}

func (m *Move) Row() int {
	return m.row
}

func (m *Move) Col() int {
	return m.col
}

// Captures returns the directions in which this move removes an enemy pair.
func (m *Move) Captures() []Direction {
	return append([]Direction(nil), m.captures...)
}

func (m *Move) CaptureCount() int {
	return len(m.captures)
}

func (m *Move) Applied() bool {
	return m.applied
}

// Notation renders the move as rank then column letter, e.g. "10K" for the centre.
func (m *Move) Notation() string {
	return Notation(m.row, m.col)
}

func (m *Move) String() string {
	return fmt.Sprintf("%s@%s", m.player, m.Notation())
}

func Notation(row, col int) string {
	if !InBounds(row, col) {
		return "??"
	}
	return fmt.Sprintf("%d%c", Size-row, columnLetters[col])
}

func ColumnLetters() string {
	return columnLetters
}
