package engine

import "fmt"

// openingRing is the square at distance 3 from the centre, walked clockwise
// from its north-west corner.
var openingRing = buildOpeningRing(3)

func buildOpeningRing(radius int) [][2]int {
	lo, hi := Center-radius, Center+radius
	ring := make([][2]int, 0, 8*radius)
	for col := lo; col <= hi; col++ {
		ring = append(ring, [2]int{lo, col})
	}
	for row := lo + 1; row <= hi; row++ {
		ring = append(ring, [2]int{row, hi})
	}
	for col := hi - 1; col >= lo; col-- {
		ring = append(ring, [2]int{hi, col})
	}
	for row := hi - 1; row > lo; row-- {
		ring = append(ring, [2]int{row, lo})
	}
	return ring
}

// NewMove builds a move for player at an empty cell, recording every
// direction in which the placement captures.
func (m *MoveManager) NewMove(player Player, row, col int) *Move {
	if !InBounds(row, col) {
		panic(fmt.Errorf("%w: move at (%d,%d)", ErrOutOfBounds, row, col))
	}
	if player != White && player != Black {
		panic(fmt.Errorf("%w: %s", ErrNoPlayer, player))
	}
	if m.board.At(row, col) != Empty {
		panic(fmt.Errorf("%w: (%d,%d)", ErrOccupied, row, col))
	}
	var captures []Direction
	for _, d := range Directions {
		if m.capturesToward(player, row, col, d) {
			captures = append(captures, d)
		}
	}
	return newMove(player, row, col, captures)
}

// CandidateMoves enumerates the legal moves for player. The opening player is
// held to the centre on its first turn and to the distance-3 ring on its
// second; every other turn is left to the move policy.
func (m *MoveManager) CandidateMoves(player Player) []*Move {
	if player == OpeningPlayer {
		switch m.Turn(player) {
		case 1:
			if m.board.At(Center, Center) != Empty {
				return nil
			}
			return []*Move{m.NewMove(player, Center, Center)}
		case 2:
			moves := make([]*Move, 0, len(openingRing))
			for _, cell := range openingRing {
				if m.board.At(cell[0], cell[1]) == Empty {
					moves = append(moves, m.NewMove(player, cell[0], cell[1]))
				}
			}
			return moves
		}
	}
	return m.policy.Candidates(m, player)
}

// capturesToward reports whether placing player at the empty (row, col)
// brackets an enemy pair along d: enemy at offsets 1 and 2, own stone at 3.
func (m *MoveManager) capturesToward(player Player, row, col int, d Direction) bool {
	if m.board.At(row, col) != Empty {
		return false
	}
	r3, c3 := d.Step(row, col, 3)
	if !m.board.Holds(r3, c3, player) {
		return false
	}
	enemy := player.Opponent()
	r1, c1 := d.Step(row, col, 1)
	r2, c2 := d.Step(row, col, 2)
	return m.board.At(r1, c1) == enemy && m.board.At(r2, c2) == enemy
}

// IsWinningMove reports whether the applied move wins for its player, either
// through the capture count or through a line of five or more.
func (m *MoveManager) IsWinningMove(move *Move, captures int) bool {
	if captures >= CapturesToWin {
		return true
	}
	for _, axis := range Axes {
		count := 1
		count += m.countDirection(move, axis)
		count += m.countDirection(move, axis.Reverse())
		if count >= LineToWin {
			return true
		}
	}
	return false
}

func (m *MoveManager) HaveWeWon(move *Move) bool {
	if move.player != m.us {
		panic(fmt.Errorf("%w: our win check on %s", ErrWrongMover, move))
	}
	return m.IsWinningMove(move, m.ourCaptures)
}

func (m *MoveManager) HaveTheyWon(move *Move) bool {
	if move.player == m.us {
		panic(fmt.Errorf("%w: their win check on %s", ErrWrongMover, move))
	}
	return m.IsWinningMove(move, m.theirCaptures)
}

// IsTied must be checked after IsWinningMove: the move that fills the board
// can also complete a line.
func (m *MoveManager) IsTied() bool {
	return m.board.IsFull()
}

func (m *MoveManager) countDirection(start *Move, d Direction) int {
	dr, dc := d.Delta()
	row, col := start.row+dr, start.col+dc
	count := 0
	for m.board.Holds(row, col, start.player) {
		count++
		row += dr
		col += dc
	}
	return count
}
