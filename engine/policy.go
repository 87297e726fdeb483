package engine

import (
	"fmt"
	"sort"
)

const (
	PolicyAdjacent = "adjacent"
	PolicyScored   = "scored"

	DefaultScoredLimit = 10
)

// MovePolicy generates the candidates for turns outside the opening and
// decides how the root breaks ties between equal scores.
type MovePolicy interface {
	Name() string
	Candidates(m *MoveManager, player Player) []*Move
	// AcceptTies makes the root prefer the later of two equally scored moves.
	AcceptTies() bool
}

// AdjacentPolicy searches every empty cell touching a stone, in row-major order.
type AdjacentPolicy struct{}

func (AdjacentPolicy) Name() string {
	return PolicyAdjacent
}

func (AdjacentPolicy) AcceptTies() bool {
	return true
}

func (AdjacentPolicy) Candidates(m *MoveManager, player Player) []*Move {
	moves := []*Move{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if m.board.At(row, col) != Empty || !m.hasNeighbour(row, col) {
				continue
			}
			moves = append(moves, m.NewMove(player, row, col))
		}
	}
	if len(moves) == 0 && m.board.At(Center, Center) == Empty {
		moves = append(moves, m.NewMove(player, Center, Center))
	}
	return moves
}

// ScoredPolicy is the older generator: every empty cell, ordered by a one-ply
// static evaluation from the mover's point of view and clipped to Limit.
//
// Deprecated: kept for comparison runs; AdjacentPolicy is the default.
type ScoredPolicy struct {
	Limit int
}

func (ScoredPolicy) Name() string {
	return PolicyScored
}

func (ScoredPolicy) AcceptTies() bool {
	return false
}

func (p ScoredPolicy) Candidates(m *MoveManager, player Player) []*Move {
	type scored struct {
		move  *Move
		score Score
	}
	all := []scored{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if m.board.At(row, col) != Empty {
				continue
			}
			move := m.NewMove(player, row, col)
			m.Apply(move)
			score := m.Evaluate()
			m.Undo(move)
			all = append(all, scored{move: move, score: score})
		}
	}
	ours := player == m.us
	sort.SliceStable(all, func(i, j int) bool {
		if ours {
			return all[i].score > all[j].score
		}
		return all[i].score < all[j].score
	})
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultScoredLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	moves := make([]*Move, len(all))
	for i, s := range all {
		moves[i] = s.move
	}
	return moves
}

func PolicyByName(name string, limit int) (MovePolicy, error) {
	switch name {
	case "", PolicyAdjacent:
		return AdjacentPolicy{}, nil
	case PolicyScored:
		return ScoredPolicy{Limit: limit}, nil
	default:
		return nil, fmt.Errorf("unknown move policy %q", name)
	}
}

func (m *MoveManager) hasNeighbour(row, col int) bool {
	for _, d := range Directions {
		dr, dc := d.Delta()
		r, c := row+dr, col+dc
		if InBounds(r, c) && m.board.At(r, c) != Empty {
			return true
		}
	}
	return false
}
