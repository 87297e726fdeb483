package engine

import "fmt"

const (
	CapturesToWin = 5
	LineToWin     = 5
)

// Position is a parsed snapshot: the grid, the side asked to move and the
// counters carried between invocations. Captures are counted in stones
// removed, the way the text format stores them.
type Position struct {
	Board         Board
	ToMove        Player
	CapturedWhite int
	CapturedBlack int
	Turn          int
}

// MoveManager owns the live game state for one search. It is mutated in place
// through Apply/Undo pairs and never copied.
type MoveManager struct {
	board         Board
	us            Player
	ourCaptures   int
	theirCaptures int
	ourTurn       int
	theirTurn     int
	applied       []*Move
	policy        MovePolicy
	weights       Weights
}

type Option func(*MoveManager)

func WithPolicy(policy MovePolicy) Option {
	return func(m *MoveManager) {
		if policy != nil {
			m.policy = policy
		}
	}
}

func WithWeights(weights Weights) Option {
	return func(m *MoveManager) {
		m.weights = weights
	}
}

func NewMoveManager(pos Position, opts ...Option) (*MoveManager, error) {
	if pos.ToMove != White && pos.ToMove != Black {
		return nil, fmt.Errorf("%w: side to move is %s", ErrNoPlayer, pos.ToMove)
	}
	if pos.Turn < 1 {
		return nil, fmt.Errorf("turn must be at least 1, got %d", pos.Turn)
	}
	if pos.CapturedWhite < 0 || pos.CapturedBlack < 0 {
		return nil, fmt.Errorf("captures must be non-negative, got %d,%d", pos.CapturedWhite, pos.CapturedBlack)
	}
	m := &MoveManager{
		board:   pos.Board,
		us:      pos.ToMove,
		policy:  AdjacentPolicy{},
		weights: DefaultWeights(),
	}
	whitePairs := pos.CapturedWhite / 2
	blackPairs := pos.CapturedBlack / 2
	if pos.ToMove == White {
		m.ourTurn = pos.Turn
		m.theirTurn = pos.Turn
		m.ourCaptures = whitePairs
		m.theirCaptures = blackPairs
	} else {
		// White has already played its move of this ordinal.
		m.ourTurn = pos.Turn
		m.theirTurn = pos.Turn + 1
		m.ourCaptures = blackPairs
		m.theirCaptures = whitePairs
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *MoveManager) Us() Player {
	return m.us
}

func (m *MoveManager) Policy() MovePolicy {
	return m.policy
}

func (m *MoveManager) Weights() Weights {
	return m.weights
}

// Board returns a copy of the current grid.
func (m *MoveManager) Board() Board {
	return m.board
}

// Captures returns the pairs taken so far by p.
func (m *MoveManager) Captures(p Player) int {
	if p == m.us {
		return m.ourCaptures
	}
	if p == m.us.Opponent() {
		return m.theirCaptures
	}
	return 0
}

// Turn returns the ordinal of p's next move.
func (m *MoveManager) Turn(p Player) int {
	if p == m.us {
		return m.ourTurn
	}
	return m.theirTurn
}

// Depth is the number of moves currently applied on top of the snapshot.
func (m *MoveManager) Depth() int {
	return len(m.applied)
}

// Position exports the live state as a snapshot for toMove.
func (m *MoveManager) Position(toMove Player) Position {
	pos := Position{
		Board:  m.board,
		ToMove: toMove,
		Turn:   m.Turn(toMove),
	}
	if m.us == White {
		pos.CapturedWhite = m.ourCaptures * 2
		pos.CapturedBlack = m.theirCaptures * 2
	} else {
		pos.CapturedWhite = m.theirCaptures * 2
		pos.CapturedBlack = m.ourCaptures * 2
	}
	return pos
}

// Apply commits the move: places the stone, removes the captured pairs and
// bumps the mover's counters.
func (m *MoveManager) Apply(move *Move) {
	if move.applied {
		panic(fmt.Errorf("%w: %s", ErrAlreadyApplied, move))
	}
	if m.board.At(move.row, move.col) != Empty {
		panic(fmt.Errorf("%w: %s", ErrOccupied, move))
	}
	m.board.Set(move.row, move.col, move.player)
	for _, d := range move.captures {
		r1, c1 := d.Step(move.row, move.col, 1)
		r2, c2 := d.Step(move.row, move.col, 2)
		m.board.Remove(r1, c1)
		m.board.Remove(r2, c2)
	}
	move.applied = true
	m.applied = append(m.applied, move)
	if move.player == m.us {
		m.ourCaptures += len(move.captures)
		m.ourTurn++
	} else {
		m.theirCaptures += len(move.captures)
		m.theirTurn++
	}
}

// Undo rolls back the most recently applied move.
func (m *MoveManager) Undo(move *Move) {
	if !move.applied {
		panic(fmt.Errorf("%w: %s", ErrNotApplied, move))
	}
	if len(m.applied) == 0 || m.applied[len(m.applied)-1] != move {
		panic(fmt.Errorf("%w: %s", ErrOutOfOrder, move))
	}
	m.board.Remove(move.row, move.col)
	enemy := move.player.Opponent()
	for _, d := range move.captures {
		r1, c1 := d.Step(move.row, move.col, 1)
		r2, c2 := d.Step(move.row, move.col, 2)
		m.board.Set(r1, c1, enemy)
		m.board.Set(r2, c2, enemy)
	}
	move.applied = false
	m.applied = m.applied[:len(m.applied)-1]
	if move.player == m.us {
		m.ourCaptures -= len(move.captures)
		m.ourTurn--
	} else {
		m.theirCaptures -= len(move.captures)
		m.theirTurn--
	}
}
