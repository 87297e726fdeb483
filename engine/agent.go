package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultMaxDepth = 2

type SearchStats struct {
	Nodes          int
	Leaves         int
	Cutoffs        int
	RootCandidates int
	MaxDepth       int
	Elapsed        time.Duration
}

// RootScore reports the value the search assigned to one root candidate.
type RootScore struct {
	Move  *Move
	Score Score
	Index int
	Total int
}

// Agent runs a depth-limited minimax with alpha-beta pruning over a
// MoveManager, applying and undoing moves on the live board.
type Agent struct {
	mm       *MoveManager
	us       Player
	maxDepth int
	log      *zap.SugaredLogger
	logStats bool
	observer func(RootScore)
	stats    SearchStats
}

type AgentOption func(*Agent)

// WithMaxDepth sets the ply ceiling below the root. Nodes deeper than this
// are scored by the static evaluator.
func WithMaxDepth(depth int) AgentOption {
	return func(a *Agent) {
		if depth >= 0 {
			a.maxDepth = depth
		}
	}
}

func WithLogger(log *zap.SugaredLogger, logStats bool) AgentOption {
	return func(a *Agent) {
		if log != nil {
			a.log = log
		}
		a.logStats = logStats
	}
}

func WithRootObserver(observer func(RootScore)) AgentOption {
	return func(a *Agent) {
		a.observer = observer
	}
}

func NewAgent(mm *MoveManager, opts ...AgentOption) *Agent {
	a := &Agent{
		mm:       mm,
		us:       mm.Us(),
		maxDepth: DefaultMaxDepth,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) MaxDepth() int {
	return a.maxDepth
}

func (a *Agent) Stats() SearchStats {
	return a.stats
}

// ChooseMove returns our best candidate. The board is left exactly as it was
// found; the caller applies the move if it wants to play it.
func (a *Agent) ChooseMove() (*Move, error) {
	start := time.Now()
	a.stats = SearchStats{MaxDepth: a.maxDepth}
	moves := a.mm.CandidateMoves(a.us)
	a.stats.RootCandidates = len(moves)
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	acceptTies := a.mm.Policy().AcceptTies()

	scores := make([]Score, len(moves))
	for i, move := range moves {
		a.mm.Apply(move)
		scores[i] = a.minValue(move, 1, Loss, Win)
		a.mm.Undo(move)
		if a.observer != nil {
			a.observer(RootScore{Move: move, Score: scores[i], Index: i, Total: len(moves)})
		}
	}
	pick := pickRoot(a.mm, moves, scores, acceptTies)
	best, bestScore := moves[pick], scores[pick]
	a.stats.Elapsed = time.Since(start)
	if a.logStats {
		a.log.Infow("search finished",
			"player", a.us.String(),
			"move", best.Notation(),
			"score", int64(bestScore),
			"policy", a.mm.Policy().Name(),
			"max_depth", a.maxDepth,
			"root_candidates", a.stats.RootCandidates,
			"nodes", a.stats.Nodes,
			"leaves", a.stats.Leaves,
			"cutoffs", a.stats.Cutoffs,
			"elapsed", a.stats.Elapsed,
		)
	}
	return best, nil
}

// pickRoot returns the index of the best root move. Ties follow the policy.
// When the best score is Win or Loss and several moves share it, the search
// cannot tell them apart, so the static evaluation after each of them decides:
// against an unstoppable threat the move that blunts it most is kept.
func pickRoot(m *MoveManager, moves []*Move, scores []Score, acceptTies bool) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] || (acceptTies && scores[i] == scores[best]) {
			best = i
		}
	}
	top := scores[best]
	if top != Win && top != Loss {
		return best
	}
	tied := []int{}
	for i, s := range scores {
		if s == top {
			tied = append(tied, i)
		}
	}
	if len(tied) < 2 {
		return best
	}
	best = -1
	var bestEval Score
	for _, i := range tied {
		m.Apply(moves[i])
		eval := m.Evaluate()
		m.Undo(moves[i])
		if best < 0 || eval > bestEval || (acceptTies && eval == bestEval) {
			best = i
			bestEval = eval
		}
	}
	return best
}

// minValue scores the position after our move from the opponent's side.
func (a *Agent) minValue(prev *Move, depth int, alpha, beta Score) Score {
	if prev.Player() != a.us {
		panic(fmt.Errorf("%w: minValue entered after %s", ErrWrongMover, prev))
	}
	a.stats.Nodes++
	if a.mm.HaveWeWon(prev) {
		return Win
	}
	if a.mm.IsTied() {
		return Tie
	}
	if depth > a.maxDepth {
		a.stats.Leaves++
		return a.mm.Evaluate()
	}
	for _, move := range a.mm.CandidateMoves(a.us.Opponent()) {
		a.mm.Apply(move)
		beta = min(beta, a.maxValue(move, depth+1, alpha, beta))
		a.mm.Undo(move)
		if alpha >= beta {
			a.stats.Cutoffs++
			return beta
		}
	}
	return beta
}

// maxValue scores the position after the opponent's move from our side.
func (a *Agent) maxValue(prev *Move, depth int, alpha, beta Score) Score {
	if prev.Player() != a.us.Opponent() {
		panic(fmt.Errorf("%w: maxValue entered after %s", ErrWrongMover, prev))
	}
	a.stats.Nodes++
	if a.mm.HaveTheyWon(prev) {
		return Loss
	}
	if a.mm.IsTied() {
		return Tie
	}
	if depth > a.maxDepth {
		a.stats.Leaves++
		return a.mm.Evaluate()
	}
	for _, move := range a.mm.CandidateMoves(a.us) {
		a.mm.Apply(move)
		alpha = max(alpha, a.minValue(move, depth+1, alpha, beta))
		a.mm.Undo(move)
		if alpha >= beta {
			a.stats.Cutoffs++
			return alpha
		}
	}
	return alpha
}
