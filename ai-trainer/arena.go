package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"pente/engine"
)

// contender is one engine configuration taking part in the arena.
type contender struct {
	ID       string         `json:"id"`
	Weights  engine.Weights `json:"weights"`
	Policy   string         `json:"policy"`
	MaxDepth int            `json:"max_depth"`
	Elo      float64        `json:"elo"`
}

type gameResult struct {
	Winner engine.Player
	Plies  int
	Reason string
}

// opening is a fixed sequence of cells played before the engines take over.
type opening [][2]int

func (c contender) newManager(pos engine.Position, scoredLimit int) (*engine.MoveManager, error) {
	policy, err := engine.PolicyByName(c.Policy, scoredLimit)
	if err != nil {
		return nil, err
	}
	return engine.NewMoveManager(pos, engine.WithPolicy(policy), engine.WithWeights(c.Weights))
}

// buildOpeningSuite draws count openings of plies random legal moves each,
// so every opening respects the centre and ring restrictions.
func buildOpeningSuite(count, plies int, seed int64) ([]opening, error) {
	rng := rand.New(rand.NewSource(seed))
	suite := make([]opening, 0, count)
	for len(suite) < count {
		pos := engine.Position{ToMove: engine.OpeningPlayer, Turn: 1}
		seq := make(opening, 0, plies)
		for len(seq) < plies {
			mm, err := engine.NewMoveManager(pos)
			if err != nil {
				return nil, err
			}
			moves := mm.CandidateMoves(pos.ToMove)
			if len(moves) == 0 {
				break
			}
			move := moves[rng.Intn(len(moves))]
			mm.Apply(move)
			seq = append(seq, [2]int{move.Row(), move.Col()})
			pos = mm.Position(pos.ToMove.Opponent())
		}
		suite = append(suite, seq)
	}
	return suite, nil
}

// playGame replays the opening then lets the two contenders alternate until
// one wins, the board fills or maxPlies is reached.
func playGame(ctx context.Context, white, black contender, open opening, maxPlies, scoredLimit int) (gameResult, error) {
	pos := engine.Position{ToMove: engine.OpeningPlayer, Turn: 1}
	for ply := 0; ply < maxPlies; ply++ {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		side := white
		if pos.ToMove == engine.Black {
			side = black
		}
		mm, err := side.newManager(pos, scoredLimit)
		if err != nil {
			return gameResult{}, err
		}

		var move *engine.Move
		if ply < len(open) {
			cell := open[ply]
			move = mm.NewMove(pos.ToMove, cell[0], cell[1])
		} else {
			move, err = engine.NewAgent(mm, engine.WithMaxDepth(side.MaxDepth)).ChooseMove()
			if errors.Is(err, engine.ErrNoMoves) {
				return gameResult{Winner: engine.Empty, Plies: ply, Reason: "no moves"}, nil
			}
			if err != nil {
				return gameResult{}, fmt.Errorf("%s: %w", side.ID, err)
			}
		}
		mm.Apply(move)
		if mm.HaveWeWon(move) {
			reason := "line"
			if mm.Captures(pos.ToMove) >= engine.CapturesToWin {
				reason = "captures"
			}
			return gameResult{Winner: pos.ToMove, Plies: ply + 1, Reason: reason}, nil
		}
		if mm.IsTied() {
			return gameResult{Winner: engine.Empty, Plies: ply + 1, Reason: "board full"}, nil
		}
		pos = mm.Position(pos.ToMove.Opponent())
	}
	return gameResult{Winner: engine.Empty, Plies: maxPlies, Reason: "ply limit"}, nil
}

// playHeadToHead plays the opening twice with colours swapped and returns
// first's share of the points.
func playHeadToHead(ctx context.Context, first, second contender, open opening, maxPlies, scoredLimit int) (float64, int, error) {
	points := 0.0
	plies := 0
	for _, firstWhite := range []bool{true, false} {
		white, black := second, first
		if firstWhite {
			white, black = first, second
		}
		result, err := playGame(ctx, white, black, open, maxPlies, scoredLimit)
		if err != nil {
			return 0, 0, err
		}
		plies += result.Plies
		switch result.Winner {
		case engine.White:
			if firstWhite {
				points += 1.0
			}
		case engine.Black:
			if !firstWhite {
				points += 1.0
			}
		default:
			points += 0.5
		}
	}
	return points / 2.0, plies / 2, nil
}
