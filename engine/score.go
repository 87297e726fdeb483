package engine

import "math"

type Score int64

// Terminal scores. The evaluator is clamped to [EvalMin, EvalMax] so a forced
// win beats a tie and a tie beats any heuristic estimate.
const (
	Win     Score = math.MaxInt64
	Loss    Score = math.MinInt64
	Tie     Score = Win - 1000
	EvalMax Score = Tie - 1
	EvalMin Score = -EvalMax
)

func clampEval(s Score) Score {
	if s > EvalMax {
		return EvalMax
	}
	if s < EvalMin {
		return EvalMin
	}
	return s
}
