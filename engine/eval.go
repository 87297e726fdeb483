package engine

type Weights struct {
	Captures       int64 `mapstructure:"captures" json:"captures"`
	CaptureThreats int64 `mapstructure:"capture_threats" json:"capture_threats"`
	Open4          int64 `mapstructure:"open_4" json:"open_4"`
	Open3          int64 `mapstructure:"open_3" json:"open_3"`
	Open2          int64 `mapstructure:"open_2" json:"open_2"`
	Pieces         int64 `mapstructure:"pieces" json:"pieces"`
}

func DefaultWeights() Weights {
	return Weights{
		Captures:       10_000,
		CaptureThreats: 10_000,
		Open4:          1_000,
		Open3:          100,
		Open2:          10,
		Pieces:         1,
	}
}

// PatternTotals counts the features the evaluator weighs for one side.
type PatternTotals struct {
	// Fives counts (stone, direction) pairs starting a completed line.
	Fives          int
	CaptureThreats int
	Open4          int
	Open3          int
	Open2          int
	Pieces         int
}

// Evaluate scores the position from our side: our weighted features minus
// theirs. A side that has reached the capture threshold or holds five in a row
// saturates the score.
func (m *MoveManager) Evaluate() Score {
	if m.ourCaptures >= CapturesToWin {
		return EvalMax
	}
	if m.theirCaptures >= CapturesToWin {
		return EvalMin
	}
	ourPatterns := m.Patterns(m.us)
	if ourPatterns.Fives > 0 {
		return EvalMax
	}
	theirPatterns := m.Patterns(m.us.Opponent())
	if theirPatterns.Fives > 0 {
		return EvalMin
	}
	ours := weightedSum(ourPatterns, m.ourCaptures, m.weights)
	theirs := weightedSum(theirPatterns, m.theirCaptures, m.weights)
	return clampEval(Score(ours - theirs))
}

func (m *MoveManager) Patterns(p Player) PatternTotals {
	var totals PatternTotals
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch m.board.At(row, col) {
			case Empty:
				for _, d := range Directions {
					if m.capturesToward(p, row, col, d) {
						totals.CaptureThreats++
					}
				}
			case p:
				totals.Pieces++
				for _, d := range Directions {
					switch m.openRun(p, row, col, d) {
					case LineToWin:
						totals.Fives++
					case 4:
						totals.Open4++
					case 3:
						totals.Open3++
					case 2:
						totals.Open2++
					}
				}
			}
		}
	}
	return totals
}

// openRun returns K when exactly K stones of p start at (row, col) along d and
// the cells up to offset 4 are empty, leaving room for a five. A completed line
// returns LineToWin; any other shape returns 0.
func (m *MoveManager) openRun(p Player, row, col int, d Direction) int {
	dr, dc := d.Delta()
	run := 0
	r, c := row, col
	for run < LineToWin && m.board.Holds(r, c, p) {
		run++
		r += dr
		c += dc
	}
	if run >= LineToWin {
		return LineToWin
	}
	if run < 2 {
		return 0
	}
	for k := run; k < LineToWin; k++ {
		if !m.board.IsEmpty(r, c) {
			return 0
		}
		r += dr
		c += dc
	}
	return run
}

func weightedSum(t PatternTotals, captures int, w Weights) int64 {
	return int64(captures)*w.Captures +
		int64(t.CaptureThreats)*w.CaptureThreats +
		int64(t.Open4)*w.Open4 +
		int64(t.Open3)*w.Open3 +
		int64(t.Open2)*w.Open2 +
		int64(t.Pieces)*w.Pieces
}
