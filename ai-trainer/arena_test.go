package main

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"pente/engine"
)

func quickContender(id string) contender {
	return contender{ID: id, Weights: engine.DefaultWeights(), Policy: engine.PolicyAdjacent, MaxDepth: 0, Elo: startingElo}
}

func TestOpeningSuiteFollowsOpeningRules(t *testing.T) {
	suite, err := buildOpeningSuite(5, 3, 7)
	if err != nil {
		t.Fatalf("buildOpeningSuite: %v", err)
	}
	if len(suite) != 5 {
		t.Fatalf("expected 5 openings, got %d", len(suite))
	}
	for _, open := range suite {
		if len(open) != 3 {
			t.Fatalf("expected 3 plies, got %d", len(open))
		}
		if open[0] != [2]int{engine.Center, engine.Center} {
			t.Fatalf("expected white to open at the centre, got %v", open[0])
		}
		third := open[2]
		dr := third[0] - engine.Center
		dc := third[1] - engine.Center
		if max(abs(dr), abs(dc)) != 3 {
			t.Fatalf("expected white's second stone on the distance-3 ring, got %v", third)
		}
	}
	again, _ := buildOpeningSuite(5, 3, 7)
	for i := range suite {
		for j := range suite[i] {
			if suite[i][j] != again[i][j] {
				t.Fatalf("expected the same seed to give the same suite")
			}
		}
	}
}

func TestPlayGameTerminates(t *testing.T) {
	open := opening{{engine.Center, engine.Center}}
	result, err := playGame(context.Background(), quickContender("w"), quickContender("b"), open, 40, engine.DefaultScoredLimit)
	if err != nil {
		t.Fatalf("playGame: %v", err)
	}
	if result.Plies < 1 || result.Plies > 40 {
		t.Fatalf("unexpected ply count %d", result.Plies)
	}
	if result.Winner == engine.Empty && result.Reason == "" {
		t.Fatalf("expected a reason for a drawn game")
	}
}

func TestPlayGameHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := playGame(ctx, quickContender("w"), quickContender("b"), nil, 10, engine.DefaultScoredLimit); err == nil {
		t.Fatalf("expected a cancelled context to stop the game")
	}
}

func TestHeadToHeadPointsInRange(t *testing.T) {
	points, _, err := playHeadToHead(context.Background(), quickContender("a"), quickContender("b"), opening{{9, 9}}, 20, engine.DefaultScoredLimit)
	if err != nil {
		t.Fatalf("playHeadToHead: %v", err)
	}
	if points < 0 || points > 1 {
		t.Fatalf("expected a share in [0,1], got %v", points)
	}
}

func TestUpdateElo(t *testing.T) {
	a := quickContender("a")
	b := quickContender("b")
	updateElo(&a, &b, 1, 20)
	if a.Elo != 1510 || b.Elo != 1490 {
		t.Fatalf("expected 1510/1490 after an even-match win, got %v/%v", a.Elo, b.Elo)
	}
	before := a.Elo + b.Elo
	updateElo(&a, &b, 0.5, 20)
	if math.Abs(a.Elo+b.Elo-before) > 1e-9 {
		t.Fatalf("expected rating points to be conserved")
	}
	if a.Elo >= 1510 {
		t.Fatalf("expected the favourite to lose points on a draw, got %v", a.Elo)
	}
}

func TestSortContendersByElo(t *testing.T) {
	list := []contender{{ID: "a", Elo: 1400}, {ID: "b", Elo: 1600}, {ID: "c", Elo: 1500}}
	sortContendersByElo(list)
	if list[0].ID != "b" || list[1].ID != "c" || list[2].ID != "a" {
		t.Fatalf("unexpected order %v", toStandings(list, 3))
	}
}

func TestMutateWeights(t *testing.T) {
	tr := &trainer{rng: rand.New(rand.NewSource(3)), mutationStrength: 0.1}
	base := engine.DefaultWeights()
	for i := 0; i < 20; i++ {
		w := tr.mutateWeights(base)
		if w.Open4 < 900 || w.Open4 > 1100 {
			t.Fatalf("expected open_4 within 10%% of 1000, got %d", w.Open4)
		}
		if w.Pieces < 1 {
			t.Fatalf("expected weights to stay positive, got %d", w.Pieces)
		}
	}
}

func TestNextGenerationPopulation(t *testing.T) {
	tr := &trainer{
		log:              zap.NewNop().Sugar(),
		rng:              rand.New(rand.NewSource(5)),
		populationSize:   5,
		eliteCount:       2,
		mutationStrength: 0.08,
	}
	champion := quickContender("champion")
	population := tr.initializePopulation(champion)
	if len(population) != 5 || population[0].Weights != champion.Weights {
		t.Fatalf("expected the seed first in a population of 5")
	}
	population[3].Elo = 1700
	sortContendersByElo(population)
	next := tr.nextGenerationPopulation(champion, population)
	if len(next) != 5 {
		t.Fatalf("expected 5 contenders, got %d", len(next))
	}
	if next[0].Weights != champion.Weights {
		t.Fatalf("expected the champion to be kept")
	}
	if next[1].Weights != population[0].Weights {
		t.Fatalf("expected the top-rated contender to survive as an elite")
	}
	for _, c := range next {
		if c.Elo != startingElo {
			t.Fatalf("expected ratings to reset, got %v for %s", c.Elo, c.ID)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
