package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"pente/engine"
)

const startingElo = 1500

type trainer struct {
	log *zap.SugaredLogger
	rng *rand.Rand

	games              int
	maxPlies           int
	scoredLimit        int
	openingPlies       int
	trainingOpenings   int
	validationOpenings int
	populationSize     int
	eliteCount         int
	generations        int
	mutationStrength   float64
	eloK               float64
	validationPassRate float64
	outDir             string
}

// runArena pits a against b over the opening suite, games times, and
// returns both with updated ratings.
func (t *trainer) runArena(ctx context.Context, a, b contender) (contender, contender, error) {
	openings, err := buildOpeningSuite(t.trainingOpenings, t.openingPlies, t.rng.Int63())
	if err != nil {
		return a, b, err
	}
	score := 0.0
	for game := 0; game < t.games; game++ {
		open := openings[game%len(openings)]
		result, plies, err := playHeadToHead(ctx, a, b, open, t.maxPlies, t.scoredLimit)
		if err != nil {
			return a, b, err
		}
		score += result
		updateElo(&a, &b, result, t.eloK)
		t.log.Infow("arena game",
			"game", game+1,
			"a", a.ID,
			"b", b.ID,
			"result_a", result,
			"plies", plies,
			"elo_a", math.Round(a.Elo),
			"elo_b", math.Round(b.Elo),
		)
	}
	t.log.Infow("arena finished", "games", t.games, "score_a", score, "score_b", float64(t.games)-score)
	return a, b, nil
}

// runHeuristicTraining evolves evaluator weights around seed: each
// generation plays a round robin, the best contender is validated against
// the champion and promoted if it clears validationPassRate.
func (t *trainer) runHeuristicTraining(ctx context.Context, seed contender) (contender, error) {
	trainOpenings, err := buildOpeningSuite(t.trainingOpenings, t.openingPlies, 41)
	if err != nil {
		return seed, err
	}
	valOpenings, err := buildOpeningSuite(t.validationOpenings, t.openingPlies, 911)
	if err != nil {
		return seed, err
	}
	champion := seed
	champion.ID = "champion"
	champion.Elo = startingElo
	population := t.initializePopulation(champion)

	for generation := 1; generation <= t.generations; generation++ {
		games, err := t.runPopulationRound(ctx, population, trainOpenings, generation)
		if err != nil {
			return champion, err
		}
		sortContendersByElo(population)
		best := population[0]

		promoted := false
		if best.Weights != champion.Weights {
			points, total, err := t.runValidation(ctx, best, champion, valOpenings)
			if err != nil {
				return champion, err
			}
			rate := 0.0
			if total > 0 {
				rate = points / total
			}
			if rate >= t.validationPassRate {
				champion = best
				champion.ID = fmt.Sprintf("champion-g%d", generation)
				champion.Elo = startingElo
				promoted = true
			}
			t.log.Infow("validation", "generation", generation, "candidate", best.ID, "rate", rate)
		}
		t.log.Infow("generation finished",
			"generation", generation,
			"games", games,
			"promoted", promoted,
			"champion", champion.ID,
			"standings", toStandings(population, 8),
		)
		if err := t.persistChampion(champion); err != nil {
			t.log.Warnw("persist champion failed", "error", err)
		}
		population = t.nextGenerationPopulation(champion, population)
	}
	return champion, nil
}

func (t *trainer) runPopulationRound(ctx context.Context, population []contender, openings []opening, generation int) (int, error) {
	games := 0
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			for _, open := range openings {
				result, plies, err := playHeadToHead(ctx, population[i], population[j], open, t.maxPlies, t.scoredLimit)
				if err != nil {
					return games, err
				}
				updateElo(&population[i], &population[j], result, t.eloK)
				games++
				if games%5 == 0 || games == 1 {
					t.log.Debugw("population game",
						"generation", generation,
						"game", games,
						"a", population[i].ID,
						"b", population[j].ID,
						"result", result,
						"plies", plies,
					)
				}
			}
		}
	}
	return games, nil
}

func (t *trainer) runValidation(ctx context.Context, candidate, champion contender, openings []opening) (float64, float64, error) {
	points := 0.0
	total := 0.0
	for _, open := range openings {
		result, _, err := playHeadToHead(ctx, candidate, champion, open, t.maxPlies, t.scoredLimit)
		if err != nil {
			return points, total, err
		}
		points += result
		total++
	}
	return points, total, nil
}

func (t *trainer) initializePopulation(seed contender) []contender {
	pop := make([]contender, 0, t.populationSize)
	first := seed
	first.ID = "p0"
	pop = append(pop, first)
	for i := 1; i < t.populationSize; i++ {
		c := seed
		c.ID = fmt.Sprintf("p%d", i)
		c.Weights = t.mutateWeights(seed.Weights)
		c.Elo = startingElo
		pop = append(pop, c)
	}
	return pop
}

// nextGenerationPopulation keeps the champion and the elites and fills the
// rest with mutations of the top of the ranking.
func (t *trainer) nextGenerationPopulation(champion contender, ranked []contender) []contender {
	next := make([]contender, 0, t.populationSize)
	head := champion
	head.ID = "p0"
	head.Elo = startingElo
	next = append(next, head)
	for i := 0; i < len(ranked) && len(next) < t.populationSize && i < t.eliteCount+1; i++ {
		if ranked[i].Weights == champion.Weights {
			continue
		}
		elite := ranked[i]
		elite.ID = fmt.Sprintf("elite-%d", i)
		elite.Elo = startingElo
		next = append(next, elite)
	}
	parentPool := ranked
	if len(parentPool) > t.eliteCount+1 {
		parentPool = parentPool[:t.eliteCount+1]
	}
	for len(next) < t.populationSize {
		child := parentPool[t.rng.Intn(len(parentPool))]
		child.ID = fmt.Sprintf("mut-%d", len(next))
		child.Weights = t.mutateWeights(child.Weights)
		child.Elo = startingElo
		next = append(next, child)
	}
	return next
}

// mutateWeights scales every weight by a random factor in
// [1-mutationStrength, 1+mutationStrength]. Weights never drop below 1.
func (t *trainer) mutateWeights(base engine.Weights) engine.Weights {
	mutate := func(v int64) int64 {
		factor := 1 + (t.rng.Float64()*2-1)*t.mutationStrength
		next := math.Round(float64(v) * factor)
		if math.IsNaN(next) || next < 1 || next > math.MaxInt32 {
			return v
		}
		return int64(next)
	}
	out := base
	out.Captures = mutate(out.Captures)
	out.CaptureThreats = mutate(out.CaptureThreats)
	out.Open4 = mutate(out.Open4)
	out.Open3 = mutate(out.Open3)
	out.Open2 = mutate(out.Open2)
	out.Pieces = mutate(out.Pieces)
	return out
}

type standing struct {
	ID  string  `json:"id"`
	Elo float64 `json:"elo"`
}

func toStandings(list []contender, limit int) []standing {
	out := make([]standing, 0, min(len(list), limit))
	for i := 0; i < len(list) && i < limit; i++ {
		out = append(out, standing{ID: list[i].ID, Elo: math.Round(list[i].Elo)})
	}
	return out
}

func sortContendersByElo(list []contender) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Elo > list[j].Elo
	})
}

func updateElo(a, b *contender, resultForA, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}
