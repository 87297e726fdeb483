package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pente/config"
	"pente/engine"
)

const championFile = "champion_weights.json"

func main() {
	os.Exit(run())
}

func run() int {
	knobs := trainerKnobs()
	cfg, err := config.Load(knobs.GetString("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	log := newLogger(cfg.Log.Development)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := newTrainer(knobs, cfg, log)
	mode := knobs.GetString("mode")
	log.Infow("trainer starting", "mode", mode, "games", t.games, "max_plies", t.maxPlies)

	switch mode {
	case "arena":
		a := contender{
			ID:       "a",
			Weights:  cfg.Heuristics,
			Policy:   knobs.GetString("a.policy"),
			MaxDepth: knobs.GetInt("a.depth"),
			Elo:      startingElo,
		}
		b := contender{
			ID:       "b",
			Weights:  cfg.Heuristics,
			Policy:   knobs.GetString("b.policy"),
			MaxDepth: knobs.GetInt("b.depth"),
			Elo:      startingElo,
		}
		if _, _, err := t.runArena(ctx, a, b); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("arena failed", "error", err)
			return 1
		}
	case "heuristics":
		seed := contender{
			ID:       "seed",
			Weights:  t.loadChampion(cfg.Heuristics),
			Policy:   cfg.Search.Policy,
			MaxDepth: cfg.Search.MaxDepth,
			Elo:      startingElo,
		}
		champion, err := t.runHeuristicTraining(ctx, seed)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("training failed", "error", err)
			return 1
		}
		log.Infow("training finished", "champion", champion.ID, "weights", champion.Weights)
	default:
		log.Errorw("unknown trainer mode", "mode", mode)
		return 1
	}
	return 0
}

// trainerKnobs reads PENTE_TRAINER_* variables. The engine itself is
// configured through the shared config file.
func trainerKnobs() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PENTE_TRAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config", "")
	v.SetDefault("mode", "arena")
	v.SetDefault("seed", 1)
	v.SetDefault("games", 10)
	v.SetDefault("max_plies", 160)
	v.SetDefault("opening_plies", 3)
	v.SetDefault("training_openings", 4)
	v.SetDefault("validation_openings", 4)
	v.SetDefault("population_size", 6)
	v.SetDefault("elite_count", 2)
	v.SetDefault("generations", 3)
	v.SetDefault("mutation_strength", 0.08)
	v.SetDefault("elo_k", 20)
	v.SetDefault("validation_pass_rate", 0.55)
	v.SetDefault("out_dir", ".")
	v.SetDefault("a.policy", engine.PolicyAdjacent)
	v.SetDefault("a.depth", engine.DefaultMaxDepth)
	v.SetDefault("b.policy", engine.PolicyScored)
	v.SetDefault("b.depth", engine.DefaultMaxDepth)
	return v
}

func newTrainer(knobs *viper.Viper, cfg config.Config, log *zap.SugaredLogger) *trainer {
	t := &trainer{
		log:                log,
		rng:                rand.New(rand.NewSource(knobs.GetInt64("seed"))),
		games:              max(knobs.GetInt("games"), 1),
		maxPlies:           max(knobs.GetInt("max_plies"), 1),
		scoredLimit:        cfg.Search.ScoredLimit,
		openingPlies:       max(knobs.GetInt("opening_plies"), 1),
		trainingOpenings:   max(knobs.GetInt("training_openings"), 1),
		validationOpenings: max(knobs.GetInt("validation_openings"), 1),
		populationSize:     max(knobs.GetInt("population_size"), 2),
		eliteCount:         max(knobs.GetInt("elite_count"), 1),
		generations:        max(knobs.GetInt("generations"), 1),
		mutationStrength:   knobs.GetFloat64("mutation_strength"),
		eloK:               knobs.GetFloat64("elo_k"),
		validationPassRate: knobs.GetFloat64("validation_pass_rate"),
		outDir:             knobs.GetString("out_dir"),
	}
	if t.eliteCount >= t.populationSize {
		t.eliteCount = t.populationSize - 1
	}
	if t.mutationStrength <= 0 {
		t.mutationStrength = 0.08
	}
	if t.eloK <= 0 {
		t.eloK = 20
	}
	return t
}

func newLogger(development bool) *zap.SugaredLogger {
	build := zap.NewProduction
	if development {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (t *trainer) persistChampion(champion contender) error {
	if err := os.MkdirAll(t.outDir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(champion.Weights, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	path := filepath.Join(t.outDir, championFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// loadChampion resumes from a previous run's weights when present.
func (t *trainer) loadChampion(fallback engine.Weights) engine.Weights {
	raw, err := os.ReadFile(filepath.Join(t.outDir, championFile))
	if err != nil {
		return fallback
	}
	var w engine.Weights
	if err := json.Unmarshal(raw, &w); err != nil {
		t.log.Warnw("ignoring unreadable champion weights", "error", err)
		return fallback
	}
	return w
}
