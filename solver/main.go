package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pente/config"
	"pente/engine"
	"pente/render"
	"pente/snapshot"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred log flushing happens before exit.
func run() int {
	cfgPath := flag.String("config", "", "config file (default: $XDG_CONFIG_HOME/pente/config.yaml)")
	dir := flag.String("dir", ".", "directory holding input.txt and playdata.txt")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger := newLogger(cfg.Log.Development)
	defer func() { _ = logger.Sync() }()

	move, err := solve(context.Background(), cfg, *dir, logger)
	if err != nil {
		logger.Errorw("solve failed", "error", err)
		return 1
	}
	logger.Infow("move written", "move", move.Notation(), "captures", move.CaptureCount())
	return 0
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

// solve runs one invocation: read the snapshot and the turn counter, search,
// write the move and the resulting board, then bump the counter.
func solve(ctx context.Context, cfg config.Config, dir string, logger *zap.SugaredLogger) (*engine.Move, error) {
	path := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}

	in, err := os.Open(path(cfg.Files.Input))
	if err != nil {
		return nil, err
	}
	pos, remaining, err := snapshot.Read(in)
	in.Close()
	if err != nil {
		return nil, err
	}

	turns := snapshot.NewFileTurnStore(path(cfg.Files.PlayData))
	pos.Turn, err = turns.Load(ctx)
	if err != nil {
		return nil, err
	}

	mm, err := engine.NewMoveManager(pos,
		engine.WithPolicy(cfg.MovePolicy()),
		engine.WithWeights(cfg.Heuristics),
	)
	if err != nil {
		return nil, err
	}
	depth := cfg.DepthFor(remaining)
	logger.Debugw("searching",
		"player", pos.ToMove.String(),
		"turn", pos.Turn,
		"remaining", remaining,
		"depth", depth,
		"policy", mm.Policy().Name(),
	)
	agent := engine.NewAgent(mm,
		engine.WithMaxDepth(depth),
		engine.WithLogger(logger, cfg.Search.LogStats),
	)
	move, err := agent.ChooseMove()
	if err != nil {
		return nil, err
	}
	mm.Apply(move)

	if err := os.WriteFile(path(cfg.Files.Output), []byte(move.Notation()), 0o644); err != nil {
		return nil, err
	}
	if err := writeFile(path(cfg.Files.Board), func(f *os.File) error {
		return snapshot.WriteBoard(f, mm.Board())
	}); err != nil {
		return nil, err
	}
	if cfg.Files.SVG != "" {
		if err := writeFile(path(cfg.Files.SVG), func(f *os.File) error {
			render.BoardSVG(f, mm.Board(), render.Options{Last: &render.Point{Row: move.Row(), Col: move.Col()}})
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if _, err := snapshot.Advance(ctx, turns); err != nil {
		return nil, err
	}
	return move, nil
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
