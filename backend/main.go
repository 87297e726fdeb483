package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pente/config"
	"pente/snapshot"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup and log flushing happen
// before the process exits.
func run() int {
	cfgPath := flag.String("config", "", "config file (default: $XDG_CONFIG_HOME/pente/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger := NewLogger(cfg.Log.Development)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newTurns, closeStore, err := turnStores(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Errorw("failed to set up turn store", "error", err)
		return 1
	}
	defer closeStore()

	hub := NewHub()
	go hub.Run(ctx.Done())
	s := newServer(cfg, logger, newGameRegistry(newTurns), hub)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Infow("backend listening", "addr", cfg.Server.Addr, "policy", cfg.Search.Policy, "max_depth", cfg.Search.MaxDepth)
	code := 0
	select {
	case <-sigCtx.Done():
		logger.Infow("shutdown signal received", "reason", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			logger.Errorw("server error", "error", err)
			code = 1
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("graceful shutdown failed", "error", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Errorw("forced close failed", "error", closeErr)
		}
		code = 1
	}
	return code
}

func NewLogger(development bool) *zap.SugaredLogger {
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

// turnStores picks Redis-backed counters when an address is configured and
// per-process counters otherwise.
func turnStores(ctx context.Context, cfg config.RedisConfig, logger *zap.SugaredLogger) (func(string) snapshot.TurnStore, func(), error) {
	if cfg.Addr == "" {
		logger.Infow("using in-memory turn counters")
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	logger.Infow("connected to redis", "addr", cfg.Addr, "db", cfg.DB)
	newTurns := func(id string) snapshot.TurnStore {
		return snapshot.NewRedisTurnStore(client, id)
	}
	closeStore := func() {
		if err := client.Close(); err != nil {
			logger.Warnw("redis close failed", "error", err)
		}
	}
	return newTurns, closeStore, nil
}
