package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// TurnStore persists the global turn ordinal between invocations. A missing
// or unreadable counter loads as 1.
type TurnStore interface {
	Load(ctx context.Context) (int, error)
	Store(ctx context.Context, turn int) error
}

// Advancer is implemented by stores that can bump the counter atomically.
type Advancer interface {
	Advance(ctx context.Context) (int, error)
}

// Advance bumps the stored counter by one and returns the new value.
func Advance(ctx context.Context, store TurnStore) (int, error) {
	if a, ok := store.(Advancer); ok {
		return a.Advance(ctx)
	}
	turn, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	turn++
	if err := store.Store(ctx, turn); err != nil {
		return 0, err
	}
	return turn, nil
}

func parseTurn(raw string) int {
	turn, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || turn < 1 {
		return 1
	}
	return turn
}

type FileTurnStore struct {
	Path string
}

func NewFileTurnStore(path string) *FileTurnStore {
	return &FileTurnStore{Path: path}
}

func (s *FileTurnStore) Load(ctx context.Context) (int, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("turn store %s: %w", s.Path, err)
	}
	first, _, _ := strings.Cut(string(data), "\n")
	return parseTurn(first), nil
}

func (s *FileTurnStore) Store(ctx context.Context, turn int) error {
	if err := os.WriteFile(s.Path, []byte(strconv.Itoa(turn)+"\n"), 0o644); err != nil {
		return fmt.Errorf("turn store %s: %w", s.Path, err)
	}
	return nil
}

// MemoryTurnStore keeps the counter in process. The zero value starts at 1.
type MemoryTurnStore struct {
	mu   sync.Mutex
	turn int
}

func (s *MemoryTurnStore) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turn < 1 {
		return 1, nil
	}
	return s.turn, nil
}

func (s *MemoryTurnStore) Store(ctx context.Context, turn int) error {
	s.mu.Lock()
	s.turn = turn
	s.mu.Unlock()
	return nil
}

func (s *MemoryTurnStore) Advance(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turn = max(s.turn, 1) + 1
	return s.turn, nil
}
