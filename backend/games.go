package main

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pente/engine"
	"pente/snapshot"
)

var errUnknownGame = errors.New("unknown game")

type HistoryEntry struct {
	Notation  string  `json:"notation"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    string  `json:"player"`
	Turn      int     `json:"turn"`
	Captures  int     `json:"captures"`
	ElapsedMs float64 `json:"elapsed_ms"`
	Depth     int     `json:"depth"`
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

type gameRecord struct {
	ID      string
	Created time.Time
	Board   engine.Board
	Last    [2]int
	HasLast bool
	History MoveHistory
	Turns   snapshot.TurnStore

	// play is held from loading the turn counter until the move is recorded.
	play sync.Mutex
}

type gameSummary struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Moves   int       `json:"moves"`
}

// gameRegistry tracks the games created through the API. Turn counters live
// in whatever TurnStore newTurns hands out, so they can outlive the process.
type gameRegistry struct {
	mu       sync.Mutex
	games    map[string]*gameRecord
	newTurns func(id string) snapshot.TurnStore
}

func newGameRegistry(newTurns func(id string) snapshot.TurnStore) *gameRegistry {
	if newTurns == nil {
		newTurns = func(string) snapshot.TurnStore { return &snapshot.MemoryTurnStore{} }
	}
	return &gameRegistry{games: make(map[string]*gameRecord), newTurns: newTurns}
}

func (g *gameRegistry) Create() *gameRecord {
	id := uuid.NewString()
	record := &gameRecord{ID: id, Created: time.Now().UTC(), Turns: g.newTurns(id)}
	g.mu.Lock()
	g.games[id] = record
	g.mu.Unlock()
	return record
}

func (g *gameRegistry) Get(id string) (*gameRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	record, ok := g.games[id]
	return record, ok
}

// Record stores the board after a played move and appends it to the history.
func (g *gameRegistry) Record(id string, board engine.Board, entry HistoryEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	record, ok := g.games[id]
	if !ok {
		return errUnknownGame
	}
	record.Board = board
	record.Last = [2]int{entry.Row, entry.Col}
	record.HasLast = true
	record.History.Push(entry)
	return nil
}

// Snapshot returns a copy of the record safe to read without the lock.
func (g *gameRegistry) Snapshot(id string) (gameRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	record, ok := g.games[id]
	if !ok {
		return gameRecord{}, false
	}
	return gameRecord{
		ID:      record.ID,
		Created: record.Created,
		Board:   record.Board,
		Last:    record.Last,
		HasLast: record.HasLast,
		History: MoveHistory{entries: record.History.All()},
		Turns:   record.Turns,
	}, true
}

func (g *gameRegistry) Summaries() []gameSummary {
	g.mu.Lock()
	out := make([]gameSummary, 0, len(g.games))
	for _, record := range g.games {
		out = append(out, gameSummary{ID: record.ID, Created: record.Created, Moves: record.History.Size()})
	}
	g.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Created.Before(out[j].Created)
	})
	return out
}
