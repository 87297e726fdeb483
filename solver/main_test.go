package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"pente/config"
)

func writeInput(t *testing.T, dir, player string, stones map[[2]int]byte) {
	t.Helper()
	rows := make([][]byte, 19)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(".", 19))
	}
	for cell, label := range stones {
		rows[cell[0]][cell[1]] = label
	}
	var b strings.Builder
	b.WriteString(player + "\n100.0\n0,0\n")
	for _, row := range rows {
		b.Write(row)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, "input.txt"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestSolveOpeningMove(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "WHITE", nil)
	cfg := config.DefaultConfig()
	cfg.Files.SVG = "board.svg"

	move, err := solve(context.Background(), cfg, dir, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if move.Notation() != "10K" {
		t.Fatalf("expected the centre on turn 1, got %s", move.Notation())
	}
	if got := readFile(t, filepath.Join(dir, "output.txt")); got != "10K" {
		t.Fatalf("expected output.txt to hold 10K, got %q", got)
	}
	board := strings.Split(readFile(t, filepath.Join(dir, "board.txt")), "\n")
	if board[9][9] != 'w' {
		t.Fatalf("expected the centre stone in board.txt, got %q", board[9])
	}
	if got := readFile(t, filepath.Join(dir, "playdata.txt")); got != "2\n" {
		t.Fatalf("expected the turn counter to advance to 2, got %q", got)
	}
	if !strings.Contains(readFile(t, filepath.Join(dir, "board.svg")), "</svg>") {
		t.Fatalf("expected an svg board")
	}
}

func TestSolveSecondWhiteMoveUsesRing(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "WHITE", map[[2]int]byte{{9, 9}: 'w', {9, 10}: 'b'})
	if err := os.WriteFile(filepath.Join(dir, "playdata.txt"), []byte("2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Search.MaxDepth = 1

	move, err := solve(context.Background(), cfg, dir, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	dr, dc := move.Row()-9, move.Col()-9
	if max(dr, -dr, dc, -dc) != 3 {
		t.Fatalf("expected a ring move, got (%d,%d)", move.Row(), move.Col())
	}
	if got := readFile(t, filepath.Join(dir, "playdata.txt")); got != "3\n" {
		t.Fatalf("expected 3, got %q", got)
	}
}

func TestSolveMissingInput(t *testing.T) {
	if _, err := solve(context.Background(), config.DefaultConfig(), t.TempDir(), zap.NewNop().Sugar()); err == nil {
		t.Fatalf("expected a missing input.txt to fail")
	}
}
