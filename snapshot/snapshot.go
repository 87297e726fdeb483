// Package snapshot reads and writes the text format exchanged with the move
// engine: side to move, time remaining, capture counts and the 19x19 grid.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pente/engine"
)

const headerLines = 3

var ErrTruncated = errors.New("snapshot: unexpected end of input")

// Read parses a snapshot. Captures are returned in stones, as stored; the
// turn is left at 1 for the caller to fill from its TurnStore.
func Read(r io.Reader) (engine.Position, float64, error) {
	pos := engine.Position{Turn: 1}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("snapshot: line %d: %w", lineNo+1, err)
			}
			return "", fmt.Errorf("%w at line %d", ErrTruncated, lineNo+1)
		}
		lineNo++
		return strings.TrimRight(scanner.Text(), " \t\r"), nil
	}

	line, err := next()
	if err != nil {
		return pos, 0, err
	}
	pos.ToMove, err = engine.ParsePlayer(strings.TrimSpace(line))
	if err != nil {
		return pos, 0, fmt.Errorf("snapshot: line %d: %w", lineNo, err)
	}

	line, err = next()
	if err != nil {
		return pos, 0, err
	}
	remaining, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return pos, 0, fmt.Errorf("snapshot: line %d: time remaining: %w", lineNo, err)
	}

	line, err = next()
	if err != nil {
		return pos, 0, err
	}
	pos.CapturedWhite, pos.CapturedBlack, err = parseCaptures(line)
	if err != nil {
		return pos, 0, fmt.Errorf("snapshot: line %d: %w", lineNo, err)
	}

	for row := 0; row < engine.Size; row++ {
		line, err = next()
		if err != nil {
			return pos, 0, err
		}
		if len(line) != engine.Size {
			return pos, 0, fmt.Errorf("snapshot: line %d: expected %d cells, got %d", lineNo, engine.Size, len(line))
		}
		for col := 0; col < engine.Size; col++ {
			p, err := engine.ParseLabel(line[col : col+1])
			if err != nil {
				return pos, 0, fmt.Errorf("snapshot: line %d: column %d: %w", lineNo, col, err)
			}
			pos.Board.Set(row, col, p)
		}
	}
	return pos, remaining, nil
}

func parseCaptures(line string) (int, int, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("captures: expected \"white,black\", got %q", line)
	}
	white, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("captures by white: %w", err)
	}
	black, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("captures by black: %w", err)
	}
	if white < 0 || black < 0 {
		return 0, 0, fmt.Errorf("captures must be non-negative, got %d,%d", white, black)
	}
	return white, black, nil
}

// Write emits pos in the same layout Read accepts. The turn is not part of
// the format.
func Write(w io.Writer, pos engine.Position, remaining float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, pos.ToMove.String())
	fmt.Fprintln(bw, strconv.FormatFloat(remaining, 'f', -1, 64))
	fmt.Fprintf(bw, "%d,%d\n", pos.CapturedWhite, pos.CapturedBlack)
	if err := writeRows(bw, &pos.Board); err != nil {
		return err
	}
	return bw.Flush()
}

func WriteBoard(w io.Writer, board engine.Board) error {
	bw := bufio.NewWriter(w)
	if err := writeRows(bw, &board); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRows(w *bufio.Writer, board *engine.Board) error {
	_, err := w.WriteString(board.String())
	return err
}
