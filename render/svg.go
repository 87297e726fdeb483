// Package render draws a board as SVG.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"pente/engine"
)

const (
	DefaultCell = 32

	woodStyle  = "fill:#dcb35c"
	lineStyle  = "stroke:#3b2a14;stroke-width:1"
	labelStyle = "font-family:sans-serif;font-size:11px;fill:#3b2a14;text-anchor:middle"
	lastStyle  = "fill:none;stroke:#d23c3c;stroke-width:2"
)

type Point struct {
	Row, Col int
}

type Options struct {
	Cell int
	// Last marks the most recent move, if any.
	Last *Point
}

// BoardSVG writes board as a standalone SVG document with rank and column
// labels that match Move.Notation.
func BoardSVG(w io.Writer, board engine.Board, opts Options) {
	cell := opts.Cell
	if cell <= 0 {
		cell = DefaultCell
	}
	margin := cell
	span := cell * (engine.Size - 1)
	side := span + 2*margin

	canvas := svg.New(w)
	canvas.Start(side, side)
	canvas.Rect(0, 0, side, side, woodStyle)

	letters := engine.ColumnLetters()
	for i := 0; i < engine.Size; i++ {
		offset := margin + i*cell
		canvas.Line(margin, offset, margin+span, offset, lineStyle)
		canvas.Line(offset, margin, offset, margin+span, lineStyle)
		canvas.Text(offset, margin/2+4, letters[i:i+1], labelStyle)
		canvas.Text(margin/2, offset+4, fmt.Sprint(engine.Size-i), labelStyle)
	}

	radius := cell * 9 / 20
	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			p := board.At(row, col)
			if p == engine.Empty {
				continue
			}
			canvas.Circle(margin+col*cell, margin+row*cell, radius, stoneStyle(p))
		}
	}
	if opts.Last != nil {
		canvas.Circle(margin+opts.Last.Col*cell, margin+opts.Last.Row*cell, radius/2, lastStyle)
	}
	canvas.End()
}

func stoneStyle(p engine.Player) string {
	if p == engine.White {
		return "fill:#f7f7f2;stroke:#222;stroke-width:1"
	}
	return "fill:#141414;stroke:#000;stroke-width:1"
}
