package engine

import "fmt"

type Direction uint8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

var directionDeltas = [...][2]int{
	N:  {-1, 0},
	NE: {-1, 1},
	E:  {0, 1},
	SE: {1, 1},
	S:  {1, 0},
	SW: {1, -1},
	W:  {0, -1},
	NW: {-1, -1},
}

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Directions lists every compass direction, in capture scan order.
var Directions = [...]Direction{N, NE, E, SE, S, SW, W, NW}

// Axes holds one direction per line; the other half are their reverses.
var Axes = [...]Direction{N, NE, E, SE}

func (d Direction) Delta() (int, int) {
	delta := directionDeltas[d]
	return delta[0], delta[1]
}

// Step moves k cells from (row, col). The origin must be on the board; the
// result may not be.
func (d Direction) Step(row, col, k int) (int, int) {
	if !InBounds(row, col) {
		panic(fmt.Errorf("%w: step origin (%d,%d)", ErrOutOfBounds, row, col))
	}
	dr, dc := d.Delta()
	return row + k*dr, col + k*dc
}

func (d Direction) Reverse() Direction {
	return (d + 4) % 8
}

func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}
