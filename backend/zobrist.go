package main

import (
	"sync"

	"pente/engine"
)

// ZobristTable assigns a random key to every (cell, colour) pair so a board
// can be hashed by xor-ing the keys of its stones.
type ZobristTable struct {
	cells [engine.Size * engine.Size * 2]uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

func GetZobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ engine.Size}
		zobristTable = &ZobristTable{}
		for i := range zobristTable.cells {
			zobristTable.cells[i] = rng.next()
		}
	})
	return zobristTable
}

func (z *ZobristTable) stone(row, col int, p engine.Player) uint64 {
	idx := (row*engine.Size + col) * 2
	if p == engine.White {
		idx++
	}
	return z.cells[idx]
}

// BoardHash identifies a board for caching; it is used as the board.svg ETag.
func BoardHash(board engine.Board) uint64 {
	z := GetZobrist()
	var hash uint64
	for row := 0; row < engine.Size; row++ {
		for col := 0; col < engine.Size; col++ {
			p := board.At(row, col)
			if p == engine.Empty {
				continue
			}
			hash ^= z.stone(row, col, p)
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
