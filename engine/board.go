package engine

const (
	Size   = 19
	Center = Size / 2
)

// Board is the 19x19 grid. It is a value type so copies and equality checks are cheap.
type Board struct {
	cells [Size * Size]Player
}

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < Size && col < Size
}

func (b *Board) At(row, col int) Player {
	return b.cells[index(row, col)]
}

func (b *Board) Set(row, col int, p Player) {
	b.cells[index(row, col)] = p
}

func (b *Board) Remove(row, col int) {
	b.cells[index(row, col)] = Empty
}

func (b *Board) IsEmpty(row, col int) bool {
	return InBounds(row, col) && b.At(row, col) == Empty
}

// Holds reports whether (row, col) is on the board and occupied by p.
func (b *Board) Holds(row, col int, p Player) bool {
	return InBounds(row, col) && b.At(row, col) == p
}

func (b *Board) Count(p Player) int {
	count := 0
	for _, cell := range b.cells {
		if cell == p {
			count++
		}
	}
	return count
}

func (b *Board) Occupied() int {
	return len(b.cells) - b.Count(Empty)
}

func (b *Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == Empty {
			return false
		}
	}
	return true
}

func (b *Board) String() string {
	buf := make([]byte, 0, Size*(Size+1))
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			buf = append(buf, b.At(row, col).Label()...)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func index(row, col int) int {
	return row*Size + col
}
