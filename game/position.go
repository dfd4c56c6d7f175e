package game

import "fmt"

// BoardSize is the side length of the square board.
const BoardSize = 100

// Position is a tile on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key packs a position into a single comparable value. Equal coordinates
// always produce equal keys, including coordinates outside the board.
type Key uint64

func (p Position) Key() Key {
	return Key(uint64(uint32(int32(p.X)))<<32 | uint64(uint32(int32(p.Y))))
}

func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// InBounds checks whether the position lies on the board.
func (p Position) InBounds() bool {
	return 0 <= p.X && p.X < BoardSize && 0 <= p.Y && p.Y < BoardSize
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Orthogonal steps, then diagonal steps
var (
	Directions         = []Position{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	DiagonalDirections = []Position{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)
