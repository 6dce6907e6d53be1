package tetris

import (
	"math/rand"
)

// Kind identifies one of the seven tetrominoes. Its numeric value is also the
// cell value the piece leaves on the board.
type Kind uint8

const (
	KindI Kind = iota + 1
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// KindCount is the number of distinct tetrominoes.
const KindCount = 7

// String returns the conventional letter for the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return "?"
	}
	return string("IJLOSTZ"[k-1])
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	return k >= KindI && k <= KindZ
}

// Shape is a piece's occupied cells in its current rotation.
// Non-zero entries hold the piece's kind.
type Shape [][]Cell

// templates hold each kind's spawn orientation. Index 0 is unused.
// Never hand these out directly: rotation mutates a piece's own shape.
var templates = [KindCount + 1]Shape{
	nil,
	{{1, 1, 1, 1}},
	{{2, 0, 0}, {2, 2, 2}},
	{{0, 0, 3}, {3, 3, 3}},
	{{4, 4}, {4, 4}},
	{{0, 5, 5}, {5, 5, 0}},
	{{0, 6, 0}, {6, 6, 6}},
	{{7, 7, 0}, {0, 7, 7}},
}

// Template returns a copy of the spawn orientation for kind.
func Template(k Kind) Shape {
	if !k.Valid() {
		panic("tetris: invalid piece kind")
	}
	return templates[k].Clone()
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

// Width returns the number of columns in the shape.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the number of rows in the shape.
func (s Shape) Height() int {
	return len(s)
}

// Rotated returns the shape turned 90 degrees clockwise.
// The receiver is left untouched.
func (s Shape) Rotated() Shape {
	h, w := s.Height(), s.Width()
	out := make(Shape, w)
	for i := range w {
		out[i] = make([]Cell, h)
		for j := range h {
			out[i][j] = s[h-1-j][i]
		}
	}
	return out
}

// Equal reports whether two shapes have identical dimensions and cells.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// Piece is a tetromino instance: its kind, current rotation and the board
// position of the shape's top-left corner. Y may be negative while spawning.
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int
}

// NewPiece creates a piece of the given kind at its spawn position,
// horizontally centred on the top row.
func NewPiece(k Kind) *Piece {
	shape := Template(k)
	return &Piece{
		Kind:  k,
		Shape: shape,
		X:     Cols/2 - shape.Width()/2,
		Y:     0,
	}
}

// Clone returns a deep copy of the piece.
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	c := *p
	c.Shape = p.Shape.Clone()
	return &c
}

// Factory draws random pieces. Each draw is independent and uniform over the
// seven kinds; there is no bag, so droughts and repeats can happen.
type Factory struct {
	rng   *rand.Rand
	stats *Stats
}

// NewFactory returns a factory seeded for reproducible sequences.
func NewFactory(seed int64) *Factory {
	return &Factory{
		rng:   rand.New(rand.NewSource(seed)),
		stats: NewStats(),
	}
}

// Random creates a piece of a uniformly chosen kind.
func (f *Factory) Random() *Piece {
	k := Kind(f.rng.Intn(KindCount) + 1)
	f.stats.Record(k)
	return NewPiece(k)
}

// Stats returns the spawn counts recorded by this factory.
func (f *Factory) Stats() *Stats {
	return f.stats
}
