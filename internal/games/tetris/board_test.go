package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(b *Board, y int, c Cell) {
	for x := range Cols {
		b[y][x] = c
	}
}

func TestBoardStartsEmpty(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, 0, b.Height())
	assert.Equal(t, 0, b.FilledRows())
	assert.Equal(t, Empty, b.At(0, 0))
	assert.Equal(t, Empty, b.At(Cols-1, Rows-1))
}

func TestBoardAccessOutOfRangePanics(t *testing.T) {
	b := NewBoard()
	assert.Panics(t, func() { b.At(-1, 0) })
	assert.Panics(t, func() { b.At(Cols, 0) })
	assert.Panics(t, func() { b.Set(0, Rows, 1) })
}

func TestClearLines(t *testing.T) {
	tests := []struct {
		name     string
		full     []int
		expected int
	}{
		{"none", nil, 0},
		{"bottom single", []int{19}, 1},
		{"double", []int{18, 19}, 2},
		{"tetris", []int{16, 17, 18, 19}, 4},
		{"non-contiguous", []int{15, 17, 19}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBoard()
			for _, y := range tc.full {
				fillRow(b, y, Cell(KindT))
			}
			// Marker above all full rows must fall by the number cleared.
			b.Set(4, 10, Cell(KindI))

			require.Equal(t, tc.expected, b.ClearLines())
			assert.Equal(t, 0, b.FilledRows())
			assert.Equal(t, Cell(KindI), b.At(4, 10+tc.expected))
		})
	}
}

func TestClearLinesKeepsPartialRowsBetween(t *testing.T) {
	b := NewBoard()
	fillRow(b, 19, Cell(KindL))
	b.Set(0, 18, Cell(KindS)) // partial row between two full ones
	fillRow(b, 17, Cell(KindL))

	assert.Equal(t, 2, b.ClearLines())
	assert.Equal(t, Cell(KindS), b.At(0, 19))
	assert.Equal(t, 1, b.Height())
}

func TestMergeSkipsCellsAboveTop(t *testing.T) {
	b := NewBoard()
	p := NewPiece(KindJ) // {{2,0,0},{2,2,2}}
	p.Y = -1

	b.Merge(p)

	assert.Equal(t, Cell(KindJ), b.At(p.X, 0))
	assert.Equal(t, Cell(KindJ), b.At(p.X+2, 0))
	assert.Equal(t, 1, b.Height())
}

func TestBoardReset(t *testing.T) {
	b := NewBoard()
	fillRow(b, 5, 3)
	b.Reset()
	assert.Equal(t, *NewBoard(), *b)
}

func TestIsValidMove(t *testing.T) {
	b := NewBoard()
	b.Set(5, 19, Cell(KindZ))
	o := Template(KindO)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"spawn", 4, 0, true},
		{"left wall", -1, 0, false},
		{"right wall", Cols - 1, 0, false},
		{"floor", 0, Rows - 1, false},
		{"resting on floor", 0, Rows - 2, true},
		{"overlap", 4, Rows - 2, false},
		{"above top", 4, -2, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidMove(o, tc.x, tc.y, b))
		})
	}
}
