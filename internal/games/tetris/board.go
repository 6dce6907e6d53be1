// Package tetris implements a falling-block puzzle game: a fixed 10x20 well,
// seven tetrominoes, line clears and level-based gravity.
//
// The engine (Board, Piece, Session, Scheduler) is pure and deterministic for
// a given seed. Game adapts a Session to the platform's registry.Game
// interface.
package tetris

import "fmt"

// Board dimensions. They never change during a session.
const (
	Cols = 10
	Rows = 20
)

// Cell is the content of one board square: 0 is empty, 1-7 identify the
// tetromino kind that settled there.
type Cell uint8

// Empty is the zero cell value.
const Empty Cell = 0

// Board is the well of settled cells, row-major with row 0 at the top.
type Board [Rows][Cols]Cell

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Reset empties every cell in place.
func (b *Board) Reset() {
	for y := range Rows {
		b.clearRow(y)
	}
}

// At returns the cell at column x, row y.
// Coordinates outside the board are a caller bug and panic.
func (b *Board) At(x, y int) Cell {
	mustInBounds(x, y)
	return b[y][x]
}

// Set writes a cell at column x, row y.
func (b *Board) Set(x, y int, c Cell) {
	mustInBounds(x, y)
	b[y][x] = c
}

func mustInBounds(x, y int) {
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		panic(fmt.Sprintf("tetris: board access out of range (%d,%d)", x, y))
	}
}

// Merge writes the piece's occupied cells into the board.
// Cells that are still above the top edge (negative row) are dropped.
func (b *Board) Merge(p *Piece) {
	for dy, row := range p.Shape {
		for dx, v := range row {
			if v == Empty {
				continue
			}
			y := p.Y + dy
			if y < 0 {
				continue
			}
			b.Set(p.X+dx, y, v)
		}
	}
}

// ClearLines removes every full row, shifting the rows above it down and
// leaving empty rows at the top. It returns the number of rows removed.
//
// Rows are scanned bottom-up; after a removal the same index is checked
// again because the row above has moved into it.
func (b *Board) ClearLines() int {
	cleared := 0
	for y := Rows - 1; y >= 0; {
		if !b.rowFull(y) {
			y--
			continue
		}
		b.collapse(y)
		cleared++
	}
	return cleared
}

// FilledRows counts rows in which every cell is occupied.
func (b *Board) FilledRows() int {
	n := 0
	for y := range Rows {
		if b.rowFull(y) {
			n++
		}
	}
	return n
}

// Height returns the number of rows from the highest occupied cell down to
// the floor, or 0 for an empty board.
func (b *Board) Height() int {
	for y := range Rows {
		for x := range Cols {
			if b[y][x] != Empty {
				return Rows - y
			}
		}
	}
	return 0
}

func (b *Board) rowFull(y int) bool {
	for x := range Cols {
		if b[y][x] == Empty {
			return false
		}
	}
	return true
}

// collapse drops every row above y down by one, overwriting row y.
func (b *Board) collapse(y int) {
	for r := y; r > 0; r-- {
		b[r] = b[r-1]
	}
	b.clearRow(0)
}

func (b *Board) clearRow(y int) {
	for x := range Cols {
		b[y][x] = Empty
	}
}
