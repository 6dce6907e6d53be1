package tetris

import "time"

// Snapshot is a read-only copy of a session's state, safe to keep after the
// session moves on.
type Snapshot struct {
	Board    Board
	Active   *Piece // nil before the first Start
	Next     *Piece
	GhostY   int
	Score    int
	Lines    int
	Level    int
	Pieces   int
	Phase    Phase
	Interval time.Duration
	Drawn    [KindCount + 1]int // pieces drawn per kind this game
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Board:    s.board,
		Active:   s.active.Clone(),
		Next:     s.next.Clone(),
		GhostY:   s.GhostY(),
		Score:    s.score,
		Lines:    s.lines,
		Level:    s.level,
		Pieces:   s.pieces,
		Phase:    s.phase,
		Interval: s.DropInterval(),
		Drawn:    s.factory.Stats().Counts(),
	}
}

// Cells returns the board with the active piece drawn in, as a renderer
// would show it. Cells of the piece above the top edge are omitted.
func (snap Snapshot) Cells() Board {
	out := snap.Board
	if p := snap.Active; p != nil {
		for dy, row := range p.Shape {
			for dx, v := range row {
				y := p.Y + dy
				if v == Empty || y < 0 || y >= Rows {
					continue
				}
				out[y][p.X+dx] = v
			}
		}
	}
	return out
}
