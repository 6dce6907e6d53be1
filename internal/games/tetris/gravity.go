package tetris

import "time"

// DropInterval returns the gravity period at the given level:
// BaseInterval shortened by IntervalStep per level above 1, never below
// MinInterval.
func (r Rules) DropInterval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := r.BaseInterval - time.Duration(level-1)*r.IntervalStep
	return max(d, r.MinInterval)
}

// DropInterval applies the default pacing.
func DropInterval(level int) time.Duration {
	return DefaultRules().DropInterval(level)
}

// Drop moves the active piece down one row. If it cannot move, the piece
// locks: it is merged into the board, full rows are cleared and scored, and
// the next piece takes its place. Drop reports whether the piece moved.
func (s *Session) Drop() bool {
	if s.phase != PhasePlaying {
		return false
	}
	return s.drop()
}

func (s *Session) drop() bool {
	p := s.active
	if IsValidMove(p.Shape, p.X, p.Y+1, &s.board) {
		p.Y++
		return true
	}
	s.lock()
	return false
}

// SoftDrop is a player-initiated Drop worth SoftDropPoints, awarded whether
// the piece moves or locks.
func (s *Session) SoftDrop() bool {
	if s.phase != PhasePlaying {
		return false
	}
	moved := s.drop()
	s.score += s.rules.SoftDropPoints
	return moved
}

// HardDrop drops the active piece as far as it goes, scoring HardDropPoints
// per row, then locks it. It returns the number of rows travelled.
func (s *Session) HardDrop() int {
	if s.phase != PhasePlaying {
		return 0
	}
	p := s.active
	rows := 0
	for IsValidMove(p.Shape, p.X, p.Y+1, &s.board) {
		p.Y++
		rows++
	}
	s.score += rows * s.rules.HardDropPoints
	s.drop()
	return rows
}

// GhostY returns the row the active piece would land on if hard dropped.
func (s *Session) GhostY() int {
	p := s.active
	if p == nil {
		return 0
	}
	y := p.Y
	for IsValidMove(p.Shape, p.X, y+1, &s.board) {
		y++
	}
	return y
}
