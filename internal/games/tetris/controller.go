package tetris

// kickOffsets are the horizontal positions tried, in order, when rotating.
var kickOffsets = [...]int{0, -1, 1}

// MoveLeft shifts the active piece one column left if it fits.
func (s *Session) MoveLeft() bool {
	return s.shift(-1)
}

// MoveRight shifts the active piece one column right if it fits.
func (s *Session) MoveRight() bool {
	return s.shift(1)
}

func (s *Session) shift(dx int) bool {
	if s.phase != PhasePlaying {
		return false
	}
	p := s.active
	if !IsValidMove(p.Shape, p.X+dx, p.Y, &s.board) {
		return false
	}
	p.X += dx
	return true
}

// Rotate turns the active piece clockwise. If the rotated shape does not fit
// in place it is tried one column left, then one column right; if neither
// fits the piece is left as it was.
func (s *Session) Rotate() bool {
	if s.phase != PhasePlaying {
		return false
	}
	p := s.active
	rotated := p.Shape.Rotated()
	for _, dx := range kickOffsets {
		if IsValidMove(rotated, p.X+dx, p.Y, &s.board) {
			p.Shape = rotated
			p.X += dx
			return true
		}
	}
	return false
}
