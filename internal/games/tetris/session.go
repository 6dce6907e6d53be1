package tetris

import "time"

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePlaying Phase = "playing"
	PhasePaused  Phase = "paused"
	PhaseOver    Phase = "over"
)

// Session owns all state of one playthrough: the board, the active and next
// pieces, score, lines, level and the gravity scheduler.
//
// A Session is not safe for concurrent use. Commands run to completion and
// are ignored unless the session is playing.
type Session struct {
	rules   Rules
	factory *Factory

	board  Board
	active *Piece
	next   *Piece

	score  int
	lines  int
	level  int
	pieces int // pieces locked this game
	phase  Phase

	lastClear int
	sched     Scheduler
}

// NewSession returns an idle session. The seed fixes the piece sequence.
func NewSession(rules Rules, seed int64) *Session {
	return &Session{
		rules:   rules,
		factory: NewFactory(seed),
		level:   1,
		phase:   PhaseIdle,
	}
}

// Start begins a new game from any phase, discarding prior state.
func (s *Session) Start() {
	s.board.Reset()
	s.score = 0
	s.lines = 0
	s.level = 1
	s.pieces = 0
	s.lastClear = 0
	s.factory.stats = NewStats()

	s.active = s.factory.Random()
	s.next = s.factory.Random()
	s.phase = PhasePlaying
	s.sched.Start(s.DropInterval())
}

// TogglePause switches between playing and paused. Other phases ignore it.
func (s *Session) TogglePause() {
	switch s.phase {
	case PhasePlaying:
		s.phase = PhasePaused
		s.sched.Stop()
	case PhasePaused:
		s.phase = PhasePlaying
		s.sched.Start(s.DropInterval())
	}
}

// Advance runs gravity for dt of elapsed play time and returns the number of
// drops performed. Nothing happens unless the session is playing.
func (s *Session) Advance(dt time.Duration) int {
	if s.phase != PhasePlaying {
		return 0
	}
	gen := s.sched.Generation()
	due := s.sched.Advance(dt)
	done := 0
	for range due {
		// A lock can change the level or end the game; ticks counted
		// under the previous period are then stale.
		if s.phase != PhasePlaying || !s.sched.Current(gen) {
			break
		}
		s.drop()
		done++
	}
	return done
}

// DropInterval returns the gravity period for the current level.
func (s *Session) DropInterval() time.Duration {
	return s.rules.DropInterval(s.level)
}

// lock merges the active piece, scores cleared rows and spawns the next
// piece. The game ends if the new piece does not fit at its spawn position.
func (s *Session) lock() {
	s.board.Merge(s.active)
	s.pieces++

	n := s.board.ClearLines()
	s.lastClear = n
	if n > 0 {
		s.score += s.rules.LineClearPoints(n, s.level)
		s.lines += n
		if lvl := s.rules.LevelForLines(s.lines); lvl != s.level {
			s.level = lvl
			s.sched.Reschedule(s.DropInterval())
		}
	}

	s.active = s.next
	s.next = s.factory.Random()
	if !IsValidMove(s.active.Shape, s.active.X, s.active.Y, &s.board) {
		s.phase = PhaseOver
		s.sched.Stop()
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Lines returns the total rows cleared this game.
func (s *Session) Lines() int { return s.lines }

// Level returns the current level.
func (s *Session) Level() int { return s.level }

// Pieces returns how many pieces have locked this game.
func (s *Session) Pieces() int { return s.pieces }

// LastClear returns the number of rows removed by the most recent lock.
func (s *Session) LastClear() int { return s.lastClear }

// Rules returns the rules the session was created with.
func (s *Session) Rules() Rules { return s.rules }

// Scheduler exposes the gravity scheduler for drivers that need its
// generation.
func (s *Session) Scheduler() *Scheduler { return &s.sched }
