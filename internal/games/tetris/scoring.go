package tetris

import "time"

// Rules holds the tunable scoring and pacing parameters of a session.
// DefaultRules matches the classic arcade table.
type Rules struct {
	// LineClear is the base reward indexed by rows cleared in one lock.
	// Index 0 must be 0. Clears beyond the table use its last entry.
	LineClear []int

	SoftDropPoints int // per soft-drop step
	HardDropPoints int // per row skipped by a hard drop
	LinesPerLevel  int

	BaseInterval time.Duration // gravity period at level 1
	IntervalStep time.Duration // reduction per level
	MinInterval  time.Duration // gravity never gets faster than this
}

// DefaultRules returns the standard rules:
// 100/300/500/800 per clear times level, a level every 10 lines, gravity
// starting at one row per second and 100ms faster per level down to 100ms.
func DefaultRules() Rules {
	return Rules{
		LineClear:      []int{0, 100, 300, 500, 800},
		SoftDropPoints: 1,
		HardDropPoints: 2,
		LinesPerLevel:  10,
		BaseInterval:   1000 * time.Millisecond,
		IntervalStep:   100 * time.Millisecond,
		MinInterval:    100 * time.Millisecond,
	}
}

// LineClearPoints returns the score for clearing n rows at the given level.
func (r Rules) LineClearPoints(n, level int) int {
	if n <= 0 || len(r.LineClear) == 0 {
		return 0
	}
	if n >= len(r.LineClear) {
		n = len(r.LineClear) - 1
	}
	return r.LineClear[n] * level
}

// LevelForLines derives the level from the total number of cleared lines.
func (r Rules) LevelForLines(lines int) int {
	per := r.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	return lines/per + 1
}

// LineClearPoints applies the default table.
func LineClearPoints(n, level int) int {
	return DefaultRules().LineClearPoints(n, level)
}

// LevelForLines applies the default of one level per 10 lines.
func LevelForLines(lines int) int {
	return lines/10 + 1
}
