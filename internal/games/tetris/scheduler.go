package tetris

import "time"

// Scheduler paces gravity. It does not own a timer: the caller feeds it
// elapsed time with Advance and performs one drop per tick it returns.
//
// Start, Stop and Reschedule each begin a new generation and discard any
// partially elapsed period, so time accumulated under an old period never
// produces a tick under a new one. Drivers that arm real timers can tag them
// with Generation and drop those that come back stale.
type Scheduler struct {
	period     time.Duration
	elapsed    time.Duration
	generation uint64
	running    bool
}

// Start arms the scheduler with the given period.
func (s *Scheduler) Start(period time.Duration) {
	s.generation++
	s.period = period
	s.elapsed = 0
	s.running = true
}

// Stop disarms the scheduler. Advance returns 0 until the next Start.
func (s *Scheduler) Stop() {
	s.generation++
	s.elapsed = 0
	s.running = false
}

// Reschedule replaces the period of a running scheduler.
// A stopped scheduler only records the new period.
func (s *Scheduler) Reschedule(period time.Duration) {
	if !s.running {
		s.period = period
		return
	}
	s.Start(period)
}

// Advance adds dt to the elapsed time and returns how many whole periods
// have completed.
func (s *Scheduler) Advance(dt time.Duration) int {
	if !s.running || s.period <= 0 || dt <= 0 {
		return 0
	}
	s.elapsed += dt
	n := int(s.elapsed / s.period)
	s.elapsed -= time.Duration(n) * s.period
	return n
}

// Period returns the current tick period.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool {
	return s.running
}

// Generation identifies the current arming of the scheduler.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}

// Current reports whether gen still refers to the running arming.
func (s *Scheduler) Current(gen uint64) bool {
	return s.running && gen == s.generation
}
