package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerAdvance(t *testing.T) {
	var s Scheduler
	assert.Equal(t, 0, s.Advance(time.Second), "stopped scheduler never ticks")

	s.Start(time.Second)
	assert.Equal(t, 0, s.Advance(400*time.Millisecond))
	assert.Equal(t, 0, s.Advance(400*time.Millisecond))
	assert.Equal(t, 1, s.Advance(400*time.Millisecond))
	assert.Equal(t, 3, s.Advance(2800*time.Millisecond))
	assert.Equal(t, 0, s.Advance(0))
}

func TestSchedulerGenerations(t *testing.T) {
	var s Scheduler
	s.Start(time.Second)
	gen := s.Generation()
	assert.True(t, s.Current(gen))

	s.Advance(900 * time.Millisecond)
	s.Reschedule(500 * time.Millisecond)
	assert.False(t, s.Current(gen))
	assert.True(t, s.Current(s.Generation()))
	assert.Equal(t, 0, s.Advance(400*time.Millisecond), "elapsed time is discarded on reschedule")
	assert.Equal(t, 1, s.Advance(100*time.Millisecond))

	gen = s.Generation()
	s.Stop()
	assert.False(t, s.Running())
	assert.False(t, s.Current(gen))
	assert.False(t, s.Current(s.Generation()), "a stopped scheduler has no current generation")
}

func TestSchedulerRescheduleWhileStopped(t *testing.T) {
	var s Scheduler
	s.Start(time.Second)
	s.Stop()
	gen := s.Generation()

	s.Reschedule(200 * time.Millisecond)

	assert.False(t, s.Running())
	assert.Equal(t, gen, s.Generation())
	assert.Equal(t, 200*time.Millisecond, s.Period())
	assert.Equal(t, 0, s.Advance(time.Second))
}
