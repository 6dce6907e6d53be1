package replay

import (
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
)

// Configured is implemented by games that can report the rules they run
// with. Only such games can be recorded.
type Configured interface {
	Config() config.TetrisConfig
}

// Recorder accumulates the frames fed to a game, one call per Step.
type Recorder struct {
	j Journal
}

// NewRecorder starts a journal for a game that was just Reset with rc.
func NewRecorder(gameID, player string, cfg config.TetrisConfig, rc core.RuntimeConfig) *Recorder {
	return &Recorder{j: Journal{
		Version:  FormatVersion,
		GameID:   gameID,
		Player:   player,
		Seed:     rc.Seed,
		TickRate: rc.TickRate,
		Width:    rc.ScreenW,
		Height:   rc.ScreenH,
		Config:   cfg,
	}}
}

// Record appends the frame passed to the game's next Step.
func (r *Recorder) Record(in core.InputFrame) {
	r.j.Ticks++
	if in.Empty() {
		return
	}
	names := make([]string, len(in.Actions))
	for i, a := range in.Actions {
		names[i] = a.String()
	}
	r.j.Frames = append(r.j.Frames, Frame{Tick: r.j.Ticks, Actions: names})
}

// Ticks returns the number of frames recorded so far.
func (r *Recorder) Ticks() uint64 {
	return r.j.Ticks
}

// Finish returns the journal with the final state filled in. The recorder
// can keep recording afterwards; later calls to Finish see the new frames.
func (r *Recorder) Finish(st core.GameState) Journal {
	j := r.j
	j.Frames = append([]Frame(nil), r.j.Frames...)
	j.Result = Result{Score: st.Score, Lines: st.Lines, Level: st.Level}
	return j
}
