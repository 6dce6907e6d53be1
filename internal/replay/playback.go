package replay

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// ErrMismatch is returned by Verify when playback does not reproduce the
// recorded result.
var ErrMismatch = errors.New("replay: result mismatch")

// Play runs the journal's frames through a fresh game without rendering
// and returns the final state.
func Play(j Journal) (Result, error) {
	g, err := NewGame(j)
	if err != nil {
		return Result{}, err
	}

	next := 0
	for tick := uint64(1); tick <= j.Ticks; tick++ {
		var in core.InputFrame
		if next < len(j.Frames) && j.Frames[next].Tick == tick {
			in = j.Frames[next].Input()
			next++
		}
		g.Step(in)
	}

	st := g.State()
	return Result{Score: st.Score, Lines: st.Lines, Level: st.Level}, nil
}

// NewGame returns a game reset to the journal's starting state, ready for
// the first recorded frame.
func NewGame(j Journal) (*tetris.Game, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	if j.GameID != tetris.IDMarathon && j.GameID != tetris.IDFixed {
		return nil, fmt.Errorf("replay: cannot play game %q", j.GameID)
	}

	g := tetris.NewWithConfig(j.GameID, j.Config)
	g.Reset(core.RuntimeConfig{
		ScreenW:  j.Width,
		ScreenH:  j.Height,
		TickRate: j.TickRate,
		Seed:     j.Seed,
	})
	return g, nil
}

// Verify replays the journal and checks the recorded result.
func Verify(j Journal) error {
	got, err := Play(j)
	if err != nil {
		return err
	}
	if got != j.Result {
		return fmt.Errorf("%w: recorded %+v, replayed %+v", ErrMismatch, j.Result, got)
	}
	return nil
}

// Saver stores replay entries.
type Saver interface {
	SaveReplay(e storage.ReplayEntry) (int64, error)
}

// Save validates and encodes the journal and stores it, returning the new
// replay ID. A journal that could not be loaded back is never stored.
func Save(s Saver, j Journal) (int64, error) {
	if err := j.Validate(); err != nil {
		return 0, err
	}
	e, err := ToEntry(j)
	if err != nil {
		return 0, err
	}
	return s.SaveReplay(e)
}

// ToEntry converts a journal into a storage row.
func ToEntry(j Journal) (storage.ReplayEntry, error) {
	data, err := Encode(j)
	if err != nil {
		return storage.ReplayEntry{}, err
	}
	return storage.ReplayEntry{
		GameID:   j.GameID,
		Player:   j.Player,
		Seed:     j.Seed,
		TickRate: j.TickRate,
		Frames:   int64(j.Ticks),
		Journal:  data,
		Score:    j.Result.Score,
		Lines:    j.Result.Lines,
		Level:    j.Result.Level,
	}, nil
}

// FromEntry decodes the journal stored in a row.
func FromEntry(e storage.ReplayEntry) (Journal, error) {
	j, err := Decode(e.Journal)
	if err != nil {
		return Journal{}, fmt.Errorf("replay %d: %w", e.ID, err)
	}
	return j, nil
}
