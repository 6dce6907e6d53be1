// Package replay records the inputs of a game and plays them back.
//
// A Journal is everything needed to reproduce a game: the game ID, the
// rules it ran with, the seed, the screen size and every non-empty input
// frame keyed by tick. Because the engine is deterministic, feeding the
// same frames to a fresh game reproduces the recorded result exactly.
package replay

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
)

// FormatVersion is the journal layout written by this package.
const FormatVersion = 1

// Limits on what a journal may describe. Playback cost grows with the tick
// count, so an imported journal cannot ask for more than MaxDuration of play.
const (
	MaxTickRate = 1000
	MaxDuration = 12 * time.Hour
)

// MaxTicks returns the longest journal accepted at tickRate.
func MaxTicks(tickRate int) uint64 {
	return uint64(MaxDuration/time.Second) * uint64(max(tickRate, 0))
}

// Journal is a recorded game.
type Journal struct {
	Version  int                 `yaml:"version"`
	GameID   string              `yaml:"game"`
	Player   string              `yaml:"player,omitempty"`
	Seed     int64               `yaml:"seed"`
	TickRate int                 `yaml:"tick_rate"`
	Width    int                 `yaml:"width"`
	Height   int                 `yaml:"height"`
	Config   config.TetrisConfig `yaml:"config"`
	Ticks    uint64              `yaml:"ticks"`
	Frames   []Frame             `yaml:"frames"`
	Result   Result              `yaml:"result"`
}

// Frame is the ordered list of actions applied on one tick.
type Frame struct {
	Tick    uint64   `yaml:"t"`
	Actions []string `yaml:"a,flow"`
}

// Result is the final state of a game.
type Result struct {
	Score int `yaml:"score"`
	Lines int `yaml:"lines"`
	Level int `yaml:"level"`
}

// Encode serialises a journal as YAML.
func Encode(j Journal) ([]byte, error) {
	data, err := yaml.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode journal: %w", err)
	}
	return data, nil
}

// Decode parses and validates a YAML journal.
func Decode(data []byte) (Journal, error) {
	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return Journal{}, fmt.Errorf("replay: cannot decode journal: %w", err)
	}
	if err := j.Validate(); err != nil {
		return Journal{}, err
	}
	return j, nil
}

// Validate checks that the journal is well formed: a known version, a tick
// rate and length within the package limits, valid rules, and frames with
// known actions in strictly increasing tick order within the recorded length.
func (j Journal) Validate() error {
	var errs []error

	if j.Version != FormatVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d", j.Version))
	}
	if j.GameID == "" {
		errs = append(errs, errors.New("missing game id"))
	}
	if j.TickRate <= 0 || j.TickRate > MaxTickRate {
		errs = append(errs, fmt.Errorf("tick_rate must be between 1 and %d, got %d", MaxTickRate, j.TickRate))
	} else if j.Ticks > MaxTicks(j.TickRate) {
		errs = append(errs, fmt.Errorf("ticks %d exceed %s of play at %d/s", j.Ticks, MaxDuration, j.TickRate))
	}
	if err := j.Config.Validate(); err != nil {
		errs = append(errs, err)
	}

	var last uint64
	for i, f := range j.Frames {
		if f.Tick == 0 || f.Tick <= last || f.Tick > j.Ticks {
			errs = append(errs, fmt.Errorf("frame %d: tick %d out of order or range", i, f.Tick))
			break
		}
		last = f.Tick
		for _, name := range f.Actions {
			if _, ok := core.ParseAction(name); !ok {
				errs = append(errs, fmt.Errorf("frame %d: unknown action %q", i, name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("replay: invalid journal: %w", errors.Join(errs...))
	}
	return nil
}

// Input returns the decoded frame for each recorded tick.
func (f Frame) Input() core.InputFrame {
	in := core.NewInputFrame()
	for _, name := range f.Actions {
		if a, ok := core.ParseAction(name); ok {
			in.Set(a)
		}
	}
	return in
}
