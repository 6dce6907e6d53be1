// Package config provides YAML-based game configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// TetrisConfig contains all tunable parameters of the block puzzle.
type TetrisConfig struct {
	Gravity    GravityConfig    `yaml:"gravity"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Display    DisplayConfig    `yaml:"display"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GravityConfig defines drop pacing in milliseconds.
type GravityConfig struct {
	BaseIntervalMS int `yaml:"base_interval_ms"`
	StepMS         int `yaml:"step_ms"`
	MinIntervalMS  int `yaml:"min_interval_ms"`
}

// ScoringConfig defines point values and level progression.
type ScoringConfig struct {
	LineClear     []int `yaml:"line_clear"`
	SoftDrop      int   `yaml:"soft_drop"`
	HardDrop      int   `yaml:"hard_drop"`
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// DisplayConfig toggles optional HUD elements.
type DisplayConfig struct {
	Ghost bool `yaml:"ghost"`
	Stats bool `yaml:"stats"`
}

// DifficultyConfig names the preset applied on top of the gravity settings.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// Validate checks that the configuration describes a playable game.
func (c TetrisConfig) Validate() error {
	var errs []error

	g := c.Gravity
	if g.BaseIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("gravity.base_interval_ms must be positive, got %d", g.BaseIntervalMS))
	}
	if g.MinIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("gravity.min_interval_ms must be positive, got %d", g.MinIntervalMS))
	}
	if g.MinIntervalMS > g.BaseIntervalMS {
		errs = append(errs, fmt.Errorf("gravity.min_interval_ms (%d) exceeds base_interval_ms (%d)", g.MinIntervalMS, g.BaseIntervalMS))
	}
	if g.StepMS < 0 {
		errs = append(errs, fmt.Errorf("gravity.step_ms must not be negative, got %d", g.StepMS))
	}

	s := c.Scoring
	if len(s.LineClear) < 2 {
		errs = append(errs, errors.New("scoring.line_clear needs at least entries for 0 and 1 lines"))
	} else {
		if s.LineClear[0] != 0 {
			errs = append(errs, fmt.Errorf("scoring.line_clear[0] must be 0, got %d", s.LineClear[0]))
		}
		for i := 1; i < len(s.LineClear); i++ {
			if s.LineClear[i] < s.LineClear[i-1] {
				errs = append(errs, fmt.Errorf("scoring.line_clear must not decrease (index %d)", i))
				break
			}
		}
	}
	if s.SoftDrop < 0 || s.HardDrop < 0 {
		errs = append(errs, errors.New("scoring drop points must not be negative"))
	}
	if s.LinesPerLevel <= 0 {
		errs = append(errs, fmt.Errorf("scoring.lines_per_level must be positive, got %d", s.LinesPerLevel))
	}

	if !c.Difficulty.Preset.Known() {
		errs = append(errs, fmt.Errorf("difficulty.preset %q is not one of easy, normal, hard, fixed", c.Difficulty.Preset))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid tetris config: %w", errors.Join(errs...))
	}
	return nil
}
