package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Known reports whether p is a recognised preset. The empty preset counts
// as normal.
func (p DifficultyPreset) Known() bool {
	switch p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return true
	}
	return false
}

// IsFixedPreset returns true if the preset disables gravity speed-up.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyTetrisPreset adjusts gravity pacing for a preset.
//
//	easy   - slower start (1.5x base interval)
//	normal - config values unchanged
//	hard   - starts where level 5 would be
//	fixed  - gravity never speeds up
//
// Unknown or empty presets leave the config untouched.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	g := &cfg.Gravity
	switch preset {
	case DifficultyEasy:
		g.BaseIntervalMS = g.BaseIntervalMS * 3 / 2
	case DifficultyHard:
		g.BaseIntervalMS = max(g.BaseIntervalMS-4*g.StepMS, g.MinIntervalMS)
	case DifficultyFixed:
		g.StepMS = 0
	case DifficultyNormal:
	default:
		return
	}
	cfg.Difficulty.Preset = preset
}
