package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration. It matches the
// embedded defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Gravity: GravityConfig{
			BaseIntervalMS: 1000,
			StepMS:         100,
			MinIntervalMS:  100,
		},
		Scoring: ScoringConfig{
			LineClear:     []int{0, 100, 300, 500, 800},
			SoftDrop:      1,
			HardDrop:      2,
			LinesPerLevel: 10,
		},
		Display: DisplayConfig{
			Ghost: true,
			Stats: true,
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tetris", "tetris_fixed":
		return defaultTetrisYAML
	default:
		return nil
	}
}
