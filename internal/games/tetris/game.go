package tetris

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Game IDs registered by this package.
const (
	IDMarathon = "tetris"
	IDFixed    = "tetris_fixed"
)

// Minimum screen size: title row, 22-row well, and the well plus sidebar.
const (
	minScreenW = 44
	minScreenH = 23
)

// Game adapts a Session to the platform's fixed-rate Step loop.
// Each Step applies the frame's actions in order, then advances gravity by
// one frame's worth of time.
type Game struct {
	id      string
	cfg     config.TetrisConfig
	session *Session

	frame time.Duration
	tick  uint64

	screenW  int
	screenH  int
	tooSmall bool
}

// Package-level variables for CLI config/difficulty selection.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file used by games created afterwards.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset used by games created afterwards.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// New creates a marathon game: gravity speeds up with the level.
func New() *Game {
	return &Game{id: IDMarathon}
}

// NewFixed creates a game whose gravity never speeds up.
func NewFixed() *Game {
	return &Game{id: IDFixed}
}

// NewWithConfig creates a game that uses cfg as is, ignoring the
// package-level config path and preset. Replays use this to reproduce the
// rules a game was recorded with.
func NewWithConfig(id string, cfg config.TetrisConfig) *Game {
	return &Game{id: id, cfg: cfg}
}

func init() {
	registry.Register(IDMarathon, func() registry.Game {
		return New()
	})
	registry.Register(IDFixed, func() registry.Game {
		return NewFixed()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.id == IDFixed || config.IsFixedPreset(g.cfg.Difficulty.Preset) {
		return "Blockfall (Fixed Speed)"
	}
	return "Blockfall"
}

// Reset creates a fresh idle session. The config is loaded on the first
// Reset unless one was supplied with NewWithConfig.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.cfg.Scoring.LinesPerLevel == 0 {
		g.cfg = loadConfig(g.id)
	}

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	g.frame = time.Second / time.Duration(tickRate)
	g.tick = 0
	g.session = NewSession(RulesFromConfig(g.cfg), cfg.Seed)
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize updates the screen size used for layout. It never touches the
// session, so a resize mid-game keeps replays deterministic.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minScreenW || h < minScreenH
}

// MinSize returns the smallest screen the game can be drawn on.
func (g *Game) MinSize() (w, h int) {
	return minScreenW, minScreenH
}

// loadConfig resolves the config for a game ID from the package settings.
// A broken custom config falls back to defaults; the CLI validates it first.
func loadConfig(id string) config.TetrisConfig {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	// The --difficulty flag wins over the preset named in the file.
	preset := config.DifficultyPreset(difficultyPreset)
	if preset == "" {
		preset = cfg.Difficulty.Preset
	}
	config.ApplyTetrisPreset(&cfg, preset)
	if id == IDFixed && !config.IsFixedPreset(cfg.Difficulty.Preset) {
		config.ApplyTetrisPreset(&cfg, config.DifficultyFixed)
	}
	return cfg
}

// RulesFromConfig converts a loaded config into engine rules.
func RulesFromConfig(cfg config.TetrisConfig) Rules {
	return Rules{
		LineClear:      append([]int(nil), cfg.Scoring.LineClear...),
		SoftDropPoints: cfg.Scoring.SoftDrop,
		HardDropPoints: cfg.Scoring.HardDrop,
		LinesPerLevel:  cfg.Scoring.LinesPerLevel,
		BaseInterval:   time.Duration(cfg.Gravity.BaseIntervalMS) * time.Millisecond,
		IntervalStep:   time.Duration(cfg.Gravity.StepMS) * time.Millisecond,
		MinInterval:    time.Duration(cfg.Gravity.MinIntervalMS) * time.Millisecond,
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	for _, a := range in.Actions {
		g.apply(a)
	}
	g.session.Advance(g.frame)

	return core.StepResult{State: g.State()}
}

func (g *Game) apply(a core.Action) {
	s := g.session
	switch a {
	case core.ActionLeft:
		s.MoveLeft()
	case core.ActionRight:
		s.MoveRight()
	case core.ActionRotate:
		s.Rotate()
	case core.ActionSoftDrop:
		s.SoftDrop()
	case core.ActionHardDrop:
		s.HardDrop()
	case core.ActionPause:
		s.TogglePause()
	case core.ActionConfirm:
		if p := s.Phase(); p == PhaseIdle || p == PhaseOver {
			s.Start()
		}
	case core.ActionRestart:
		// A running game has to be paused first.
		if s.Phase() != PhasePlaying {
			s.Start()
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Level: 1}
	}
	s := g.session
	return core.GameState{
		Score:    s.Score(),
		Level:    s.Level(),
		Lines:    s.Lines(),
		Started:  s.Phase() != PhaseIdle,
		GameOver: s.Phase() == PhaseOver,
		Paused:   s.Phase() == PhasePaused,
	}
}

// Session exposes the underlying engine session.
func (g *Game) Session() *Session {
	return g.session
}

// Config returns the configuration the game is running with.
func (g *Game) Config() config.TetrisConfig {
	return g.cfg
}

// Tick returns the number of Steps since the last Reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→: Move | ↑: Rotate | ↓: Soft drop | Space: Hard drop | P: Pause | R: Restart | Q: Quit"
}
