package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// helpHeight is the number of rows reserved under the game for the footer.
const helpHeight = 1

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// resizable is implemented by games whose layout follows the terminal size
// without restarting.
type resizable interface {
	Resize(w, h int)
	MinSize() (w, h int)
}

// Options configures a game Model.
type Options struct {
	// Store receives a replay when a game ends. Nil disables recording.
	Store *storage.Store

	// Logger receives session events. Defaults to log.Default().
	Logger *log.Logger

	// Player is recorded in replays (the SSH user, or $USER locally).
	Player string

	// NoRecord disables replay recording even when Store is set.
	NoRecord bool

	// Standalone makes Back quit the program instead of returning to a menu.
	Standalone bool
}

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	opts        Options
	logger      *log.Logger
	config      core.RuntimeConfig
	inputFrame  core.InputFrame
	gameState   core.GameState
	keyMapper   *KeyMapper
	help        help.Model
	recorder    *replay.Recorder
	status      string
	lastReplay  int64
	quitting    bool
	backToMenu  bool
	replaySaved bool   // Whether the current game's replay has been handled
	loop        uint64 // tick loop ID
}

// NewModel creates a model for the given game and resets it.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		loop:       newLoop(),
	}
	m.startGame()
	return m
}

func gameHeight(h int) int {
	return max(h-helpHeight, 1)
}

// gameConfig is the runtime config handed to the game: the terminal minus
// the footer row.
func (m Model) gameConfig() core.RuntimeConfig {
	c := m.config
	c.ScreenH = gameHeight(c.ScreenH)
	return c
}

// startGame resets the game with the current seed and starts a new journal.
func (m *Model) startGame() {
	rc := m.gameConfig()
	m.game.Reset(rc)
	m.gameState = m.game.State()
	m.replaySaved = false
	m.recorder = nil

	if m.opts.Store != nil && !m.opts.NoRecord {
		if c, ok := m.game.(replay.Configured); ok {
			m.recorder = replay.NewRecorder(m.game.ID(), m.opts.Player, c.Config(), rc)
		}
	}
	m.logger.Debug("game reset", "game", m.game.ID(), "seed", rc.Seed)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		// Leaving is only allowed when no game is running.
		st := m.gameState
		if st.Started && !st.GameOver && !st.Paused {
			return m, nil
		}
		if m.opts.Standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		st := m.gameState
		if st.Started && !st.GameOver && !st.Paused {
			return m, nil
		}
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	h := gameHeight(msg.Height)
	m.screen.Resize(msg.Width, h)

	r, ok := m.game.(resizable)
	if !ok {
		// Games without their own layout handling restart at the new size.
		if !m.gameState.GameOver {
			m.startGame()
		}
		return m, nil
	}

	r.Resize(msg.Width, h)
	minW, minH := r.MinSize()
	st := m.gameState
	if (msg.Width < minW || h < minH) && st.Started && !st.Paused && !st.GameOver {
		// Pause through the input stream so the replay sees it too.
		m.inputFrame.Set(core.ActionPause)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Restart after game over or from pause begins a new game with a fresh
	// seed; the restart action itself is then applied to the new game. An
	// abandoned game is not recorded.
	if st := m.gameState; m.inputFrame.Has(core.ActionRestart) && (st.GameOver || st.Paused) {
		if st.Paused {
			m.logger.Info("game abandoned", "game", m.game.ID(), "player", m.opts.Player, "score", st.Score)
		}
		m.config.Seed = time.Now().UnixNano()
		m.startGame()
	}

	if m.recorder != nil {
		m.recorder.Record(m.inputFrame)
	}

	prev := m.gameState
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.Started && !prev.Started {
		m.status = ""
		m.logger.Info("game started", "game", m.game.ID(), "player", m.opts.Player, "seed", m.config.Seed)
	}

	if m.gameState.GameOver && !m.replaySaved {
		m.replaySaved = true
		m.finishGame()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.loop)
}

// finishGame logs the result and stores the replay. Storage failures are
// logged; the session continues.
func (m *Model) finishGame() {
	st := m.gameState
	m.logger.Info("game over",
		"game", m.game.ID(),
		"player", m.opts.Player,
		"score", st.Score,
		"lines", st.Lines,
		"level", st.Level,
	)

	if m.recorder == nil {
		return
	}

	j := m.recorder.Finish(st)
	id, err := replay.Save(m.opts.Store, j)
	if err != nil {
		m.logger.Error("could not save replay", "game", m.game.ID(), "error", err)
		m.status = "replay not saved"
		return
	}
	m.lastReplay = id
	m.status = fmt.Sprintf("replay #%d saved", id)
	m.logger.Info("replay saved", "id", id, "ticks", j.Ticks)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, config.AppDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}

	m.status = "screenshot saved"
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := helpStyle.Render(m.help.View(m.keyMapper.Keys()))
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "  " + footer
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// GameState returns the state reported by the last tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// LastReplayID returns the ID of the most recently saved replay, or 0.
func (m Model) LastReplayID() int64 {
	return m.lastReplay
}

// Run starts a standalone Bubble Tea program for one game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	opts.Standalone = true
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
