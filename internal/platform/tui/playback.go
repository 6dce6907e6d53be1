package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// playbackSpeeds are the selectable ticks-per-frame multipliers.
var playbackSpeeds = []int{1, 2, 4, 8, 16}

// PlaybackKeyMap defines the key bindings for watching a replay.
type PlaybackKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlaybackKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlaybackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPlaybackKeyMap returns default key bindings.
func DefaultPlaybackKeyMap() PlaybackKeyMap {
	return PlaybackKeyMap{
		Pause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster: key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "slower")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// PlaybackModel shows a recorded game by feeding its frames to a fresh game
// at the recorded tick rate, optionally sped up.
type PlaybackModel struct {
	game      *tetris.Game
	journal   replay.Journal
	next      int // index of the next journal frame
	screen    *core.Screen
	keys      PlaybackKeyMap
	help      help.Model
	tickRate  int
	speed     int // index into playbackSpeeds
	paused    bool
	quitting  bool
	goingBack bool
	loop      uint64
}

// NewPlaybackModel prepares playback of j on a screen of the given size.
func NewPlaybackModel(j replay.Journal, width, height int) (PlaybackModel, error) {
	g, err := replay.NewGame(j)
	if err != nil {
		return PlaybackModel{}, err
	}
	g.Resize(width, gameHeight(height))

	h := help.New()
	h.Width = width

	return PlaybackModel{
		game:     g,
		journal:  j,
		screen:   core.NewScreen(width, gameHeight(height)),
		keys:     DefaultPlaybackKeyMap(),
		help:     h,
		tickRate: j.TickRate,
		loop:     newLoop(),
	}, nil
}

// Init starts the tick loop.
func (m PlaybackModel) Init() tea.Cmd {
	return tickCmd(m.tickRate, m.loop)
}

// Update handles messages.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = core.Clamp(m.speed+1, 0, len(playbackSpeeds)-1)
		case key.Matches(msg, m.keys.Slower):
			m.speed = core.Clamp(m.speed-1, 0, len(playbackSpeeds)-1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		h := gameHeight(msg.Height)
		m.screen.Resize(msg.Width, h)
		m.game.Resize(msg.Width, h)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		if !m.paused {
			for range playbackSpeeds[m.speed] {
				m.step()
			}
		}
		return m, tickCmd(m.tickRate, m.loop)
	}

	return m, nil
}

// step advances playback by one recorded tick.
func (m *PlaybackModel) step() {
	if m.Done() {
		return
	}
	var in core.InputFrame
	tick := m.game.Tick() + 1
	if m.next < len(m.journal.Frames) && m.journal.Frames[m.next].Tick == tick {
		in = m.journal.Frames[m.next].Input()
		m.next++
	}
	m.game.Step(in)
}

// Done reports whether every recorded tick has been played.
func (m PlaybackModel) Done() bool {
	return m.game.Tick() >= m.journal.Ticks
}

// View renders the game and the playback status line.
func (m PlaybackModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	m.game.Render(m.screen)

	state := fmt.Sprintf("tick %d/%d  x%d", m.game.Tick(), m.journal.Ticks, playbackSpeeds[m.speed])
	switch {
	case m.Done():
		state += "  finished"
	case m.paused:
		state += "  paused"
	}
	return RenderScreen(m.screen) + "\n" + statusStyle.Render(state) + "  " + helpStyle.Render(m.help.View(m.keys))
}

// IsGoingBack returns true if the user left playback without quitting.
func (m PlaybackModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlaybackModel) IsQuitting() bool {
	return m.quitting
}

// RunPlayback plays a journal in its own Bubble Tea program.
func RunPlayback(j replay.Journal, width, height int) error {
	model, err := NewPlaybackModel(j, width, height)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
