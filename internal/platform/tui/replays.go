package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const maxReplays = 100 // Max replays to load

// ReplaysKeyMap defines the key bindings for the replay browser.
type ReplaysKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Watch      key.Binding
	Verify     key.Binding
	Delete     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.Watch, k.Verify, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Watch, k.Verify, k.Delete, k.Back, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter", "w"),
			key.WithHelp("enter", "watch"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplaysModel is the Bubble Tea model for the replay browser.
type ReplaysModel struct {
	filters   []registry.GameInfo // index 0 is "all games"
	filter    int
	store     *storage.Store
	replays   []storage.ReplayEntry
	total     int
	table     table.Model
	help      help.Model
	keys      ReplaysKeyMap
	width     int
	height    int
	status    string
	watchID   int64
	quitting  bool
	goingBack bool
}

// NewReplaysModel creates a new replay browser.
func NewReplaysModel(store *storage.Store, width, height int) ReplaysModel {
	filters := append([]registry.GameInfo{{Title: "All modes"}}, registry.List()...)

	h := help.New()
	h.Width = width

	m := ReplaysModel{
		filters: filters,
		store:   store,
		keys:    DefaultReplaysKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Mode", Width: 13},
		{Title: "Player", Width: 10},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Lvl", Width: 4},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // Leave room for header, status and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches replays for the current filter.
func (m *ReplaysModel) load() {
	m.replays = nil
	m.total = 0
	if m.store != nil {
		gameID := m.filters[m.filter].ID
		replays, err := m.store.RecentReplays(gameID, maxReplays)
		if err != nil {
			m.status = err.Error()
		} else {
			m.replays = replays
		}
		if n, err := m.store.CountReplays(gameID); err == nil {
			m.total = n
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded replays.
func (m *ReplaysModel) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			r.GameID,
			r.Player,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Lines),
			strconv.Itoa(r.Level),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// selected returns the replay under the cursor.
func (m ReplaysModel) selected() (storage.ReplayEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.ReplayEntry{}, false
	}
	return m.replays[i], true
}

// Init initializes the replay browser.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the replay browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.status = ""
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter - 1 + len(m.filters)) % len(m.filters)
			m.status = ""
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Watch):
			if r, ok := m.selected(); ok {
				m.watchID = r.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Verify):
			return m, m.verifySelected()

		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil
		}

	case verifiedMsg:
		m.status = msg.status()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.updateTableRows()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// verifiedMsg carries the outcome of a background verification.
type verifiedMsg struct {
	id    int64
	score int
	err   error
}

func (v verifiedMsg) status() string {
	switch {
	case v.err == nil:
		return fmt.Sprintf("replay #%d verified: score %d reproduced", v.id, v.score)
	case errors.Is(v.err, replay.ErrMismatch):
		return fmt.Sprintf("replay #%d does NOT match its recorded result", v.id)
	default:
		return v.err.Error()
	}
}

// verifySelected loads the selected replay and returns a command that
// replays it headlessly off the update loop.
func (m *ReplaysModel) verifySelected() tea.Cmd {
	r, ok := m.selected()
	if !ok || m.store == nil {
		return nil
	}
	e, err := m.store.ReplayByID(r.ID)
	if err != nil || e == nil {
		m.status = fmt.Sprintf("replay #%d: cannot load", r.ID)
		return nil
	}
	j, err := replay.FromEntry(*e)
	if err != nil {
		m.status = err.Error()
		return nil
	}

	m.status = fmt.Sprintf("verifying replay #%d...", r.ID)
	return func() tea.Msg {
		return verifiedMsg{id: r.ID, score: j.Result.Score, err: replay.Verify(j)}
	}
}

// deleteSelected removes the selected replay.
func (m *ReplaysModel) deleteSelected() {
	r, ok := m.selected()
	if !ok || m.store == nil {
		return
	}
	if _, err := m.store.DeleteReplay(r.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.load()
	m.status = fmt.Sprintf("replay #%d deleted", r.ID)
}

// View renders the replay browser.
func (m ReplaysModel) View() string {
	if m.quitting || m.goingBack || m.watchID != 0 {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("REPLAYS - %s", m.filters[m.filter].Title)
	b.WriteString(centerStyled(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if len(m.replays) > 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d of %d", len(m.replays), m.total)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ReplaysModel) renderTableContent() string {
	if m.store == nil || len(m.replays) == 0 {
		msg := "No replays recorded yet.\nFinish a game to record one."
		if m.store == nil {
			msg = "Replay journal unavailable."
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render(msg)
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplaysModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplaysModel) IsQuitting() bool {
	return m.quitting
}

// WatchID returns the replay the user chose to watch, or 0.
func (m ReplaysModel) WatchID() int64 {
	return m.watchID
}

// Status returns the last status message.
func (m ReplaysModel) Status() string {
	return m.status
}
