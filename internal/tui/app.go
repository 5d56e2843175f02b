package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/wm"
)

// refreshInterval is how often the dashboard polls the daemon.
const refreshInterval = time.Second

// Client is the part of the IPC client the dashboard drives.
type Client interface {
	GetState() (*wm.State, error)
	GetConfig() (*config.Config, error)
	SwitchTag(n int) (string, error)
	Focus(id wm.WindowID) (string, error)
	Action(action string) (string, error)
	Set(key, value string) (string, error)
}

type stateMsg struct {
	state *wm.State
	cfg   *config.Config
	err   error
}

type tickMsg time.Time

type resultMsg struct {
	message string
	err     error
}

// row is one line of the windows tab: a tag, or a window on it.
type row struct {
	tag    wm.TagID
	window wm.WindowID // NoWindow for tag rows
}

// model is the root bubbletea model for the dashboard.
type model struct {
	client Client
	keys   keyMap
	help   help.Model

	activeTab Tab
	state     *wm.State
	cfg       *config.Config
	rows      []row
	cursor    int

	// Daemon state
	connected bool
	status    string
	lastErr   error

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Client) model {
	return model{
		client: client,
		keys:   newKeyMap(),
		help:   help.New(),
	}
}

func fetchState(c Client) tea.Cmd {
	return func() tea.Msg {
		st, err := c.GetState()
		if err != nil {
			return stateMsg{err: err}
		}
		cfg, err := c.GetConfig()
		return stateMsg{state: st, cfg: cfg, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// run performs the calls in order, stopping at the first error.
func run(calls ...func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		var last string
		for _, call := range calls {
			msg, err := call()
			if err != nil {
				return resultMsg{err: err}
			}
			last = msg
		}
		return resultMsg{message: last}
	}
}

func buildRows(st *wm.State) []row {
	var rows []row
	for _, t := range st.Tags {
		rows = append(rows, row{tag: t.ID})
		for _, id := range t.Windows {
			rows = append(rows, row{tag: t.ID, window: id})
		}
	}
	return rows
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchState(m.client), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchState(m.client), tick())

	case stateMsg:
		if msg.err != nil {
			m.connected = false
			m.lastErr = msg.err
			return m, nil
		}
		m.connected = true
		m.lastErr = nil
		m.state = msg.state
		m.cfg = msg.cfg
		m.rows = buildRows(msg.state)
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case resultMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = msg.message
		}
		return m, fetchState(m.client)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.client
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
	case key.Matches(msg, m.keys.Refresh):
		return m, fetchState(c)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tag):
		n := int(msg.Runes[0] - '0')
		return m, run(func() (string, error) { return c.SwitchTag(n) })
	case key.Matches(msg, m.keys.Bar):
		return m, run(func() (string, error) { return c.Action("toggle_bar") })
	}
	m.keys.tab = m.activeTab

	if m.state == nil {
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == TabLayout {
		cmd = m.layoutKey(msg)
	} else {
		cmd = m.windowsKey(msg)
	}
	return m, cmd
}

func (m *model) windowsKey(msg tea.KeyMsg) tea.Cmd {
	c := m.client
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		r, ok := m.selected()
		if !ok {
			return nil
		}
		if r.window == wm.NoWindow {
			n := r.tag.Number()
			return run(func() (string, error) { return c.SwitchTag(n) })
		}
		id := r.window
		return run(func() (string, error) { return c.Focus(id) })
	case key.Matches(msg, m.keys.Float), key.Matches(msg, m.keys.Close):
		r, ok := m.selected()
		if !ok || r.window == wm.NoWindow {
			return nil
		}
		action := "toggle_floating"
		if key.Matches(msg, m.keys.Close) {
			action = "close_window"
		}
		id := r.window
		return run(
			func() (string, error) { return c.Focus(id) },
			func() (string, error) { return c.Action(action) },
		)
	}
	return nil
}

func (m *model) layoutKey(msg tea.KeyMsg) tea.Cmd {
	c := m.client
	action := func(a string) tea.Cmd {
		return run(func() (string, error) { return c.Action(a) })
	}
	switch {
	case key.Matches(msg, m.keys.Cycle):
		return action("cycle_layout")
	case key.Matches(msg, m.keys.Shrink):
		return action("decrease_master")
	case key.Matches(msg, m.keys.Grow):
		return action("increase_master")
	case key.Matches(msg, m.keys.Fewer):
		return action("decrease_master_count")
	case key.Matches(msg, m.keys.More):
		return action("increase_master_count")
	case key.Matches(msg, m.keys.GapDown), key.Matches(msg, m.keys.GapUp):
		if m.cfg == nil {
			return nil
		}
		gap := m.cfg.Appearance.InnerGap - 2
		if key.Matches(msg, m.keys.GapUp) {
			gap = m.cfg.Appearance.InnerGap + 2
		}
		gap = min(max(gap, 0), config.MaxGapSize)
		return run(func() (string, error) { return c.Set("gap", fmt.Sprint(gap)) })
	}
	return nil
}

func (m model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.summary(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	m.keys.tab = m.activeTab
	footer := m.help.View(m.keys)
	if m.lastErr != nil {
		footer = errorStyle.Render(m.lastErr.Error()) + "\n" + footer
	} else if m.status != "" {
		footer = dimStyle.Render(m.status) + "\n" + footer
	}

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(footer)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	switch {
	case m.state == nil:
		content = dimStyle.Render("waiting for daemon...")
	case m.activeTab == TabLayout:
		content = m.layoutView()
	default:
		content = m.windowsView(contentHeight)
	}
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, footer)
}

func (m model) summary() string {
	if m.state == nil {
		return "daemon connected"
	}
	t := m.state.CurrentTag()
	return fmt.Sprintf("tag %d: %s  %s  %d windows", t.ID.Number(), t.Name, t.Layout.Type, len(t.Windows))
}
