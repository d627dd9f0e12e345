// Package history provides the history tab for browsing stored ingest runs.
package history

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/services"
	"github.com/j-veylop/tripstat/internal/ui/components"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	Open   key.Binding
	Back   key.Binding
	Reload key.Binding
	Up     key.Binding
	Down   key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open run"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back to list"),
		),
		Reload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "reload runs"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	table    table.Model
	viewport viewport.Model

	runs []models.Run

	// Detail view state
	detail   *models.Snapshot
	detailID int64
	loading  bool
	errorMsg string
}

// New creates a new history model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		services: svc,
		keys:     defaultKeyMap(),
		table:    newRunsTable(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.sync()

	switch msg := msg.(type) {
	case app.RunDetailMsg:
		if msg.ID != m.detailID {
			return m, nil
		}
		m.loading = false
		if msg.Error != nil {
			m.detailID = 0
			m.errorMsg = msg.Error.Error()
			if isDisabled(msg.Error) {
				return m, nil
			}
			return m, func() tea.Msg {
				return app.AddNotificationMsg{
					Type:     app.NotificationError,
					Message:  fmt.Sprintf("History error: %s", msg.Error),
					Duration: app.LongNotificationDuration,
				}
			}
		}
		m.errorMsg = ""
		m.detail = msg.Snapshot
		m.viewport.GotoTop()

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func newRunsTable() table.Model {
	return components.NewRankTable([]table.Column{
		{Title: "Run", Width: 5},
		{Title: "When", Width: 16},
		{Title: "File", Width: 20},
		{Title: "Trips", Width: 10},
		{Title: "Zones", Width: 7},
		{Title: "Skipped", Width: 8},
		{Title: "Busiest zone", Width: 28},
	})
}

// sync refreshes the run list from the shared state.
func (m *Model) sync() {
	m.runs = m.state.GetRuns()
	m.table.SetRows(runRows(m.runs))
}

func runRows(runs []models.Run) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		leader := "-"
		if r.Leader != "" {
			leader = fmt.Sprintf("%s (%s)", r.Leader, humanize.Comma(r.LeaderCount))
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.ID),
			humanize.Time(r.IngestedAt),
			filepath.Base(r.Path),
			humanize.Comma(r.TotalTrips),
			humanize.Comma(int64(r.DistinctZones)),
			humanize.Comma(r.Skipped),
			leader,
		})
	}
	return rows
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.inDetail() {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.detail = nil
			m.detailID = 0
			m.loading = false
			return nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()

	case key.Matches(msg, m.keys.Reload):
		return func() tea.Msg { return app.RefreshMsg{Resource: "history"} }

	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)

	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
	}
	return nil
}

func (m *Model) openSelected() tea.Cmd {
	idx := m.table.Cursor()
	if m.services == nil || idx < 0 || idx >= len(m.runs) {
		return nil
	}
	m.detailID = m.runs[idx].ID
	m.detail = nil
	m.loading = true
	m.errorMsg = ""
	return app.LoadRunDetailCmd(m.services, m.detailID)
}

func (m *Model) inDetail() bool {
	return m.detailID != 0
}

func (m *Model) historyDisabled() bool {
	if m.services == nil {
		return !m.state.HistoryEnabled
	}
	return !m.services.HistoryEnabled()
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.table.SetHeight(max(height-8, 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Open,
		m.keys.Back,
		m.keys.Reload,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Open, m.keys.Back, m.keys.Reload},
		{m.keys.Up, m.keys.Down},
	}
}

// isDisabled reports whether err means no history database is open.
func isDisabled(err error) bool {
	return errors.Is(err, services.ErrNoHistory)
}
