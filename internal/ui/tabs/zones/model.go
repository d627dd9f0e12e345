// Package zones provides the busiest zones tab.
package zones

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/components"
)

// keyMap defines the key bindings specific to the zones tab.
type keyMap struct {
	NextZone  key.Binding
	PrevZone  key.Binding
	FirstZone key.Binding
	LastZone  key.Binding
}

// defaultKeyMap returns the default key bindings for the zones tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextZone: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next zone"),
		),
		PrevZone: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev zone"),
		),
		FirstZone: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first zone"),
		),
		LastZone: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last zone"),
		),
	}
}

// Model represents the zones tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	table    table.Model
	shareBar components.ShareBar
	spinner  components.IngestSpinner
	viewport viewport.Model
	width    int
	height   int

	// snap is the snapshot the table rows were built from.
	snap *models.Snapshot
}

// New creates a new zones model.
func New(state *app.State) *Model {
	return &Model{
		state: state,
		keys:  defaultKeyMap(),
		table: components.NewRankTable([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Zone", Width: 24},
			{Title: "Trips", Width: 10},
			{Title: "Share", Width: 7},
			{Title: "Peak", Width: 6},
		}),
		shareBar: components.NewShareBar(),
		spinner:  components.NewIngestSpinner(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the zones tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the zones tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.sync()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// sync rebuilds the table when the shared snapshot changed and moves the
// cursor to the shared selection.
func (m *Model) sync() {
	m.spinner.SetPath(m.state.Path)

	snap := m.state.GetSnapshot()
	if snap != m.snap {
		m.snap = snap
		if snap != nil {
			m.spinner.SetPrevious(snap.Stats)
		}
		m.table.SetRows(zoneRows(snap))
		components.FitTableHeight(&m.table, 0)
	}
	m.table.SetCursor(m.state.GetSelectedZoneIndex())
}

func zoneRows(snap *models.Snapshot) []table.Row {
	if snap == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(snap.TopZones))
	for i, z := range snap.TopZones {
		peak := "-"
		if p, ok := snap.Profiles[z.Zone]; ok && p.Total() > 0 {
			h, _ := p.Peak()
			peak = fmt.Sprintf("%02d:00", h)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			z.Zone,
			humanize.Comma(z.Count),
			fmt.Sprintf("%.1f%%", snap.Share(z.Count)),
			peak,
		})
	}
	return rows
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	zoneCount := 0
	if m.snap != nil {
		zoneCount = len(m.snap.TopZones)
	}
	idx := m.state.GetSelectedZoneIndex()

	switch {
	case key.Matches(msg, m.keys.NextZone):
		if zoneCount > 0 {
			idx = (idx + 1) % zoneCount
		}
	case key.Matches(msg, m.keys.PrevZone):
		if zoneCount > 0 {
			idx = (idx - 1 + zoneCount) % zoneCount
		}
	case key.Matches(msg, m.keys.FirstZone):
		idx = 0
	case key.Matches(msg, m.keys.LastZone):
		idx = max(zoneCount-1, 0)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if zoneCount == 0 {
		return nil
	}
	return m.selectZone(idx)
}

func (m *Model) selectZone(idx int) tea.Cmd {
	m.state.SetSelectedZoneIndex(idx)
	m.table.SetCursor(idx)

	zone := m.snap.TopZones[idx].Zone
	return func() tea.Msg {
		return app.SelectedZoneChangedMsg{Index: idx, Zone: zone}
	}
}

// SetSize sets the available size for the zones tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextZone,
		m.keys.PrevZone,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextZone, m.keys.PrevZone},
		{m.keys.FirstZone, m.keys.LastZone},
	}
}
