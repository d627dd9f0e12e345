// Package slots provides the busiest (zone, hour) slots tab.
package slots

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/components"
)

type keyMap struct {
	NextSlot key.Binding
	PrevSlot key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextSlot: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next slot"),
		),
		PrevSlot: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev slot"),
		),
	}
}

// Model represents the slots tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	table    table.Model
	viewport viewport.Model
	width    int
	height   int

	snap     *models.Snapshot
	selected int
}

// New creates a new slots model.
func New(state *app.State) *Model {
	return &Model{
		state: state,
		keys:  defaultKeyMap(),
		table: components.NewRankTable([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Zone", Width: 24},
			{Title: "Hour", Width: 6},
			{Title: "Trips", Width: 10},
			{Title: "Of zone", Width: 8},
		}),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the slots tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the slots tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.sync()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.table.Rows())
	switch {
	case key.Matches(keyMsg, m.keys.NextSlot):
		if n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case key.Matches(keyMsg, m.keys.PrevSlot):
		if n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}
	m.table.SetCursor(m.selected)
	return m, nil
}

// sync rebuilds the table when the shared snapshot changed.
func (m *Model) sync() {
	snap := m.state.GetSnapshot()
	if snap == m.snap {
		return
	}
	m.snap = snap
	m.selected = 0
	m.table.SetRows(slotRows(snap))
	m.table.SetCursor(0)
	components.FitTableHeight(&m.table, 0)
}

func slotRows(snap *models.Snapshot) []table.Row {
	if snap == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(snap.TopSlots))
	for i, s := range snap.TopSlots {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			s.Zone,
			s.HourLabel(),
			humanize.Comma(s.Count),
			zoneShare(snap, s),
		})
	}
	return rows
}

// zoneShare is the slot's share of its zone's trips, or "-" when the zone's
// profile is not part of the snapshot.
func zoneShare(snap *models.Snapshot, s models.SlotCount) string {
	p, ok := snap.Profiles[s.Zone]
	if !ok || p.Total() == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Count)/float64(p.Total())*100)
}

// selectedSlot returns the slot under the cursor.
func (m *Model) selectedSlot() (models.SlotCount, bool) {
	if m.snap == nil || m.selected < 0 || m.selected >= len(m.snap.TopSlots) {
		return models.SlotCount{}, false
	}
	return m.snap.TopSlots[m.selected], true
}

// SetSize sets the available size for the slots tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextSlot, m.keys.PrevSlot}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.NextSlot, m.keys.PrevSlot}}
}
