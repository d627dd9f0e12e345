package zones

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/models"
)

func testSnapshot() *models.Snapshot {
	var airport, harbor, total models.HourlyProfile
	airport[8] = 5
	airport[9] = 1
	harbor[17] = 3
	for h := range total {
		total[h] = airport[h] + harbor[h]
	}
	return &models.Snapshot{
		Path:          "/data/trips.csv",
		Stats:         models.IngestStats{Readable: true, Lines: 9, Accepted: 9},
		TotalTrips:    9,
		DistinctZones: 2,
		TopZones: []models.ZoneCount{
			{Zone: "Airport", Count: 6},
			{Zone: "Harbor", Count: 3},
		},
		Hourly:   total,
		Profiles: map[string]models.HourlyProfile{"Airport": airport, "Harbor": harbor},
	}
}

func newTestModel(snap *models.Snapshot) (*Model, *app.State) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetSnapshot(snap)
	m := New(state)
	m.SetSize(100, 80)
	return m, state
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestZoneRows(t *testing.T) {
	rows := zoneRows(testSnapshot())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	want := []string{"1", "Airport", "6", "66.7%", "08:00"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("row 0 cell %d = %q, want %q", i, rows[0][i], cell)
		}
	}
	if zoneRows(nil) != nil {
		t.Error("nil snapshot should have no rows")
	}
}

func TestModel_Navigation(t *testing.T) {
	tests := []struct {
		name  string
		start int
		key   tea.KeyMsg
		want  int
	}{
		{"next", 0, runeKey('j'), 1},
		{"next wraps", 1, runeKey('j'), 0},
		{"prev wraps", 0, runeKey('k'), 1},
		{"down arrow", 0, tea.KeyMsg{Type: tea.KeyDown}, 1},
		{"first", 1, runeKey('g'), 0},
		{"last", 0, runeKey('G'), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, state := newTestModel(testSnapshot())
			state.SetSelectedZoneIndex(tt.start)

			_, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("selection change should return a command")
			}
			msg, ok := cmd().(app.SelectedZoneChangedMsg)
			if !ok {
				t.Fatal("expected SelectedZoneChangedMsg")
			}
			if msg.Index != tt.want || state.GetSelectedZoneIndex() != tt.want {
				t.Errorf("selected = %d (msg %d), want %d", state.GetSelectedZoneIndex(), msg.Index, tt.want)
			}
			if m.table.Cursor() != tt.want {
				t.Errorf("table cursor = %d, want %d", m.table.Cursor(), tt.want)
			}
		})
	}
}

func TestModel_NavigationWithoutData(t *testing.T) {
	m, _ := newTestModel(nil)
	if _, cmd := m.Update(runeKey('j')); cmd != nil {
		t.Error("navigation without zones should do nothing")
	}
}

func TestModel_View(t *testing.T) {
	m, state := newTestModel(testSnapshot())
	state.SetSelectedZoneIndex(1)

	view := m.View()
	for _, want := range []string{"Busiest Zones", "Airport", "Harbor", "Peak: 17:00-18:00", "Trips by Zone", "trips.csv"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_View_NoData(t *testing.T) {
	tests := []struct {
		name string
		snap *models.Snapshot
		want string
	}{
		{"nothing ingested", nil, "Nothing has been ingested"},
		{"unreadable", &models.Snapshot{Path: "/x/missing.csv"}, "Cannot read missing.csv"},
		{"no trips", &models.Snapshot{Path: "/x/trips.csv", Stats: models.IngestStats{Readable: true, Lines: 2, SkippedShort: 2}}, "No trips counted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(tt.snap)
			if view := m.View(); !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
		})
	}
}

func TestModel_View_Loading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if view := m.View(); !strings.Contains(view, "Ingesting trips") {
		t.Error("initial view should show the spinner label")
	}
}

func TestModel_View_Reingest(t *testing.T) {
	m, state := newTestModel(testSnapshot())
	state.Path = "/data/trips.csv"
	state.SetLoading("ingest", true)

	view := m.View()
	if !strings.Contains(view, "Reading trips.csv... (last pass:") {
		t.Error("re-ingest should show the spinner with the previous pass size")
	}
	if !strings.Contains(view, "Top 2") {
		t.Error("ranking should stay visible while re-ingesting")
	}
}

func TestModel_SnapshotRefresh(t *testing.T) {
	m, state := newTestModel(testSnapshot())
	m.View()

	next := testSnapshot()
	next.TopZones = next.TopZones[:1]
	state.SetSnapshot(next)
	m.Update(nil)

	if got := len(m.table.Rows()); got != 1 {
		t.Errorf("table rows = %d, want 1 after refresh", got)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("Airport", 20); got != "Airport" {
		t.Errorf("truncateLabel short = %q", got)
	}
	if got := truncateLabel("Upper East Side North", 10); got != "Upper Eas…" {
		t.Errorf("truncateLabel long = %q", got)
	}
}
