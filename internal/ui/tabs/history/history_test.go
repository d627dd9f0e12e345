package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/config"
	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/services"
)

const sampleTrips = "id,zone,vendor,pickup,dropoff,fare\n" +
	"1,Airport,v,2024-01-01 08:10:00,d,9.5\n" +
	"2,Airport,v,2024-01-01 08:40:00,d,9.5\n" +
	"3,Harbor,v,2024-01-01 17:05:00,d,9.5\n"

// newHistoryManager returns a manager with one stored run.
func newHistoryManager(t *testing.T) (*services.Manager, *models.Snapshot) {
	t.Helper()
	dir := t.TempDir()
	mgr, err := services.NewManager(&config.Config{
		DatabasePath: filepath.Join(dir, "runs.db"),
		TopZones:     3,
		TopSlots:     3,
		HistoryLimit: 10,
	})
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	path := filepath.Join(dir, "trips.csv")
	if err := os.WriteFile(path, []byte(sampleTrips), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := mgr.Ingest(path)
	if err != nil {
		t.Fatal(err)
	}
	return mgr, snap
}

func newTestModel(t *testing.T) (*Model, *services.Manager, *models.Snapshot) {
	t.Helper()
	mgr, snap := newHistoryManager(t)
	runs, err := mgr.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	state := app.NewState()
	state.HistoryEnabled = true
	state.SetRuns(runs)

	m := New(state, mgr)
	m.SetSize(120, 80)
	return m, mgr, snap
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestRunRows(t *testing.T) {
	runs := []models.Run{
		{ID: 7, Path: "/data/trips.csv", IngestedAt: time.Now(), TotalTrips: 1200, DistinctZones: 3, Skipped: 2, Leader: "Airport", LeaderCount: 900},
		{ID: 6, Path: "/data/empty.csv", IngestedAt: time.Now()},
	}
	rows := runRows(runs)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	want := []string{"7", "", "trips.csv", "1,200", "3", "2", "Airport (900)"}
	for i, cell := range want {
		if i == 1 {
			continue
		}
		if rows[0][i] != cell {
			t.Errorf("cell %d = %q, want %q", i, rows[0][i], cell)
		}
	}
	if rows[1][6] != "-" {
		t.Errorf("run without leader shows %q, want -", rows[1][6])
	}
}

func TestModel_View_Disabled(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(100, 40)
	if view := m.View(); !strings.Contains(view, "Run history is disabled") {
		t.Error("view should explain that history is disabled")
	}
}

func TestModel_View_Empty(t *testing.T) {
	state := app.NewState()
	state.HistoryEnabled = true
	m := New(state, nil)
	m.SetSize(100, 40)
	if view := m.View(); !strings.Contains(view, "No runs recorded yet") {
		t.Error("view should explain that no runs exist")
	}
}

func TestModel_View_List(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"1 most recent runs", "trips.csv", "Airport (2)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_OpenAndCloseRun(t *testing.T) {
	m, _, snap := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should load the run")
	}
	if !m.loading || m.detailID != snap.RunID {
		t.Errorf("loading = %v, detailID = %d; want true, %d", m.loading, m.detailID, snap.RunID)
	}
	if view := m.View(); !strings.Contains(view, "Loading run") {
		t.Error("view should show loading state")
	}

	msg, ok := cmd().(app.RunDetailMsg)
	if !ok {
		t.Fatal("expected RunDetailMsg")
	}
	m.Update(msg)
	if m.loading || m.detail == nil {
		t.Fatal("detail should be loaded")
	}
	view := m.View()
	for _, want := range []string{"Run #", "Busiest zones", "Airport"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.inDetail() || m.detail != nil {
		t.Error("esc should return to the list")
	}
}

func TestModel_StaleDetailIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(app.RunDetailMsg{ID: 999, Snapshot: &models.Snapshot{}})
	if m.detail != nil {
		t.Error("detail for a run that was not requested should be ignored")
	}
}

func TestModel_DetailError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNotify bool
	}{
		{"load failure", errors.New("run not found"), true},
		{"history disabled", services.ErrNoHistory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, snap := newTestModel(t)
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})

			_, cmd := m.Update(app.RunDetailMsg{ID: snap.RunID, Error: tt.err})
			if (cmd != nil) != tt.wantNotify {
				t.Errorf("notify = %v, want %v", cmd != nil, tt.wantNotify)
			}
			if m.inDetail() {
				t.Error("failed load should return to the list")
			}
			if view := m.View(); !strings.Contains(view, tt.err.Error()) {
				t.Errorf("view should show %q", tt.err)
			}
		})
	}
}

func TestModel_Reload(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	if cmd == nil {
		t.Fatal("u should request a reload")
	}
	if msg, ok := cmd().(app.RefreshMsg); !ok || msg.Resource != "history" {
		t.Errorf("unexpected reload message %#v", msg)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
