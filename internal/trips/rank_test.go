package trips

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/tripstat/internal/models"
)

func newTestAnalyzer(t *testing.T, rows ...string) *Analyzer {
	t.Helper()
	a := NewAnalyzer()
	a.Ingest(strings.NewReader(header + "\n" + strings.Join(rows, "\n")))
	return a
}

func repeat(n int, line string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = line
	}
	return out
}

func TestTopZones_NonPositiveK(t *testing.T) {
	a := newTestAnalyzer(t, row("A", "2021-05-01 10:00:00"))

	for _, k := range []int{0, -1, -100} {
		if got := a.TopZones(k); len(got) != 0 {
			t.Errorf("TopZones(%d) = %v, want empty", k, got)
		}
		if got := a.TopBusySlots(k); len(got) != 0 {
			t.Errorf("TopBusySlots(%d) = %v, want empty", k, got)
		}
	}
}

func TestTopZones_TieBreakIgnoresInsertionOrder(t *testing.T) {
	var rows []string
	rows = append(rows, repeat(5, row("B", "2021-05-01 10:00:00"))...)
	rows = append(rows, repeat(5, row("A", "2021-05-01 11:00:00"))...)
	a := newTestAnalyzer(t, rows...)

	want := []models.ZoneCount{{Zone: "A", Count: 5}, {Zone: "B", Count: 5}}
	if diff := cmp.Diff(want, a.TopZones(2)); diff != "" {
		t.Errorf("TopZones(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestTopZones_Ordering(t *testing.T) {
	var rows []string
	rows = append(rows, repeat(3, row("Midtown", "2021-05-01 08:00:00"))...)
	rows = append(rows, repeat(7, row("Airport", "2021-05-01 09:00:00"))...)
	rows = append(rows, repeat(3, row("Harbor", "2021-05-01 10:00:00"))...)
	rows = append(rows, repeat(1, row("Zoo", "2021-05-01 11:00:00"))...)
	rows = append(rows, repeat(3, row("airport", "2021-05-01 12:00:00"))...)
	a := newTestAnalyzer(t, rows...)

	tests := []struct {
		name string
		k    int
		want []models.ZoneCount
	}{
		{
			name: "Top1",
			k:    1,
			want: []models.ZoneCount{{Zone: "Airport", Count: 7}},
		},
		{
			name: "Top3CutsInsideTie",
			k:    3,
			want: []models.ZoneCount{
				{Zone: "Airport", Count: 7},
				{Zone: "Harbor", Count: 3},
				{Zone: "Midtown", Count: 3},
			},
		},
		{
			name: "KLargerThanZones",
			k:    50,
			want: []models.ZoneCount{
				{Zone: "Airport", Count: 7},
				{Zone: "Harbor", Count: 3},
				{Zone: "Midtown", Count: 3},
				{Zone: "airport", Count: 3},
				{Zone: "Zoo", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.TopZones(tt.k)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TopZones(%d) mismatch (-want +got):\n%s", tt.k, diff)
			}
			if len(got) > tt.k {
				t.Errorf("TopZones(%d) returned %d entries", tt.k, len(got))
			}
		})
	}
}

func TestTopBusySlots_Ordering(t *testing.T) {
	var rows []string
	rows = append(rows, repeat(4, row("B", "2021-05-01 17:00:00"))...)
	rows = append(rows, repeat(4, row("B", "2021-05-01 08:00:00"))...)
	rows = append(rows, repeat(4, row("A", "2021-05-01 22:00:00"))...)
	rows = append(rows, repeat(6, row("C", "2021-05-01 00:10:00"))...)
	rows = append(rows, repeat(1, row("A", "2021-05-01 03:00:00"))...)
	a := newTestAnalyzer(t, rows...)

	want := []models.SlotCount{
		{Zone: "C", Hour: 0, Count: 6},
		{Zone: "A", Hour: 22, Count: 4},
		{Zone: "B", Hour: 8, Count: 4},
		{Zone: "B", Hour: 17, Count: 4},
		{Zone: "A", Hour: 3, Count: 1},
	}
	if diff := cmp.Diff(want, a.TopBusySlots(10)); diff != "" {
		t.Errorf("TopBusySlots(10) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want[:2], a.TopBusySlots(2)); diff != "" {
		t.Errorf("TopBusySlots(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestTopBusySlots_OnlyTouchedCells(t *testing.T) {
	a := newTestAnalyzer(t,
		row("A", "2021-05-01 01:00:00"),
		row("A", "2021-05-01 02:00:00"),
	)

	if got := a.TopBusySlots(100); len(got) != 2 {
		t.Errorf("TopBusySlots(100) returned %d slots, want 2: %v", len(got), got)
	}
}

func TestTopZones_DoesNotMutate(t *testing.T) {
	a := newTestAnalyzer(t,
		row("A", "2021-05-01 01:00:00"),
		row("B", "2021-05-01 02:00:00"),
		row("B", "2021-05-01 02:00:00"),
	)

	first := a.TopZones(1)
	_ = a.TopBusySlots(1)
	second := a.TopZones(5)

	if diff := cmp.Diff(first, second[:1]); diff != "" {
		t.Errorf("ranking changed between queries (-first +second):\n%s", diff)
	}
	if a.TotalTrips() != 3 {
		t.Errorf("TotalTrips() = %d, want 3", a.TotalTrips())
	}
}

func TestTruncate_CapsCapacity(t *testing.T) {
	s := truncate([]int{1, 2, 3, 4}, 2)
	if len(s) != 2 || cap(s) != 2 {
		t.Errorf("truncate() len=%d cap=%d, want 2/2", len(s), cap(s))
	}
}
