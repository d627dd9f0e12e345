package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSlotCount_HourLabel(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "00:00"},
		{8, "08:00"},
		{23, "23:00"},
	}
	for _, tt := range tests {
		if got := (SlotCount{Hour: tt.hour}).HourLabel(); got != tt.want {
			t.Errorf("HourLabel(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestHourlyProfile(t *testing.T) {
	var p HourlyProfile
	p[3] = 5
	p[9] = 7
	p[18] = 7

	if got := p.Total(); got != 19 {
		t.Errorf("Total() = %d, want 19", got)
	}

	hour, count := p.Peak()
	if hour != 9 || count != 7 {
		t.Errorf("Peak() = (%d, %d), want (9, 7)", hour, count)
	}

	floats := p.Floats()
	if len(floats) != HoursPerDay {
		t.Fatalf("Floats() len = %d, want %d", len(floats), HoursPerDay)
	}
	if floats[3] != 5 || floats[18] != 7 {
		t.Errorf("Floats() = %v", floats)
	}
}

func TestHourlyProfile_PeakEmpty(t *testing.T) {
	var p HourlyProfile
	if hour, count := p.Peak(); hour != 0 || count != 0 {
		t.Errorf("Peak() on empty profile = (%d, %d), want (0, 0)", hour, count)
	}
}

func TestIngestStats(t *testing.T) {
	tests := []struct {
		name        string
		stats       IngestStats
		wantSkipped int64
		wantRate    float64
	}{
		{"no lines", IngestStats{Readable: true}, 0, 0},
		{
			name: "mixed",
			stats: IngestStats{
				Lines: 10, Accepted: 6,
				SkippedEmpty: 1, SkippedShort: 1, SkippedMissing: 1, SkippedHour: 1,
			},
			wantSkipped: 4,
			wantRate:    60,
		},
		{"all accepted", IngestStats{Lines: 4, Accepted: 4}, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Skipped(); got != tt.wantSkipped {
				t.Errorf("Skipped() = %d, want %d", got, tt.wantSkipped)
			}
			if got := tt.stats.AcceptRate(); got != tt.wantRate {
				t.Errorf("AcceptRate() = %v, want %v", got, tt.wantRate)
			}
		})
	}
}

func TestSnapshot_NilSafe(t *testing.T) {
	var s *Snapshot
	if !s.IsEmpty() {
		t.Error("nil snapshot should be empty")
	}
	if s.Leader() != "" {
		t.Error("nil snapshot has no leader")
	}
	if s.Share(10) != 0 {
		t.Error("nil snapshot share should be 0")
	}
}

func TestSnapshot_LeaderAndShare(t *testing.T) {
	s := &Snapshot{
		TotalTrips: 200,
		TopZones: []ZoneCount{
			{Zone: "Airport", Count: 150},
			{Zone: "Harbor", Count: 50},
		},
	}
	if s.IsEmpty() {
		t.Error("snapshot with trips should not be empty")
	}
	if got := s.Leader(); got != "Airport" {
		t.Errorf("Leader() = %q, want Airport", got)
	}

	got := []float64{s.Share(150), s.Share(50)}
	if diff := cmp.Diff([]float64{75, 25}, got); diff != "" {
		t.Errorf("Share() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_EmptyLeader(t *testing.T) {
	s := &Snapshot{Stats: IngestStats{Readable: true}}
	if !s.IsEmpty() {
		t.Error("snapshot without trips should be empty")
	}
	if s.Leader() != "" {
		t.Error("snapshot without zones has no leader")
	}
}
