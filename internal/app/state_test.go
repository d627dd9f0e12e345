package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/tripstat/internal/models"
)

func testSnapshot(zones ...string) *models.Snapshot {
	snap := &models.Snapshot{Path: "trips.csv"}
	for i, z := range zones {
		count := int64(len(zones) - i)
		snap.TopZones = append(snap.TopZones, models.ZoneCount{Zone: z, Count: count})
		snap.TotalTrips += count
	}
	snap.DistinctZones = len(zones)
	snap.Stats = models.IngestStats{Readable: true, Lines: snap.TotalTrips, Accepted: snap.TotalTrips}
	return snap
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if len(s.GetRuns()) != 0 {
		t.Error("Runs should be empty")
	}
	if s.GetSnapshot() != nil {
		t.Error("Snapshot should be nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("ingest", true)
	if !s.Loading.Ingest || !s.IsIngestLoading() {
		t.Error("Ingest loading should be true")
	}

	s.SetLoading("ingest", false)
	if s.IsIngestLoading() {
		t.Error("IsIngestLoading should be false")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if s.IsInitialLoading() {
		t.Error("IsInitialLoading should be false")
	}
	if got := s.GetLoadingResources(); len(got) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", got)
	}

	s.SetLoading("history", true)
	if diff := cmp.Diff([]string{"history"}, s.GetLoadingResources()); diff != "" {
		t.Errorf("GetLoadingResources mismatch (-want +got):\n%s", diff)
	}

	s.SetLoading("unknown", true)
	if diff := cmp.Diff([]string{"history"}, s.GetLoadingResources()); diff != "" {
		t.Errorf("unknown resource changed state (-want +got):\n%s", diff)
	}
}

func TestState_SetSnapshot_KeepsSelection(t *testing.T) {
	tests := []struct {
		name     string
		next     *models.Snapshot
		selected int
		want     int
		wantZone string
		wantOK   bool
	}{
		{
			name:     "zone moved down",
			next:     testSnapshot("Harbor", "Airport", "Midtown"),
			selected: 1,
			want:     2,
			wantZone: "Midtown",
			wantOK:   true,
		},
		{
			name:     "zone dropped out",
			next:     testSnapshot("Harbor", "Airport"),
			selected: 2,
			want:     0,
			wantZone: "Harbor",
			wantOK:   true,
		},
		{
			name:     "nil snapshot",
			next:     nil,
			selected: 1,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.SetSnapshot(testSnapshot("Airport", "Midtown", "Station"))
			s.SetSelectedZoneIndex(tt.selected)

			s.SetSnapshot(tt.next)

			if got := s.GetSelectedZoneIndex(); got != tt.want {
				t.Errorf("GetSelectedZoneIndex() = %d, want %d", got, tt.want)
			}
			zone, ok := s.GetSelectedZone()
			if ok != tt.wantOK {
				t.Fatalf("GetSelectedZone() ok = %v, want %v", ok, tt.wantOK)
			}
			if zone.Zone != tt.wantZone {
				t.Errorf("GetSelectedZone() = %q, want %q", zone.Zone, tt.wantZone)
			}
		})
	}
}

func TestState_SetSnapshot_UpdatesTimestamp(t *testing.T) {
	s := NewState()
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any snapshot")
	}

	before := time.Now()
	s.SetSnapshot(testSnapshot("Airport"))
	if s.GetLastUpdated().Before(before) {
		t.Error("LastUpdated should be refreshed by SetSnapshot")
	}
	if s.TimeSinceUpdate() < 0 {
		t.Error("TimeSinceUpdate should not be negative")
	}
}

func TestState_SelectedZoneOutOfRange(t *testing.T) {
	s := NewState()
	if _, ok := s.GetSelectedZone(); ok {
		t.Error("GetSelectedZone should fail without a snapshot")
	}

	s.SetSnapshot(testSnapshot("Airport"))
	s.SetSelectedZoneIndex(5)
	if _, ok := s.GetSelectedZone(); ok {
		t.Error("GetSelectedZone should fail for an out of range index")
	}
	s.SetSelectedZoneIndex(-1)
	if _, ok := s.GetSelectedZone(); ok {
		t.Error("GetSelectedZone should fail for a negative index")
	}
}

func TestState_Runs(t *testing.T) {
	s := NewState()
	runs := []models.Run{{ID: 2, Leader: "Harbor"}, {ID: 1, Leader: "Airport"}}
	s.SetRuns(runs)

	got := s.GetRuns()
	if diff := cmp.Diff(runs, got); diff != "" {
		t.Errorf("GetRuns mismatch (-want +got):\n%s", diff)
	}

	got[0].Leader = "changed"
	if s.GetRuns()[0].Leader != "Harbor" {
		t.Error("GetRuns should return a copy")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("GetNotifications length = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Message = %q, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}

	s.AddNotification(NotificationError, "expired", time.Nanosecond)
	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("Expired notification should be cleared")
	}

	s.AddNotification(NotificationInfo, "a", 0)
	s.AddNotification(NotificationInfo, "b", 0)
	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should remove everything")
	}
}

func TestState_NotificationIDsAreUnique(t *testing.T) {
	s := NewState()
	a := s.AddNotification(NotificationInfo, "a", 0)
	b := s.AddNotification(NotificationInfo, "b", 0)
	if a == b {
		t.Errorf("IDs should differ, both %q", a)
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()
	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("notification count = %d, want %d", got, maxNotifications)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Still loading...")

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected a single loading notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID || notifs[0].Type != NotificationLoading {
		t.Errorf("unexpected loading notification %+v", notifs[0])
	}
	if notifs[0].Message != "Still loading..." {
		t.Errorf("Message = %q, want updated text", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestNotification_IsExpired(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-time.Hour), Duration: 0}
	if n.IsExpired() {
		t.Error("Zero duration should never expire")
	}
	n.Duration = time.Minute
	if !n.IsExpired() {
		t.Error("Notification should have expired")
	}
}
