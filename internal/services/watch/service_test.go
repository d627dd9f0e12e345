package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, s *Service, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "trips.csv")
	if _, err := New(path, 0); err == nil {
		t.Fatal("New() should fail when the directory does not exist")
	}
}

func TestNew_DefaultDebounce(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "trips.csv"), 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if s.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", s.debounce, DefaultDebounce)
	}
	if !filepath.IsAbs(s.Path()) {
		t.Errorf("Path() = %q, want absolute", s.Path())
	}
}

func TestService_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trips.csv")
	if err := os.WriteFile(path, []byte("header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := New(path, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.WriteString("1,Airport,x,2024-01-01 08:00:00,y,z\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	_ = f.Close()

	ev, ok := waitEvent(t, s, 2*time.Second)
	if !ok {
		t.Fatal("no event after writes")
	}
	if ev.Type != EventFileChanged {
		t.Fatalf("event type = %v, want EventFileChanged", ev.Type)
	}
	if ev.Path != s.Path() {
		t.Errorf("event path = %q, want %q", ev.Path, s.Path())
	}

	if ev, ok := waitEvent(t, s, 300*time.Millisecond); ok {
		t.Errorf("unexpected second event %+v", ev)
	}
}

func TestService_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "trips.csv"), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if ev, ok := waitEvent(t, s, 300*time.Millisecond); ok {
		t.Errorf("unexpected event for unrelated file: %+v", ev)
	}
}

func TestService_CreateIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trips.csv")
	s, err := New(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(path, []byte("header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, s, 2*time.Second)
	if !ok || ev.Type != EventFileChanged {
		t.Fatalf("expected EventFileChanged after create, got %+v (ok=%v)", ev, ok)
	}
}

func TestService_CloseIdempotent(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "trips.csv"), 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed after Close()")
	}
}

func TestSendEvent_DropsOldestWhenFull(t *testing.T) {
	s := &Service{
		eventChan: make(chan Event, 1),
		stopChan:  make(chan struct{}),
	}

	s.sendEvent(Event{Path: "first"})
	s.sendEvent(Event{Path: "second"})

	ev := <-s.Events()
	if ev.Path != "second" {
		t.Errorf("kept %q, want newest event", ev.Path)
	}
}

func TestSendEvent_AfterClose(t *testing.T) {
	s := &Service{
		eventChan: make(chan Event, 1),
		stopChan:  make(chan struct{}),
	}
	close(s.stopChan)

	s.sendEvent(Event{Path: "late"})
	if len(s.eventChan) != 0 {
		t.Error("events must not be queued after close")
	}
}
