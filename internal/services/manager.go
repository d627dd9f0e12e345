// Package services provides service orchestration for the TUI and report.
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/tripstat/internal/config"
	"github.com/j-veylop/tripstat/internal/db"
	"github.com/j-veylop/tripstat/internal/logger"
	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/services/watch"
	"github.com/j-veylop/tripstat/internal/trips"
)

type (
	// IngestCompletedEvent is emitted after every ingest pass.
	IngestCompletedEvent struct {
		Snapshot *models.Snapshot
		// Err is set when the snapshot could not be stored.
		Err error
	}

	// FileChangedEvent is emitted when the watched file changes, before it
	// is re-ingested.
	FileChangedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (IngestCompletedEvent) isServiceEvent() {}
func (FileChangedEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()           {}

// ErrNoHistory is returned by history queries when no database is open.
var ErrNoHistory = errors.New("run history disabled")

// notify is replaced in tests.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager owns the analyzer and routes its results to subscribers.
type Manager struct {
	mu       sync.RWMutex
	cfg      *config.Config
	analyzer *trips.Analyzer
	database *db.DB
	watcher  *watch.Service
	last     *models.Snapshot
	leader   string

	stopChan    chan struct{}
	closeOnce   sync.Once
	subMu       sync.RWMutex
	subscribers []chan ServiceEvent
}

// NewManager creates a manager. Run history is enabled when
// cfg.DatabasePath is set.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		analyzer: trips.NewAnalyzer(),
		stopChan: make(chan struct{}),
	}

	if cfg.DatabasePath != "" {
		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		m.database = database
	}

	return m, nil
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// HistoryEnabled reports whether runs are being stored.
func (m *Manager) HistoryEnabled() bool {
	return m.database != nil
}

// Ingest reads path, stores the result as a run when history is enabled
// and broadcasts it. The returned snapshot is valid even when err is set;
// err only reports a storage failure.
func (m *Manager) Ingest(path string) (*models.Snapshot, error) {
	m.mu.Lock()
	m.analyzer.IngestFile(path)
	snap := m.buildSnapshot(path)

	var err error
	if m.database != nil {
		if _, insertErr := m.database.InsertRun(snap); insertErr != nil {
			err = fmt.Errorf("failed to store run: %w", insertErr)
			logger.Error("run not stored", "path", path, "error", insertErr)
		}
	}

	m.last = snap
	prevLeader := m.leader
	m.leader = snap.Leader()
	m.mu.Unlock()

	m.checkNotifications(prevLeader, snap)
	m.broadcast(IngestCompletedEvent{Snapshot: snap, Err: err})

	return snap, err
}

// buildSnapshot must be called with m.mu held.
func (m *Manager) buildSnapshot(path string) *models.Snapshot {
	a := m.analyzer
	snap := &models.Snapshot{
		Path:          path,
		IngestedAt:    time.Now(),
		Stats:         a.Stats(),
		TotalTrips:    a.TotalTrips(),
		DistinctZones: a.DistinctZones(),
		TopZones:      a.TopZones(m.cfg.TopZones),
		TopSlots:      a.TopBusySlots(m.cfg.TopSlots),
		Hourly:        a.HourlyTotals(),
		Profiles:      make(map[string]models.HourlyProfile),
	}
	for _, z := range snap.TopZones {
		snap.Profiles[z.Zone] = a.ZoneProfile(z.Zone)
	}
	return snap
}

// checkNotifications sends a desktop notification when the busiest zone
// differs from the previous ingest. The first ingest never notifies.
func (m *Manager) checkNotifications(prevLeader string, snap *models.Snapshot) {
	if !m.cfg.Notify || prevLeader == "" {
		return
	}
	leader := snap.Leader()
	if leader == "" || leader == prevLeader {
		return
	}

	title := fmt.Sprintf("Busiest zone: %s", leader)
	body := fmt.Sprintf("%s trips (%.1f%%), previously %s",
		humanize.Comma(snap.TopZones[0].Count), snap.Share(snap.TopZones[0].Count), prevLeader)
	if err := notify(title, body); err != nil {
		logger.Debug("notification failed", "error", err)
	}
}

// TopZones ranks the zones of the last ingest.
func (m *Manager) TopZones(k int) []models.ZoneCount {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.analyzer.TopZones(k)
}

// TopBusySlots ranks the (zone, hour) slots of the last ingest.
func (m *Manager) TopBusySlots(k int) []models.SlotCount {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.analyzer.TopBusySlots(k)
}

// ZoneProfile returns the hourly breakdown of any zone in the last ingest.
func (m *Manager) ZoneProfile(zone string) models.HourlyProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.analyzer.ZoneProfile(zone)
}

// Snapshot returns the last ingest result, or nil before the first one.
func (m *Manager) Snapshot() *models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// RecentRuns lists stored runs, newest first.
func (m *Manager) RecentRuns(limit int) ([]models.Run, error) {
	if m.database == nil {
		return nil, ErrNoHistory
	}
	return m.database.GetRecentRuns(limit)
}

// RunDetail reloads a stored run.
func (m *Manager) RunDetail(id int64) (*models.Snapshot, error) {
	if m.database == nil {
		return nil, ErrNoHistory
	}
	return m.database.GetRun(id)
}

// PruneRuns deletes runs ingested more than age ago and compacts the
// database. It returns the number of runs removed.
func (m *Manager) PruneRuns(age time.Duration) (int64, error) {
	if m.database == nil {
		return 0, ErrNoHistory
	}
	n, err := m.database.DeleteRunsBefore(time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	if n > 0 {
		if err := m.database.Vacuum(); err != nil {
			return n, fmt.Errorf("failed to vacuum database: %w", err)
		}
	}
	logger.Info("pruned run history", "removed", n, "older_than", age)
	return n, nil
}

// LastPath returns the most recently ingested path from run history.
func (m *Manager) LastPath() (string, error) {
	if m.database == nil {
		return "", ErrNoHistory
	}
	paths, err := m.database.RunPaths(1)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	return paths[0], nil
}

// Watch re-ingests path whenever it changes. Only one file is watched at a
// time; a second call replaces the first watcher.
func (m *Manager) Watch(path string) error {
	w, err := watch.New(path, m.cfg.WatchDebounce)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.watcher
	m.watcher = w
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	go m.routeEvents(w, path)
	logger.Info("watching trip file", "path", w.Path())
	return nil
}

// routeEvents turns watcher events into ingests and service events.
func (m *Manager) routeEvents(w *watch.Service, path string) {
	for {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return
			}
			m.handleWatchEvent(event, path)

		case <-w.Done():
			return

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatchEvent(event watch.Event, path string) {
	switch event.Type {
	case watch.EventFileChanged:
		m.broadcast(FileChangedEvent{Path: path})
		_, _ = m.Ingest(path)

	case watch.EventError:
		m.broadcast(ErrorEvent{
			Service: "watch",
			Error:   event.Error,
		})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.subMu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.subMu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the watcher, closes subscriber channels and the database.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		w := m.watcher
		m.watcher = nil
		m.mu.Unlock()
		if w != nil {
			if err := w.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		m.subMu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.subMu.Unlock()

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
