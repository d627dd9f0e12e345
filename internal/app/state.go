// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"strconv"
	"sync"
	"time"

	"github.com/j-veylop/tripstat/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Ingest  bool
	History bool
}

// State is the data shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	Path           string
	HistoryEnabled bool

	snapshot     *models.Snapshot
	runs         []models.Run
	selectedZone int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state in the initial loading phase.
func NewState() *State {
	return &State{
		runs:          make([]models.Run, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "ingest":
		s.Loading.Ingest = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Ingest || s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsIngestLoading returns true while a re-ingest is in progress.
func (s *State) IsIngestLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Ingest
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Ingest {
		resources = append(resources, "ingest")
	}
	if s.Loading.History {
		resources = append(resources, "history")
	}
	return resources
}

// SetSnapshot replaces the current ingest result. The zone selection is
// kept when the same zone is still ranked, otherwise it resets to the top.
func (s *State) SetSnapshot(snap *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevZone := ""
	if s.snapshot != nil && s.selectedZone < len(s.snapshot.TopZones) {
		prevZone = s.snapshot.TopZones[s.selectedZone].Zone
	}

	s.snapshot = snap
	s.selectedZone = 0
	s.LastUpdated = time.Now()

	if snap == nil {
		return
	}
	for i, z := range snap.TopZones {
		if z.Zone == prevZone {
			s.selectedZone = i
			break
		}
	}
}

// GetSnapshot returns the current ingest result, or nil.
func (s *State) GetSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetRuns updates the run history list.
func (s *State) SetRuns(runs []models.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = runs
}

// GetRuns returns a copy of the run history list.
func (s *State) GetRuns() []models.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]models.Run, len(s.runs))
	copy(runs, s.runs)
	return runs
}

// GetSelectedZoneIndex returns the index of the selected zone in TopZones.
func (s *State) GetSelectedZoneIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedZone
}

// SetSelectedZoneIndex updates the selected zone index.
func (s *State) SetSelectedZoneIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedZone = idx
}

// GetSelectedZone returns the selected ranked zone.
func (s *State) GetSelectedZone() (models.ZoneCount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil || s.selectedZone < 0 || s.selectedZone >= len(s.snapshot.TopZones) {
		return models.ZoneCount{}, false
	}
	return s.snapshot.TopZones[s.selectedZone], true
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + strconv.Itoa(s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the snapshot changed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
