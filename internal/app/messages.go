package app

import (
	"time"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// IngestDoneMsg carries the result of an ingest pass.
type IngestDoneMsg struct {
	Snapshot *models.Snapshot
	// Err reports a failure to store the run; Snapshot is still valid.
	Err error
}

// RunsLoadedMsg contains the run history list.
type RunsLoadedMsg struct {
	Runs  []models.Run
	Error error
}

// RunDetailMsg contains a reloaded stored run.
type RunDetailMsg struct {
	ID       int64
	Snapshot *models.Snapshot
	Error    error
}

// SelectedZoneChangedMsg signals that the selected zone changed.
type SelectedZoneChangedMsg struct {
	Index int
	Zone  string
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "ingest", "history"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
