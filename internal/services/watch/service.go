// Package watch reports changes to a single trip file.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/tripstat/internal/logger"
)

// EventType identifies the type of watch event.
type EventType int

const (
	// EventFileChanged is emitted once per debounced burst of writes.
	EventFileChanged EventType = iota
	// EventError is emitted when the watcher reports an error.
	EventError
)

// Event is a change notification for the watched file.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 250 * time.Millisecond

// Service watches one file and emits debounced change events.
type Service struct {
	mu            sync.Mutex
	filePath      string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New starts watching path. The file itself need not exist yet; its
// directory must.
func New(path string, debounce time.Duration) (*Service, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	s := &Service{
		filePath:  abs,
		debounce:  debounce,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	return s, nil
}

// Path returns the absolute path being watched.
func (s *Service) Path() string {
	return s.filePath
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Done is closed when the service is closed.
func (s *Service) Done() <-chan struct{} {
	return s.stopChan
}

// startWatcher watches the parent directory so that editors which replace
// the file by rename are still seen.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.schedule()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Path: s.filePath, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// schedule restarts the debounce timer.
func (s *Service) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		logger.Debug("trip file changed", "path", s.filePath)
		s.sendEvent(Event{Type: EventFileChanged, Path: s.filePath})
	})
}

// sendEvent sends without blocking, dropping the oldest event when full.
func (s *Service) sendEvent(event Event) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
