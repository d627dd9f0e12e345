package models

import "time"

// IngestStats describes what happened to the lines of one ingest pass.
// Lines counts data lines only; the header is never counted.
type IngestStats struct {
	Readable       bool
	Truncated      bool
	Lines          int64
	Accepted       int64
	SkippedEmpty   int64
	SkippedShort   int64
	SkippedMissing int64
	SkippedHour    int64
}

// Skipped returns the number of data lines that were not counted.
func (s IngestStats) Skipped() int64 {
	return s.SkippedEmpty + s.SkippedShort + s.SkippedMissing + s.SkippedHour
}

// AcceptRate returns the share of data lines that were counted, in percent.
func (s IngestStats) AcceptRate() float64 {
	if s.Lines == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Lines) * 100
}

// Snapshot is the result of one ingest, ready for display or storage.
type Snapshot struct {
	RunID         int64
	Path          string
	IngestedAt    time.Time
	Stats         IngestStats
	TotalTrips    int64
	DistinctZones int
	TopZones      []ZoneCount
	TopSlots      []SlotCount
	Hourly        HourlyProfile

	// Profiles holds the hourly breakdown of each zone in TopZones.
	Profiles map[string]HourlyProfile
}

// IsEmpty reports whether the snapshot carries no counted trips.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || s.TotalTrips == 0
}

// Leader returns the busiest zone, or "" if there is none.
func (s *Snapshot) Leader() string {
	if s == nil || len(s.TopZones) == 0 {
		return ""
	}
	return s.TopZones[0].Zone
}

// Share returns a zone count as a percentage of all trips.
func (s *Snapshot) Share(count int64) float64 {
	if s == nil || s.TotalTrips == 0 {
		return 0
	}
	return float64(count) / float64(s.TotalTrips) * 100
}

// Run is the summary row of a stored snapshot.
type Run struct {
	ID            int64
	Path          string
	IngestedAt    time.Time
	TotalTrips    int64
	DistinctZones int
	Accepted      int64
	Skipped       int64
	Leader        string
	LeaderCount   int64
}
