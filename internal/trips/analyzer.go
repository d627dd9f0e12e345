// Package trips ingests trip record files and ranks pickup zones by volume.
//
// An Analyzer holds the counts of a single ingest pass. Every call to
// IngestFile or Ingest discards the previous counts first. Parsing is
// best effort: malformed rows are skipped and an unreadable file simply
// yields no counts, so callers observe problems only as missing results.
//
// An Analyzer is not safe for concurrent use.
package trips

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/j-veylop/tripstat/internal/logger"
	"github.com/j-veylop/tripstat/internal/models"
)

// readBufferSize is the read buffer size. Longer lines are assembled
// from several reads.
const readBufferSize = 64 * 1024

// Analyzer accumulates trip counts per zone and per (zone, hour) slot.
type Analyzer struct {
	zones map[string]int64
	slots map[string]*models.HourlyProfile
	stats models.IngestStats
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{}
	a.reset()
	return a
}

func (a *Analyzer) reset() {
	a.zones = make(map[string]int64)
	a.slots = make(map[string]*models.HourlyProfile)
	a.stats = models.IngestStats{}
}

// IngestFile replaces the current counts with those read from path.
// The first line is treated as a header and ignored.
func (a *Analyzer) IngestFile(path string) {
	a.reset()

	f, err := os.Open(path)
	if err != nil {
		logger.Debug("trip file not readable", "path", path, "error", err)
		return
	}
	defer func() { _ = f.Close() }()

	a.ingest(f)
	logger.Debug("trip file ingested",
		"path", path,
		"lines", a.stats.Lines,
		"accepted", a.stats.Accepted,
		"skipped", a.stats.Skipped(),
		"zones", len(a.zones),
	)
}

// Ingest replaces the current counts with those read from r.
func (a *Analyzer) Ingest(r io.Reader) {
	a.reset()
	a.ingest(r)
}

func (a *Analyzer) ingest(r io.Reader) {
	a.stats.Readable = true

	reader := bufio.NewReaderSize(r, readBufferSize)
	var long []byte
	seenHeader := false

	for {
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.stats.Truncated = true
				logger.Warn("trip ingest stopped early", "error", err, "lines", a.stats.Lines)
			}
			return
		}

		if isPrefix || long != nil {
			long = append(long, line...)
			if isPrefix {
				continue
			}
			line, long = long, nil
		}

		if !seenHeader {
			seenHeader = true
			continue
		}
		a.count(string(line))
	}
}

// count judges one data line and updates the aggregates or skip counters.
func (a *Analyzer) count(line string) {
	a.stats.Lines++

	zone, hour, reason := parseRecord(line)
	switch reason {
	case accepted:
		a.add(zone, hour)
	case skipEmpty:
		a.stats.SkippedEmpty++
	case skipShort:
		a.stats.SkippedShort++
	case skipMissing:
		a.stats.SkippedMissing++
	case skipHour:
		a.stats.SkippedHour++
	}
}

// add counts one accepted row in both aggregates.
func (a *Analyzer) add(zone string, hour int) {
	profile, ok := a.slots[zone]
	if !ok {
		profile = new(models.HourlyProfile)
		a.slots[zone] = profile
	}
	profile[hour]++
	a.zones[zone]++
	a.stats.Accepted++
}

// Stats returns the statistics of the last ingest.
func (a *Analyzer) Stats() models.IngestStats {
	return a.stats
}

// TotalTrips returns the number of counted rows.
func (a *Analyzer) TotalTrips() int64 {
	return a.stats.Accepted
}

// DistinctZones returns the number of zones seen.
func (a *Analyzer) DistinctZones() int {
	return len(a.zones)
}

// HourlyTotals sums trips across all zones for each hour of the day.
func (a *Analyzer) HourlyTotals() models.HourlyProfile {
	var totals models.HourlyProfile
	for _, profile := range a.slots {
		for h, n := range profile {
			totals[h] += n
		}
	}
	return totals
}

// ZoneProfile returns the hourly breakdown of one zone. Unknown zones
// yield an all-zero profile.
func (a *Analyzer) ZoneProfile(zone string) models.HourlyProfile {
	if profile, ok := a.slots[zone]; ok {
		return *profile
	}
	return models.HourlyProfile{}
}
