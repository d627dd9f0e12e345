package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/tripstat/internal/logger"
	"github.com/j-veylop/tripstat/internal/models"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// InsertRun stores a snapshot with its rankings and hourly profiles and
// sets snap.RunID.
func (db *DB) InsertRun(snap *models.Snapshot) (int64, error) {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ingestedAt := snap.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now()
	}

	s := snap.Stats
	result, err := tx.ExecContext(ctx, `
		INSERT INTO ingest_runs (
			path, ingested_at, total_trips, distinct_zones, lines, accepted,
			skipped_empty, skipped_short, skipped_missing, skipped_hour,
			readable, truncated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Path,
		ingestedAt.UTC().Format(timeLayout),
		snap.TotalTrips,
		snap.DistinctZones,
		s.Lines,
		s.Accepted,
		s.SkippedEmpty,
		s.SkippedShort,
		s.SkippedMissing,
		s.SkippedHour,
		boolToInt(s.Readable),
		boolToInt(s.Truncated),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	if err := insertZones(ctx, tx, id, snap.TopZones); err != nil {
		return 0, err
	}
	if err := insertSlots(ctx, tx, id, snap.TopSlots); err != nil {
		return 0, err
	}
	if err := insertProfile(ctx, tx, id, profileTotalZone, snap.Hourly); err != nil {
		return 0, err
	}
	for zone, profile := range snap.Profiles {
		if err := insertProfile(ctx, tx, id, zone, profile); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	snap.RunID = id
	logger.Debug("run stored", "id", id, "path", snap.Path, "trips", snap.TotalTrips)
	return id, nil
}

func insertZones(ctx context.Context, tx *sql.Tx, runID int64, zones []models.ZoneCount) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_zones (run_id, rank, zone, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare zone insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, z := range zones {
		if _, err := stmt.ExecContext(ctx, runID, i+1, z.Zone, z.Count); err != nil {
			return fmt.Errorf("failed to insert zone %q: %w", z.Zone, err)
		}
	}
	return nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, runID int64, slots []models.SlotCount) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_slots (run_id, rank, zone, hour, count) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, s := range slots {
		if _, err := stmt.ExecContext(ctx, runID, i+1, s.Zone, s.Hour, s.Count); err != nil {
			return fmt.Errorf("failed to insert slot %s/%d: %w", s.Zone, s.Hour, err)
		}
	}
	return nil
}

// insertProfile stores the non-zero hours of a profile.
func insertProfile(ctx context.Context, tx *sql.Tx, runID int64, zone string, p models.HourlyProfile) error {
	for h, n := range p {
		if n == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_hours (run_id, zone, hour, count) VALUES (?, ?, ?, ?)",
			runID, zone, h, n,
		); err != nil {
			return fmt.Errorf("failed to insert hourly count: %w", err)
		}
	}
	return nil
}

// GetRecentRuns returns run summaries, newest first.
func (db *DB) GetRecentRuns(limit int) ([]models.Run, error) {
	query := `
		SELECT r.id, r.path, r.ingested_at, r.total_trips, r.distinct_zones,
			   r.accepted,
			   r.skipped_empty + r.skipped_short + r.skipped_missing + r.skipped_hour,
			   COALESCE(z.zone, ''), COALESCE(z.count, 0)
		FROM ingest_runs r
		LEFT JOIN run_zones z ON z.run_id = r.id AND z.rank = 1
		ORDER BY r.ingested_at DESC, r.id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		var ingestedAt string

		err := rows.Scan(
			&run.ID,
			&run.Path,
			&ingestedAt,
			&run.TotalTrips,
			&run.DistinctZones,
			&run.Accepted,
			&run.Skipped,
			&run.Leader,
			&run.LeaderCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.IngestedAt = parseTime(ingestedAt)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun reloads a stored snapshot.
func (db *DB) GetRun(id int64) (*models.Snapshot, error) {
	ctx := context.Background()

	snap := &models.Snapshot{RunID: id}
	var ingestedAt string
	var readable, truncated int

	err := db.QueryRowContext(ctx, `
		SELECT path, ingested_at, total_trips, distinct_zones, lines, accepted,
			   skipped_empty, skipped_short, skipped_missing, skipped_hour,
			   readable, truncated
		FROM ingest_runs WHERE id = ?`, id,
	).Scan(
		&snap.Path,
		&ingestedAt,
		&snap.TotalTrips,
		&snap.DistinctZones,
		&snap.Stats.Lines,
		&snap.Stats.Accepted,
		&snap.Stats.SkippedEmpty,
		&snap.Stats.SkippedShort,
		&snap.Stats.SkippedMissing,
		&snap.Stats.SkippedHour,
		&readable,
		&truncated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", id, err)
	}

	snap.IngestedAt = parseTime(ingestedAt)
	snap.Stats.Readable = readable != 0
	snap.Stats.Truncated = truncated != 0

	if snap.TopZones, err = db.getRunZones(ctx, id); err != nil {
		return nil, err
	}
	if snap.TopSlots, err = db.getRunSlots(ctx, id); err != nil {
		return nil, err
	}
	if err := db.getRunProfiles(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (db *DB) getRunZones(ctx context.Context, id int64) ([]models.ZoneCount, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT zone, count FROM run_zones WHERE run_id = ? ORDER BY rank", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run zones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var zones []models.ZoneCount
	for rows.Next() {
		var z models.ZoneCount
		if err := rows.Scan(&z.Zone, &z.Count); err != nil {
			return nil, fmt.Errorf("failed to scan run zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (db *DB) getRunSlots(ctx context.Context, id int64) ([]models.SlotCount, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT zone, hour, count FROM run_slots WHERE run_id = ? ORDER BY rank", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []models.SlotCount
	for rows.Next() {
		var s models.SlotCount
		if err := rows.Scan(&s.Zone, &s.Hour, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan run slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (db *DB) getRunProfiles(ctx context.Context, snap *models.Snapshot) error {
	rows, err := db.QueryContext(ctx,
		"SELECT zone, hour, count FROM run_hours WHERE run_id = ?", snap.RunID)
	if err != nil {
		return fmt.Errorf("failed to query run hours: %w", err)
	}
	defer func() { _ = rows.Close() }()

	profiles := make(map[string]models.HourlyProfile)
	for rows.Next() {
		var zone string
		var hour int
		var count int64
		if err := rows.Scan(&zone, &hour, &count); err != nil {
			return fmt.Errorf("failed to scan run hour: %w", err)
		}
		if hour < 0 || hour >= models.HoursPerDay {
			continue
		}
		if zone == profileTotalZone {
			snap.Hourly[hour] = count
			continue
		}
		p := profiles[zone]
		p[hour] = count
		profiles[zone] = p
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Ranked zones always get a profile entry, even if all zero.
	for _, z := range snap.TopZones {
		if _, ok := profiles[z.Zone]; !ok {
			profiles[z.Zone] = models.HourlyProfile{}
		}
	}
	snap.Profiles = profiles
	return nil
}

// DeleteRunsBefore removes runs ingested before t and returns how many
// were deleted.
func (db *DB) DeleteRunsBefore(t time.Time) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM ingest_runs WHERE ingested_at < ?", t.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	return result.RowsAffected()
}

// RunPaths returns the distinct ingested paths, most recently used first.
func (db *DB) RunPaths(limit int) ([]string, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT path FROM ingest_runs
		GROUP BY path
		ORDER BY MAX(ingested_at) DESC, MAX(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan run path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
