package db

const (
	// timeLayout is the stored form of ingested_at, always UTC.
	timeLayout = "2006-01-02 15:04:05"

	// profileTotalZone marks run_hours rows that hold the all-zone totals.
	profileTotalZone = ""
)
