package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// Report summarizes a completed batch run: rows written per table, records
// skipped per category, and fact rows left with null dimension keys.
type Report struct {
	RunID string

	ArtistsWritten   int
	SongsWritten     int
	UsersWritten     int
	TimeWritten      int
	SongPlaysWritten int

	CatalogSkipped  int
	ActivitySkipped int
	EventsFiltered  int
	Unresolved      int

	Elapsed time.Duration
}

// Fields renders the report for structured logging.
func (r *Report) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", r.RunID),
		zap.Int("artists_written", r.ArtistsWritten),
		zap.Int("songs_written", r.SongsWritten),
		zap.Int("users_written", r.UsersWritten),
		zap.Int("time_written", r.TimeWritten),
		zap.Int("songplays_written", r.SongPlaysWritten),
		zap.Int("catalog_skipped", r.CatalogSkipped),
		zap.Int("activity_skipped", r.ActivitySkipped),
		zap.Int("events_filtered", r.EventsFiltered),
		zap.Int("facts_unresolved", r.Unresolved),
		zap.Duration("elapsed", r.Elapsed),
	}
}
