package warehouse

import (
	"context"
	"fmt"

	"github.com/lyrastream/songlake/internal/star"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormSink writes star-schema rows through gorm in insert batches.
type gormSink struct {
	db    *gorm.DB
	batch int
}

// NewSink returns a gorm-backed Sink.
func NewSink(db *gorm.DB, batchSize int) Sink {
	if batchSize < 1 {
		batchSize = 500
	}
	return &gormSink{db: db, batch: batchSize}
}

// upsert inserts rows in batches, replacing any existing row with the same
// primary key. gorm derives the conflict target from the model's primary key.
func upsert[T any](s *gormSink, ctx context.Context, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, s.batch).Error
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSinkWrite, table, err)
	}
	return nil
}

func (s *gormSink) WriteArtists(ctx context.Context, rows []star.Artist) error {
	return upsert(s, ctx, star.Artist{}.TableName(), rows)
}

func (s *gormSink) WriteSongs(ctx context.Context, rows []star.Song) error {
	return upsert(s, ctx, star.Song{}.TableName(), rows)
}

func (s *gormSink) WriteUsers(ctx context.Context, rows []star.User) error {
	return upsert(s, ctx, star.User{}.TableName(), rows)
}

func (s *gormSink) WriteTime(ctx context.Context, rows []star.TimeRecord) error {
	return upsert(s, ctx, star.TimeRecord{}.TableName(), rows)
}

func (s *gormSink) WriteSongPlays(ctx context.Context, rows []star.SongPlay) error {
	return upsert(s, ctx, star.SongPlay{}.TableName(), rows)
}
