// Package warehouse persists the star schema to the destination database.
package warehouse

import (
	"context"
	"errors"

	"github.com/lyrastream/songlake/internal/star"
)

// ErrSinkWrite marks destination write failures. The core does not retry;
// retry policy belongs to the sink collaborator or the caller.
var ErrSinkWrite = errors.New("warehouse: sink write failed")

// Sink accepts batches of typed rows for each destination table. Dimension
// writes are idempotent upserts on the natural primary key so a re-run over
// identical input yields identical tables.
type Sink interface {
	WriteArtists(ctx context.Context, rows []star.Artist) error
	WriteSongs(ctx context.Context, rows []star.Song) error
	WriteUsers(ctx context.Context, rows []star.User) error
	WriteTime(ctx context.Context, rows []star.TimeRecord) error
	WriteSongPlays(ctx context.Context, rows []star.SongPlay) error
}
