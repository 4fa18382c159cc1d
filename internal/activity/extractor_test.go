package activity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lyrastream/songlake/internal/star"
	"github.com/lyrastream/songlake/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func nextSongLine(ts int64, userID, level, song, artist string, length float64) string {
	return fmt.Sprintf(`{"page":"NextSong","ts":%d,"userId":%q,"firstName":"Sylvie","lastName":"Cruz","gender":"F","level":%q,"sessionId":583,"location":"Klamath Falls, OR","userAgent":"Mozilla/5.0","song":%q,"artist":%q,"length":%g}`,
		ts, userID, level, song, artist, length)
}

func newTestExtractor(workers int) *Extractor {
	return New(storage.NewLocal(), zap.NewNop(), workers)
}

func TestExtract_FiltersToNextSong(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.json",
		nextSongLine(1000, "42", "free", "X", "Y", 200.0)+"\n"+
			`{"page":"Home","ts":2000,"userId":"42","level":"free"}`+"\n"+
			`{"page":"Login","ts":3000,"userId":"42","level":"free"}`+"\n")

	res, err := newTestExtractor(1).Extract(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, res.Events, 1)
	assert.Equal(t, 2, res.Filtered)
	assert.Zero(t, res.Skipped())

	ev := res.Events[0]
	assert.Equal(t, int64(1000), ev.TS)
	assert.Equal(t, "42", ev.UserID)
	assert.Equal(t, "X", ev.Song)
	assert.Equal(t, "Y", ev.Artist)
	assert.InDelta(t, 200.0, ev.Length, 1e-9)
	assert.Equal(t, int64(583), ev.SessionID)
}

func TestExtract_AcceptsJSONArrayForm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.json",
		"["+nextSongLine(1000, "42", "free", "X", "Y", 200.0)+","+
			`{"page":"Home","ts":2000,"userId":"42"}`+"]")

	res, err := newTestExtractor(1).Extract(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.Filtered)
}

func TestExtract_UserLevelLatestTimestampWins(t *testing.T) {
	dir := t.TempDir()
	// The paid event has the highest ts but sits in the file listed first, so
	// parse order alone would get this wrong.
	writeFile(t, dir, "a.json", nextSongLine(5000, "42", "paid", "X", "Y", 200.0))
	writeFile(t, dir, "b.json", nextSongLine(1000, "42", "free", "X", "Y", 200.0))

	res, err := newTestExtractor(2).Extract(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	user, ok := res.Users["42"]
	require.True(t, ok)
	assert.Equal(t, star.LevelPaid, user.Level)
	assert.Equal(t, "Sylvie", user.FirstName)
	assert.Equal(t, star.GenderFemale, user.Gender)
}

func TestExtract_UserLevelTieResolvesToLaterFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", nextSongLine(5000, "42", "free", "X", "Y", 200.0))
	writeFile(t, dir, "b.json", nextSongLine(5000, "42", "paid", "X", "Y", 200.0))

	res, err := newTestExtractor(2).Extract(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, star.LevelPaid, res.Users["42"].Level)
}

func TestExtract_SkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.json",
		nextSongLine(1000, "42", "free", "X", "Y", 200.0)+"\n"+
			"{broken\n"+
			`{"page":"NextSong","ts":0,"userId":"42"}`+"\n"+
			`{"page":"NextSong","ts":2000,"userId":""}`+"\n")

	res, err := newTestExtractor(1).Extract(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.SkippedParse)
	assert.Equal(t, 2, res.SkippedMissing)
}

func TestExtract_OversizedRecordsAreNotDropped(t *testing.T) {
	dir := t.TempDir()
	longSong := strings.Repeat("x", 2*1024*1024)
	writeFile(t, dir, "events.json",
		nextSongLine(1000, "42", "free", "X", "Y", 200.0)+"\n"+
			nextSongLine(2000, "42", "free", longSong, "Y", 200.0)+"\n"+
			nextSongLine(3000, "42", "free", "Z", "Y", 200.0)+"\n")

	res, err := newTestExtractor(1).Extract(context.Background(), dir)
	require.NoError(t, err)

	// Every record is accounted for: emitted, filtered, or counted as skipped.
	require.Len(t, res.Events, 3)
	assert.Zero(t, res.Skipped())
	assert.Zero(t, res.Filtered)
	assert.Equal(t, longSong, res.Events[1].Song)
	assert.Equal(t, "Z", res.Events[2].Song)
}

func TestExtract_EmptyFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", "")
	writeFile(t, dir, "blank.json", "\n\n")

	res, err := newTestExtractor(1).Extract(context.Background(), dir)
	require.NoError(t, err)

	assert.Empty(t, res.Events)
	assert.Empty(t, res.Users)
	assert.Zero(t, res.Skipped())
}

func TestExtract_EventsPreserveListingOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json",
		nextSongLine(3000, "1", "free", "X", "Y", 1.0)+"\n"+
			nextSongLine(1000, "1", "free", "X", "Y", 1.0)+"\n")
	writeFile(t, dir, "b.json", nextSongLine(2000, "2", "free", "X", "Y", 1.0))

	res, err := newTestExtractor(4).Extract(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, res.Events, 3)
	assert.Equal(t, int64(3000), res.Events[0].TS)
	assert.Equal(t, int64(1000), res.Events[1].TS)
	assert.Equal(t, int64(2000), res.Events[2].TS)
}

func TestExtract_MissingPrefixIsFatal(t *testing.T) {
	_, err := newTestExtractor(1).Extract(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}
