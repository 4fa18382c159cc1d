// Package catalog extracts the songs and artists dimensions from raw catalog
// files. Each file holds one JSON object describing a song and its artist.
package catalog

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/lyrastream/songlake/internal/star"
	"github.com/lyrastream/songlake/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type rawSong struct {
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
}

// Result is the deduplicated output of one catalog pass.
type Result struct {
	Songs   map[string]star.Song
	Artists map[string]star.Artist

	// Records counts successfully parsed files, before key deduplication.
	Records int

	SkippedParse   int
	SkippedMissing int
}

// Skipped is the total number of files dropped from the batch.
func (r *Result) Skipped() int { return r.SkippedParse + r.SkippedMissing }

// SongRows returns the songs sorted by song_id for stable sink writes.
func (r *Result) SongRows() []star.Song {
	rows := make([]star.Song, 0, len(r.Songs))
	for _, s := range r.Songs {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SongID < rows[j].SongID })
	return rows
}

// ArtistRows returns the artists sorted by artist_id for stable sink writes.
func (r *Result) ArtistRows() []star.Artist {
	rows := make([]star.Artist, 0, len(r.Artists))
	for _, a := range r.Artists {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ArtistID < rows[j].ArtistID })
	return rows
}

// Extractor parses catalog files into dimension records.
type Extractor struct {
	store   storage.Store
	log     *zap.Logger
	workers int
}

// New builds a catalog extractor. workers bounds per-file parallelism.
func New(store storage.Store, log *zap.Logger, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		store:   store,
		log:     log.Named("catalog.extractor"),
		workers: workers,
	}
}

type fileResult struct {
	ok         bool
	skipReason string // "parse" or "missing_field"
	song       star.Song
	artist     star.Artist
}

// Extract lists every catalog file under prefix, parses each one, and merges
// the results keyed by song_id and artist_id.
//
// Files are parsed in parallel but merged strictly in listing order, so a key
// seen in two files always resolves to the later file: last write wins, same
// as a sequential pass. Files that are not valid JSON or are missing a
// required field are skipped and counted, not fatal.
func (e *Extractor) Extract(ctx context.Context, prefix string) (*Result, error) {
	keys, err := e.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	parsed := make([]fileResult, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			data, err := e.store.Fetch(gctx, key)
			if err != nil {
				return err
			}
			parsed[i] = e.parseFile(key, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Songs:   make(map[string]star.Song, len(keys)),
		Artists: make(map[string]star.Artist, len(keys)),
	}
	for _, fr := range parsed {
		if !fr.ok {
			if fr.skipReason == "parse" {
				res.SkippedParse++
			} else {
				res.SkippedMissing++
			}
			continue
		}
		res.Records++
		res.Songs[fr.song.SongID] = fr.song
		res.Artists[fr.artist.ArtistID] = fr.artist
	}

	e.log.Info("catalog extraction complete",
		zap.Int("files", len(keys)),
		zap.Int("songs", len(res.Songs)),
		zap.Int("artists", len(res.Artists)),
		zap.Int("skipped", res.Skipped()),
	)
	return res, nil
}

func (e *Extractor) parseFile(key string, data []byte) fileResult {
	var raw rawSong
	if err := json.Unmarshal(data, &raw); err != nil {
		e.log.Warn("skipping unparseable catalog file", zap.String("key", key), zap.Error(err))
		return fileResult{skipReason: "parse"}
	}
	if raw.SongID == "" || raw.Title == "" || raw.ArtistID == "" || raw.ArtistName == "" || raw.Duration <= 0 {
		e.log.Warn("skipping catalog file with missing fields", zap.String("key", key))
		return fileResult{skipReason: "missing_field"}
	}
	return fileResult{
		ok: true,
		song: star.Song{
			SongID:   raw.SongID,
			Title:    raw.Title,
			ArtistID: raw.ArtistID,
			Year:     raw.Year,
			Duration: raw.Duration,
		},
		artist: star.Artist{
			ArtistID:  raw.ArtistID,
			Name:      raw.ArtistName,
			Location:  raw.ArtistLocation,
			Latitude:  raw.ArtistLatitude,
			Longitude: raw.ArtistLongitude,
		},
	}
}
