// Package activity extracts the users dimension and raw play-event tuples
// from user-activity log files. Files carry either a JSON array of events or
// newline-delimited JSON objects; both forms are accepted.
package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/lyrastream/songlake/internal/star"
	"github.com/lyrastream/songlake/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NextSongPage marks the events that represent an actual song play. Every
// other page (Home, Login, ...) is filtered out.
const NextSongPage = "NextSong"

type rawEvent struct {
	Page      string  `json:"page"`
	TS        int64   `json:"ts"`
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	Level     string  `json:"level"`
	SessionID int64   `json:"sessionId"`
	Location  string  `json:"location"`
	UserAgent string  `json:"userAgent"`
	Song      string  `json:"song"`
	Artist    string  `json:"artist"`
	Length    float64 `json:"length"`
}

// userState tracks the latest observed event per user so the dimension row
// reflects the chronologically newest level, not file order.
type userState struct {
	user star.User
	ts   int64
}

// Result is the output of one activity pass. Events preserve listing order
// across files and record order within a file.
type Result struct {
	Users  map[string]star.User
	Events []star.PlayEvent

	Filtered       int
	SkippedParse   int
	SkippedMissing int
}

// Skipped is the total number of records dropped for parse or field errors.
// Filtered non-play events are not skips.
func (r *Result) Skipped() int { return r.SkippedParse + r.SkippedMissing }

// UserRows returns the users sorted by user_id for stable sink writes.
func (r *Result) UserRows() []star.User {
	rows := make([]star.User, 0, len(r.Users))
	for _, u := range r.Users {
		rows = append(rows, u)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}

// Extractor parses activity log files.
type Extractor struct {
	store   storage.Store
	log     *zap.Logger
	workers int
}

// New builds an activity extractor. workers bounds per-file parallelism.
func New(store storage.Store, log *zap.Logger, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		store:   store,
		log:     log.Named("activity.extractor"),
		workers: workers,
	}
}

// eventRecord pairs a play event with the user attributes observed on it.
type eventRecord struct {
	play star.PlayEvent
	user star.User
}

type fileResult struct {
	events         []eventRecord
	filtered       int
	skippedParse   int
	skippedMissing int
}

// Extract lists every log file under prefix, parses each one, filters to
// NextSong events, and merges per-file results in listing order.
//
// The merge resolves each user's dimension row by maximum event timestamp; a
// timestamp tie between files resolves to the later file in listing order,
// matching the sequential pass. Malformed records are skipped and counted;
// empty files produce no records and are not an error.
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

	res := &Result{Users: make(map[string]star.User)}
	latest := make(map[string]userState)
	for _, fr := range parsed {
		res.Filtered += fr.filtered
		res.SkippedParse += fr.skippedParse
		res.SkippedMissing += fr.skippedMissing
		for _, rec := range fr.events {
			res.Events = append(res.Events, rec.play)
			state, seen := latest[rec.play.UserID]
			if seen && rec.play.TS < state.ts {
				continue
			}
			latest[rec.play.UserID] = userState{ts: rec.play.TS, user: rec.user}
		}
	}
	for id, state := range latest {
		res.Users[id] = state.user
	}

	e.log.Info("activity extraction complete",
		zap.Int("files", len(keys)),
		zap.Int("events", len(res.Events)),
		zap.Int("filtered", res.Filtered),
		zap.Int("skipped", res.Skipped()),
	)
	return res, nil
}

func (e *Extractor) parseFile(key string, data []byte) fileResult {
	var fr fileResult
	body := bytes.TrimSpace(data)
	if len(body) == 0 {
		return fr
	}

	if body[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(body, &elements); err != nil {
			e.log.Warn("skipping unparseable activity file", zap.String("key", key), zap.Error(err))
			fr.skippedParse++
			return fr
		}
		for _, element := range elements {
			e.parseRecord(key, element, &fr)
		}
		return fr
	}

	// Split lines by hand rather than with bufio.Scanner: a scanner's token
	// limit would silently drop an oversized record and everything after it.
	for rest := body; len(rest) > 0; {
		var line []byte
		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			line, rest = rest[:idx], rest[idx+1:]
		} else {
			line, rest = rest, nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		e.parseRecord(key, line, &fr)
	}
	return fr
}

func (e *Extractor) parseRecord(key string, data []byte, fr *fileResult) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		e.log.Warn("skipping malformed activity record", zap.String("key", key), zap.Error(err))
		fr.skippedParse++
		return
	}
	if raw.Page != NextSongPage {
		fr.filtered++
		return
	}
	if raw.TS <= 0 || raw.UserID == "" {
		e.log.Warn("skipping play event with missing fields", zap.String("key", key))
		fr.skippedMissing++
		return
	}
	level := star.ParseLevel(raw.Level)
	fr.events = append(fr.events, eventRecord{
		play: star.PlayEvent{
			TS:        raw.TS,
			UserID:    raw.UserID,
			Level:     level,
			SessionID: raw.SessionID,
			Location:  raw.Location,
			UserAgent: raw.UserAgent,
			Song:      raw.Song,
			Artist:    raw.Artist,
			Length:    raw.Length,
		},
		user: star.User{
			UserID:    raw.UserID,
			FirstName: raw.FirstName,
			LastName:  raw.LastName,
			Gender:    star.ParseGender(raw.Gender),
			Level:     level,
		},
	})
}
