// Package timedim derives the time dimension from play-event timestamps.
package timedim

import (
	"sort"
	"time"

	"github.com/lyrastream/songlake/internal/star"
)

// Builder decomposes epoch-millisecond timestamps into calendar parts. The
// decomposition is a pure function of the timestamp; the builder memoizes it
// per run. Build a fresh Builder for every batch so no state survives a run.
type Builder struct {
	memo map[int64]star.TimeRecord
}

// NewBuilder returns an empty, run-scoped builder.
func NewBuilder() *Builder {
	return &Builder{memo: make(map[int64]star.TimeRecord)}
}

// Decompose returns the calendar parts of ms, computed in UTC. Week is the
// ISO 8601 week number; Weekday follows time.Weekday, Sunday=0.
func (b *Builder) Decompose(ms int64) star.TimeRecord {
	if rec, ok := b.memo[ms]; ok {
		return rec
	}
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	rec := star.TimeRecord{
		StartTime: ms,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   int(t.Weekday()),
	}
	b.memo[ms] = rec
	return rec
}

// Build returns one TimeRecord per distinct timestamp among the given play
// events, sorted ascending by timestamp.
func (b *Builder) Build(events []star.PlayEvent) []star.TimeRecord {
	seen := make(map[int64]struct{}, len(events))
	rows := make([]star.TimeRecord, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.TS]; ok {
			continue
		}
		seen[ev.TS] = struct{}{}
		rows = append(rows, b.Decompose(ev.TS))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })
	return rows
}
