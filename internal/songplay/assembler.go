// Package songplay assembles the songplays fact table: each play event is
// resolved against the song catalog and stamped with a surrogate key.
package songplay

import (
	"math"

	"github.com/lyrastream/songlake/internal/star"
	"go.uber.org/zap"
)

type matchKey struct {
	title  string
	artist string
}

type candidate struct {
	songID   string
	artistID string
	duration float64
}

// Result is the output of one assembly pass.
type Result struct {
	Facts []star.SongPlay

	// Unresolved counts events whose song/artist keys stayed null because
	// zero or more than one catalog entry matched.
	Unresolved int
}

// Assembler resolves play events to catalog keys by (title, artist name,
// duration within epsilon).
type Assembler struct {
	log     *zap.Logger
	epsilon float64
	index   map[matchKey][]candidate
}

// NewAssembler builds an assembler with the given duration tolerance in
// seconds.
func NewAssembler(log *zap.Logger, epsilon float64) *Assembler {
	return &Assembler{
		log:     log.Named("songplay.assembler"),
		epsilon: epsilon,
		index:   make(map[matchKey][]candidate),
	}
}

// Index loads the catalog dimensions. The lookup key is the song title plus
// the artist's name, resolved through the song's artist_id. Songs whose
// artist is missing from the artists map cannot be matched by name and are
// left out of the index.
func (a *Assembler) Index(songs map[string]star.Song, artists map[string]star.Artist) {
	for _, song := range songs {
		artist, ok := artists[song.ArtistID]
		if !ok {
			continue
		}
		key := matchKey{title: song.Title, artist: artist.Name}
		a.index[key] = append(a.index[key], candidate{
			songID:   song.SongID,
			artistID: song.ArtistID,
			duration: song.Duration,
		})
	}
}

// Assemble emits one fact row per play event, in input order. Events that
// resolve to exactly one catalog candidate get that candidate's keys; zero or
// multiple candidates both collapse to null keys — unresolved, not an error.
func (a *Assembler) Assemble(events []star.PlayEvent, seq *Sequence) *Result {
	res := &Result{Facts: make([]star.SongPlay, 0, len(events))}
	for _, ev := range events {
		fact := star.SongPlay{
			SongplayID: seq.Next(),
			StartTime:  ev.TS,
			UserID:     ev.UserID,
			Level:      ev.Level,
			SessionID:  ev.SessionID,
			Location:   ev.Location,
			UserAgent:  ev.UserAgent,
		}
		if songID, artistID, ok := a.resolve(ev); ok {
			fact.SongID = &songID
			fact.ArtistID = &artistID
		} else {
			res.Unresolved++
		}
		res.Facts = append(res.Facts, fact)
	}

	a.log.Info("fact assembly complete",
		zap.Int("facts", len(res.Facts)),
		zap.Int("unresolved", res.Unresolved),
	)
	return res
}

func (a *Assembler) resolve(ev star.PlayEvent) (songID, artistID string, ok bool) {
	var matched []candidate
	for _, c := range a.index[matchKey{title: ev.Song, artist: ev.Artist}] {
		if math.Abs(c.duration-ev.Length) <= a.epsilon {
			matched = append(matched, c)
		}
	}
	if len(matched) != 1 {
		return "", "", false
	}
	return matched[0].songID, matched[0].artistID, true
}
