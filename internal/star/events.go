package star

import "strings"

// PlayEvent is the raw song-play tuple extracted from an activity log event
// before dimension keys are resolved. TS is epoch milliseconds.
type PlayEvent struct {
	TS        int64
	UserID    string
	Level     Level
	SessionID int64
	Location  string
	UserAgent string
	Song      string
	Artist    string
	Length    float64
}

// ParseGender maps the single-letter gender marker used by the activity logs
// onto the dimension enum. Anything other than M or F is unknown.
func ParseGender(raw string) Gender {
	switch raw {
	case "M", "m":
		return GenderMale
	case "F", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// ParseLevel normalizes the level marker. The logs only ever carry "free" or
// "paid"; anything unexpected is treated as free.
func ParseLevel(raw string) Level {
	if strings.ToLower(raw) == string(LevelPaid) {
		return LevelPaid
	}
	return LevelFree
}
