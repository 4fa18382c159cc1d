package star

// Gender is the normalized gender attribute on the users dimension.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Level is the subscription tier attribute carried by users and facts.
type Level string

const (
	LevelFree Level = "free"
	LevelPaid Level = "paid"
)

// Song is a row in the songs dimension.
type Song struct {
	SongID   string  `json:"song_id" gorm:"column:song_id;primaryKey;type:text"`
	Title    string  `json:"title" gorm:"type:text;not null"`
	ArtistID string  `json:"artist_id" gorm:"column:artist_id;type:text;not null"`
	Year     int     `json:"year"`
	Duration float64 `json:"duration"`
}

// TableName sets the database table name.
func (Song) TableName() string { return "songs" }

// Artist is a row in the artists dimension. Location and coordinates are
// nullable because the catalog source leaves them blank for many artists.
type Artist struct {
	ArtistID  string   `json:"artist_id" gorm:"column:artist_id;primaryKey;type:text"`
	Name      string   `json:"name" gorm:"type:text;not null"`
	Location  *string  `json:"location" gorm:"type:text"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TableName sets the database table name.
func (Artist) TableName() string { return "artists" }

// User is a row in the users dimension. Level reflects the chronologically
// latest activity event observed for the user within the batch.
type User struct {
	UserID    string `json:"user_id" gorm:"column:user_id;primaryKey;type:text"`
	FirstName string `json:"first_name" gorm:"type:text"`
	LastName  string `json:"last_name" gorm:"type:text"`
	Gender    Gender `json:"gender" gorm:"type:text"`
	Level     Level  `json:"level" gorm:"type:text"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// TimeRecord is a row in the time dimension. All calendar parts are derived
// from StartTime (epoch milliseconds) in UTC. Week is the ISO 8601 week
// number; Weekday follows Go's time.Weekday numbering, Sunday=0 through
// Saturday=6.
type TimeRecord struct {
	StartTime int64 `json:"start_time" gorm:"column:start_time;primaryKey"`
	Hour      int   `json:"hour"`
	Day       int   `json:"day"`
	Week      int   `json:"week"`
	Month     int   `json:"month"`
	Year      int   `json:"year"`
	Weekday   int   `json:"weekday"`
}

// TableName sets the database table name.
func (TimeRecord) TableName() string { return "time" }

// SongPlay is a row in the songplays fact table. SongID and ArtistID are
// nullable: catalog coverage is incomplete, so a play event may reference a
// song that is absent from the catalog subset being processed.
type SongPlay struct {
	SongplayID int64   `json:"songplay_id" gorm:"column:songplay_id;primaryKey"`
	StartTime  int64   `json:"start_time" gorm:"column:start_time;not null"`
	UserID     string  `json:"user_id" gorm:"column:user_id;type:text;not null"`
	Level      Level   `json:"level" gorm:"type:text"`
	SongID     *string `json:"song_id" gorm:"column:song_id;type:text"`
	ArtistID   *string `json:"artist_id" gorm:"column:artist_id;type:text"`
	SessionID  int64   `json:"session_id" gorm:"column:session_id"`
	Location   string  `json:"location" gorm:"type:text"`
	UserAgent  string  `json:"user_agent" gorm:"column:user_agent;type:text"`
}

// TableName sets the database table name.
func (SongPlay) TableName() string { return "songplays" }
