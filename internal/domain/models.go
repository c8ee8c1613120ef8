// Package domain defines the persistence models for moods, content catalogs
// (movies, songs, series), and activity logs. These types are mapped with GORM
// and form the core data layer of the recommendation backend.
package domain

import "time"

// Mood represents one emotional category from the fixed closed set used to
// tag content. Moods are seeded at migration time and treated as read-only
// reference data by the serving path.
//
// Fields:
//   - ID: stable numeric primary key referenced by content rows.
//   - Name: canonical display label, e.g. "Happy / Joyful". Unique.
type Mood struct {
	ID        uint      `json:"mood_id"   gorm:"column:mood_id;primaryKey;autoIncrement"`
	Name      string    `json:"mood_name" gorm:"column:mood_name;type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Mood.
func (Mood) TableName() string { return "moods" }

// Movie is a movie catalog entry tagged with exactly one mood.
//
// Fields:
//   - TMDBID: external catalog identifier used by the ingestion jobs for
//     idempotent upserts; unique.
//   - Language: ISO 639-1 code as delivered by the catalog (e.g. "en").
//   - MoodID: foreign key into moods; every row belongs to exactly one mood.
type Movie struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	TMDBID      int64     `json:"tmdb_id"      gorm:"column:tmdb_id;not null;uniqueIndex"`
	Title       string    `json:"title"        gorm:"type:varchar(255);not null"`
	Language    string    `json:"language"     gorm:"type:varchar(8);index"`
	ReleaseYear int       `json:"release_year"`
	MoodID      uint      `json:"mood_id"      gorm:"not null;index:idx_movies_mood"`
	CreatedAt   time.Time `json:"-"`

	Mood Mood `json:"-" gorm:"foreignKey:MoodID;references:ID"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string { return "movies" }

// Song is a music catalog entry tagged with exactly one mood. Valence and
// Energy are continuous audio descriptors in [0,1]; Tempo is beats per minute.
// These columns are populated by ingestion and drive mood tagging there, not
// in the serving path.
type Song struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	SpotifyID string    `json:"spotify_id" gorm:"column:spotify_id;type:varchar(64);not null;uniqueIndex"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Artist    string    `json:"artist"     gorm:"type:varchar(255)"`
	Language  string    `json:"language"   gorm:"type:varchar(8);index"`
	Valence   float64   `json:"valence"`
	Energy    float64   `json:"energy"`
	Tempo     float64   `json:"tempo"`
	MoodID    uint      `json:"mood_id"    gorm:"not null;index:idx_songs_mood"`
	CreatedAt time.Time `json:"-"`

	Mood Mood `json:"-" gorm:"foreignKey:MoodID;references:ID"`
}

// TableName returns the database table name for Song.
func (Song) TableName() string { return "songs" }

// Series is a TV/streaming series catalog entry tagged with exactly one mood.
type Series struct {
	ID         uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	TMDBID     int64     `json:"tmdb_id"     gorm:"column:tmdb_id;not null;uniqueIndex"`
	Title      string    `json:"title"       gorm:"type:varchar(255);not null"`
	Language   string    `json:"language"    gorm:"type:varchar(8);index"`
	FirstAired int       `json:"first_aired"`
	MoodID     uint      `json:"mood_id"     gorm:"not null;index:idx_series_mood"`
	CreatedAt  time.Time `json:"-"`

	Mood Mood `json:"-" gorm:"foreignKey:MoodID;references:ID"`
}

// TableName returns the database table name for Series.
func (Series) TableName() string { return "series" }

// ActivityLog records one user action ("searched for movies" etc.). Rows are
// append-only: the serving path inserts and reads them but never mutates or
// deletes.
//
// Identity: UserID holds whatever the caller sent, which may be an opaque id
// or an email address. When the value syntactically looks like an email it is
// additionally stored in Email so history lookups can match either form.
type ActivityLog struct {
	ID        string    `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"         gorm:"type:varchar(255);not null;index:idx_activity_user"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255);index:idx_activity_email"`
	Action    string    `json:"action"          gorm:"type:varchar(255);not null"`
	Mood      string    `json:"mood,omitempty"  gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"      gorm:"index"`
}

// TableName returns the database table name for ActivityLog.
func (ActivityLog) TableName() string { return "activity_logs" }
