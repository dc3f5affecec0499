package types

import "time"

// HistoryEntry records a user's playback of a movie.
type HistoryEntry struct {
	// ID is the unique identifier of the history entry.
	ID int `json:"id" db:"id"`

	// UserID is the watching user.
	UserID int `json:"user_id" db:"user_id"`

	// MovieID is the watched movie.
	MovieID int `json:"movie_id" db:"movie_id"`

	// MovieTitle is the watched movie's title, joined in for list responses.
	MovieTitle string `json:"movie_title,omitempty"`

	// ProgressSeconds is how far into the title playback got.
	ProgressSeconds int `json:"progress_seconds" db:"progress_seconds"`

	// Completed marks the title as watched to the end.
	Completed bool `json:"completed" db:"completed"`

	// WatchedAt is when playback was last recorded.
	WatchedAt time.Time `json:"watched_at" db:"watched_at"`
}
