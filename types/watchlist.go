package types

import "time"

// WatchlistItem links a user to a movie they plan to watch.
// A movie appears at most once per user's watchlist.
type WatchlistItem struct {
	// ID is the unique identifier of the watchlist entry.
	ID int `json:"id" db:"id"`

	// UserID is the owning user.
	UserID int `json:"user_id" db:"user_id"`

	// MovieID is the saved movie.
	MovieID int `json:"movie_id" db:"movie_id"`

	// MovieTitle is the saved movie's title, joined in for list responses.
	MovieTitle string `json:"movie_title,omitempty"`

	// AddedAt is when the movie was saved.
	AddedAt time.Time `json:"added_at" db:"added_at"`
}
