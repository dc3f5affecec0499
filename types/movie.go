package types

import "time"

// Movie represents a catalog title.
type Movie struct {
	// ID is the unique identifier of the movie.
	ID int `json:"id" db:"id"`

	// Title is the display title.
	Title string `json:"title" db:"title"`

	// Description is the synopsis shown on detail pages.
	Description string `json:"description" db:"description"`

	// ReleaseYear is the year of first release.
	ReleaseYear int `json:"release_year" db:"release_year"`

	// DurationMinutes is the runtime in minutes.
	DurationMinutes int `json:"duration_minutes" db:"duration_minutes"`

	// Rating is the aggregate rating on a 0-10 scale.
	Rating float64 `json:"rating" db:"rating"`

	// ImageURL points at the poster artwork.
	ImageURL string `json:"image_url,omitempty" db:"image_url"`

	// VideoURL points at the playable asset.
	VideoURL string `json:"video_url,omitempty" db:"video_url"`

	// TrailerURL points at the trailer asset.
	TrailerURL string `json:"trailer_url,omitempty" db:"trailer_url"`

	// PosterKey is the object-storage key of the uploaded poster, if any.
	// Internal bookkeeping, never exposed in API responses.
	PosterKey string `json:"-" db:"poster_key"`

	// IsTrending marks titles surfaced in the trending rail.
	IsTrending bool `json:"is_trending" db:"is_trending"`

	// IsOriginal marks in-house productions.
	IsOriginal bool `json:"is_original" db:"is_original"`

	// Genres are the genres the movie belongs to.
	Genres []Genre `json:"genres"`

	// CreatedAt is the timestamp when the movie was added to the catalog.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent catalog update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MovieStats summarizes the catalog for the admin dashboard.
type MovieStats struct {
	// TotalMovies is the number of titles in the catalog.
	TotalMovies int `json:"total_movies"`

	// TrendingCount is the number of titles in the trending rail.
	TrendingCount int `json:"trending_count"`

	// OriginalCount is the number of in-house productions.
	OriginalCount int `json:"original_count"`

	// AverageRating is the mean rating across the catalog, 0 when empty.
	AverageRating float64 `json:"average_rating"`

	// GenreCounts lists per-genre title counts, ordered by genre name.
	GenreCounts []GenreCount `json:"genre_counts"`
}

// GenreCount is one per-genre entry in MovieStats.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// MovieFilter narrows a catalog listing.
type MovieFilter struct {
	// Search matches title or description, case-insensitively.
	Search string

	// Genre filters by genre name, case-insensitively.
	Genre string

	// ReleaseYear filters by exact year when > 0.
	ReleaseYear int

	// Trending, when set, filters on the trending flag.
	Trending *bool

	// Original, when set, filters on the original flag.
	Original *bool

	// SortField is one of title, release_year, rating, created_at.
	SortField string

	// SortAsc orders ascending when true, descending otherwise.
	SortAsc bool
}
