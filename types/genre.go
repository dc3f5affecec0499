package types

import "time"

// Genre is a catalog category movies are tagged with.
type Genre struct {
	// ID is the unique identifier of the genre.
	ID int `json:"id" db:"id"`

	// Name is the unique display name of the genre.
	Name string `json:"name" db:"name"`

	// CreatedAt is the timestamp when the genre was created.
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}
