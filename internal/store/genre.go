package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/flixhub/apiserver/types"
)

// GenreRepository handles persistence for genres.
type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) List(ctx context.Context) ([]types.Genre, error) {
	const query = `
		SELECT id, name, created_at
		FROM genres
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []types.Genre
	for rows.Next() {
		var genre types.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

func (r *GenreRepository) Get(ctx context.Context, id int) (types.Genre, error) {
	const query = `
		SELECT id, name, created_at
		FROM genres
		WHERE id = $1`
	var genre types.Genre
	err := r.db.QueryRowContext(ctx, query, id).Scan(&genre.ID, &genre.Name, &genre.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Genre{}, ErrNotFound
		}
		return types.Genre{}, err
	}
	return genre, nil
}

func (r *GenreRepository) Create(ctx context.Context, genre types.Genre) (types.Genre, error) {
	genre.CreatedAt = time.Now()

	const query = `
		INSERT INTO genres (name, created_at)
		VALUES ($1, $2)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, genre.Name, genre.CreatedAt).Scan(&genre.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Genre{}, ErrDuplicate
		}
		return types.Genre{}, err
	}
	return genre, nil
}

func (r *GenreRepository) Update(ctx context.Context, genre types.Genre) (types.Genre, error) {
	const query = `
		UPDATE genres
		SET name = $1
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, genre.Name, genre.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Genre{}, ErrDuplicate
		}
		return types.Genre{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Genre{}, err
	}
	if affected == 0 {
		return types.Genre{}, ErrNotFound
	}
	return genre, nil
}

func (r *GenreRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM genres WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
