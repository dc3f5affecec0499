package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/flixhub/apiserver/types"
)

// WatchlistRepository handles persistence for per-user watchlists.
type WatchlistRepository struct {
	db *sql.DB
}

func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser returns a page of the user's watchlist, newest first, plus the
// total count.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID, offset, limit int) ([]types.WatchlistItem, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	const countQuery = `SELECT COUNT(1) FROM watchlist_items WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT w.id, w.user_id, w.movie_id, m.title, w.added_at
		FROM watchlist_items w
		JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC, w.id DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]types.WatchlistItem, 0, limit)
	for rows.Next() {
		var item types.WatchlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.MovieID, &item.MovieTitle, &item.AddedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Add saves a movie to the user's watchlist. A movie already on the list
// yields ErrDuplicate; an unknown movie yields ErrNotFound via the foreign key.
func (r *WatchlistRepository) Add(ctx context.Context, userID, movieID int) (types.WatchlistItem, error) {
	item := types.WatchlistItem{
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}

	const query = `
		INSERT INTO watchlist_items (user_id, movie_id, added_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, userID, movieID, item.AddedAt).Scan(&item.ID); err != nil {
		if isUniqueViolation(err) {
			return types.WatchlistItem{}, ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return types.WatchlistItem{}, ErrNotFound
		}
		return types.WatchlistItem{}, err
	}
	return item, nil
}

// Remove drops a movie from the user's watchlist.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, movieID int) error {
	const query = `DELETE FROM watchlist_items WHERE user_id = $1 AND movie_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, movieID)
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
