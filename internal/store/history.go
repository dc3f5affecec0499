package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/flixhub/apiserver/types"
)

// HistoryRepository handles persistence for per-user watch history.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByUser returns a page of the user's history, most recent first, plus
// the total count.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID, offset, limit int) ([]types.HistoryEntry, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	const countQuery = `SELECT COUNT(1) FROM history_entries WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT h.id, h.user_id, h.movie_id, m.title, h.progress_seconds, h.completed, h.watched_at
		FROM history_entries h
		JOIN movies m ON m.id = h.movie_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC, h.id DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]types.HistoryEntry, 0, limit)
	for rows.Next() {
		var entry types.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.MovieID,
			&entry.MovieTitle,
			&entry.ProgressSeconds,
			&entry.Completed,
			&entry.WatchedAt,
		); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Record upserts the user's playback state for a movie. Repeat watches of the
// same title update progress and timestamp in place.
func (r *HistoryRepository) Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error) {
	entry.WatchedAt = time.Now()

	const query = `
		INSERT INTO history_entries (user_id, movie_id, progress_seconds, completed, watched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET progress_seconds = EXCLUDED.progress_seconds,
			completed = EXCLUDED.completed,
			watched_at = EXCLUDED.watched_at
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.MovieID,
		entry.ProgressSeconds,
		entry.Completed,
		entry.WatchedAt,
	).Scan(&entry.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.HistoryEntry{}, ErrNotFound
		}
		return types.HistoryEntry{}, err
	}
	return entry, nil
}

// Delete removes one history entry, scoped to the owning user.
func (r *HistoryRepository) Delete(ctx context.Context, userID, id int) error {
	const query = `DELETE FROM history_entries WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
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

// Clear wipes the user's entire history.
func (r *HistoryRepository) Clear(ctx context.Context, userID int) error {
	const query = `DELETE FROM history_entries WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
