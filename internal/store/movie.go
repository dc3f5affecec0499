package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flixhub/apiserver/types"
	"github.com/lib/pq"
)

// MovieRepository handles persistence for catalog titles and their genre links.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `m.id, m.title, m.description, m.release_year, m.duration_minutes, m.rating,
		m.image_url, m.video_url, m.trailer_url, m.poster_key, m.is_trending, m.is_original,
		m.created_at, m.updated_at`

var movieSortFields = map[string]string{
	"title":        "m.title",
	"release_year": "m.release_year",
	"rating":       "m.rating",
	"created_at":   "m.created_at",
}

func scanMovie(row interface{ Scan(...any) error }) (types.Movie, error) {
	var movie types.Movie
	if err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.ReleaseYear,
		&movie.DurationMinutes,
		&movie.Rating,
		&movie.ImageURL,
		&movie.VideoURL,
		&movie.TrailerURL,
		&movie.PosterKey,
		&movie.IsTrending,
		&movie.IsOriginal,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	); err != nil {
		return types.Movie{}, err
	}
	return movie, nil
}

// List returns a filtered, sorted page of movies plus the total count of
// matches. Genres are joined in for every returned movie.
func (r *MovieRepository) List(ctx context.Context, filter types.MovieFilter, offset, limit int) ([]types.Movie, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	where, args := buildMovieFilter(filter)

	countQuery := `SELECT COUNT(1) FROM movies m` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := movieSortFields[filter.SortField]
	if !ok {
		sortColumn = "m.created_at"
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	listQuery := fmt.Sprintf(`
		SELECT `+movieColumns+`
		FROM movies m`+where+`
		ORDER BY %s %s, m.id
		OFFSET $%d LIMIT $%d`, sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	movies := make([]types.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachGenres(ctx, movies); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func (r *MovieRepository) Get(ctx context.Context, id int) (types.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies m
		WHERE m.id = $1`
	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, err
	}

	movies := []types.Movie{movie}
	if err := r.attachGenres(ctx, movies); err != nil {
		return types.Movie{}, err
	}
	return movies[0], nil
}

// Create inserts the movie and its genre links in one transaction.
func (r *MovieRepository) Create(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Movie{}, err
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO movies (title, description, release_year, duration_minutes, rating,
			image_url, video_url, trailer_url, poster_key, is_trending, is_original, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.ReleaseYear,
		movie.DurationMinutes,
		movie.Rating,
		movie.ImageURL,
		movie.VideoURL,
		movie.TrailerURL,
		movie.PosterKey,
		movie.IsTrending,
		movie.IsOriginal,
		movie.CreatedAt,
		movie.UpdatedAt,
	).Scan(&movie.ID); err != nil {
		return types.Movie{}, err
	}

	if err := replaceGenreLinks(ctx, tx, movie.ID, genreIDs); err != nil {
		return types.Movie{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.Movie{}, err
	}

	return r.Get(ctx, movie.ID)
}

// Update rewrites the movie row and, when genreIDs is non-nil, replaces its
// genre links.
func (r *MovieRepository) Update(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	movie.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Movie{}, err
	}
	defer tx.Rollback()

	const query = `
		UPDATE movies
		SET title = $1,
			description = $2,
			release_year = $3,
			duration_minutes = $4,
			rating = $5,
			image_url = $6,
			video_url = $7,
			trailer_url = $8,
			is_trending = $9,
			is_original = $10,
			updated_at = $11
		WHERE id = $12`
	result, err := tx.ExecContext(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.ReleaseYear,
		movie.DurationMinutes,
		movie.Rating,
		movie.ImageURL,
		movie.VideoURL,
		movie.TrailerURL,
		movie.IsTrending,
		movie.IsOriginal,
		movie.UpdatedAt,
		movie.ID,
	)
	if err != nil {
		return types.Movie{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Movie{}, err
	}
	if affected == 0 {
		return types.Movie{}, ErrNotFound
	}

	if genreIDs != nil {
		if err := replaceGenreLinks(ctx, tx, movie.ID, genreIDs); err != nil {
			return types.Movie{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return types.Movie{}, err
	}

	return r.Get(ctx, movie.ID)
}

// SetPoster stores the uploaded poster's object key and public URL.
func (r *MovieRepository) SetPoster(ctx context.Context, id int, posterKey, imageURL string) error {
	const query = `
		UPDATE movies
		SET poster_key = $1,
			image_url = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, posterKey, imageURL, time.Now(), id)
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

// Stats aggregates catalog-wide counts and the per-genre breakdown.
func (r *MovieRepository) Stats(ctx context.Context) (types.MovieStats, error) {
	const totalsQuery = `
		SELECT COUNT(1),
			COUNT(1) FILTER (WHERE is_trending),
			COUNT(1) FILTER (WHERE is_original),
			COALESCE(AVG(rating), 0)
		FROM movies`
	var stats types.MovieStats
	if err := r.db.QueryRowContext(ctx, totalsQuery).Scan(
		&stats.TotalMovies,
		&stats.TrendingCount,
		&stats.OriginalCount,
		&stats.AverageRating,
	); err != nil {
		return types.MovieStats{}, err
	}

	const genresQuery = `
		SELECT g.name, COUNT(mg.movie_id)
		FROM genres g
		LEFT JOIN movie_genres mg ON mg.genre_id = g.id
		GROUP BY g.id, g.name
		ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, genresQuery)
	if err != nil {
		return types.MovieStats{}, err
	}
	defer rows.Close()

	stats.GenreCounts = []types.GenreCount{}
	for rows.Next() {
		var entry types.GenreCount
		if err := rows.Scan(&entry.Genre, &entry.Count); err != nil {
			return types.MovieStats{}, err
		}
		stats.GenreCounts = append(stats.GenreCounts, entry)
	}
	if err := rows.Err(); err != nil {
		return types.MovieStats{}, err
	}
	return stats, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM movies WHERE id = $1`
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

func buildMovieFilter(filter types.MovieFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		add("(m.title ILIKE '%%' || $%d || '%%' OR m.description ILIKE '%%' || $%[1]d || '%%')", search)
	}
	if filter.ReleaseYear > 0 {
		add("m.release_year = $%d", filter.ReleaseYear)
	}
	if filter.Trending != nil {
		add("m.is_trending = $%d", *filter.Trending)
	}
	if filter.Original != nil {
		add("m.is_original = $%d", *filter.Original)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		add(`EXISTS (
			SELECT 1 FROM movie_genres mg
			JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id AND g.name ILIKE $%d
		)`, genre)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func replaceGenreLinks(ctx context.Context, tx *sql.Tx, movieID int, genreIDs []int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return err
	}
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			movieID,
			genreID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovieRepository) attachGenres(ctx context.Context, movies []types.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(movies))
	index := make(map[int]int, len(movies))
	for i := range movies {
		ids = append(ids, int64(movies[i].ID))
		index[movies[i].ID] = i
		movies[i].Genres = []types.Genre{}
	}

	const query = `
		SELECT mg.movie_id, g.id, g.name
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = ANY($1)
		ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, query, pq.Int64Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var movieID int
		var genre types.Genre
		if err := rows.Scan(&movieID, &genre.ID, &genre.Name); err != nil {
			return err
		}
		if i, ok := index[movieID]; ok {
			movies[i].Genres = append(movies[i].Genres, genre)
		}
	}
	return rows.Err()
}
