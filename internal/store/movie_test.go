package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMovieRepoWithMock(t *testing.T) (*MovieRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewMovieRepository(db), mock, db
}

func TestMovieRepository_Stats(t *testing.T) {
	repo, mock, db := newMovieRepoWithMock(t)
	defer db.Close()

	totals := sqlmock.NewRows([]string{"count", "trending", "originals", "avg"}).
		AddRow(12, 3, 2, 7.5)
	mock.ExpectQuery(`(?s)SELECT COUNT\(1\),\s+COUNT\(1\) FILTER \(WHERE is_trending\),\s+COUNT\(1\) FILTER \(WHERE is_original\),\s+COALESCE\(AVG\(rating\), 0\)\s+FROM movies`).
		WillReturnRows(totals)

	genres := sqlmock.NewRows([]string{"name", "count"}).
		AddRow("Drama", 5).
		AddRow("Sci-Fi", 4)
	mock.ExpectQuery(`(?s)SELECT g\.name, COUNT\(mg\.movie_id\)\s+FROM genres g\s+LEFT JOIN movie_genres mg ON mg\.genre_id = g\.id\s+GROUP BY g\.id, g\.name\s+ORDER BY g\.name`).
		WillReturnRows(genres)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalMovies != 12 || stats.TrendingCount != 3 || stats.OriginalCount != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AverageRating != 7.5 {
		t.Fatalf("AverageRating = %v, want 7.5", stats.AverageRating)
	}
	if len(stats.GenreCounts) != 2 || stats.GenreCounts[0].Genre != "Drama" || stats.GenreCounts[0].Count != 5 {
		t.Fatalf("unexpected genre counts: %+v", stats.GenreCounts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMovieRepository_Stats_EmptyCatalog(t *testing.T) {
	repo, mock, db := newMovieRepoWithMock(t)
	defer db.Close()

	totals := sqlmock.NewRows([]string{"count", "trending", "originals", "avg"}).
		AddRow(0, 0, 0, 0)
	mock.ExpectQuery(`(?s)SELECT COUNT\(1\),.*FROM movies`).
		WillReturnRows(totals)
	mock.ExpectQuery(`(?s)SELECT g\.name, COUNT\(mg\.movie_id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalMovies != 0 || stats.AverageRating != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.GenreCounts == nil || len(stats.GenreCounts) != 0 {
		t.Fatalf("GenreCounts = %#v, want empty non-nil slice", stats.GenreCounts)
	}
}
