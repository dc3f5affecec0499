package services

import (
	"context"
	"io"
	"testing"

	"github.com/flixhub/apiserver/internal/storage"
	"github.com/flixhub/apiserver/internal/store"
	"github.com/flixhub/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovieRepo struct {
	nextID int
	movies map[int]types.Movie
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{movies: make(map[int]types.Movie)}
}

func (r *fakeMovieRepo) List(ctx context.Context, filter types.MovieFilter, offset, limit int) ([]types.Movie, int, error) {
	movies := make([]types.Movie, 0)
	for _, movie := range r.movies {
		if filter.Trending != nil && movie.IsTrending != *filter.Trending {
			continue
		}
		movies = append(movies, movie)
	}
	return movies, len(movies), nil
}

func (r *fakeMovieRepo) Get(ctx context.Context, id int) (types.Movie, error) {
	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, store.ErrNotFound
	}
	return movie, nil
}

func (r *fakeMovieRepo) Create(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	r.nextID++
	movie.ID = r.nextID
	r.movies[movie.ID] = movie
	return movie, nil
}

func (r *fakeMovieRepo) Update(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	if _, ok := r.movies[movie.ID]; !ok {
		return types.Movie{}, store.ErrNotFound
	}
	r.movies[movie.ID] = movie
	return movie, nil
}

func (r *fakeMovieRepo) SetPoster(ctx context.Context, id int, posterKey, imageURL string) error {
	movie, ok := r.movies[id]
	if !ok {
		return store.ErrNotFound
	}
	movie.PosterKey = posterKey
	movie.ImageURL = imageURL
	r.movies[id] = movie
	return nil
}

func (r *fakeMovieRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.movies[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *fakeMovieRepo) Stats(ctx context.Context) (types.MovieStats, error) {
	stats := types.MovieStats{GenreCounts: []types.GenreCount{}}
	var ratingSum float64
	for _, movie := range r.movies {
		stats.TotalMovies++
		if movie.IsTrending {
			stats.TrendingCount++
		}
		if movie.IsOriginal {
			stats.OriginalCount++
		}
		ratingSum += movie.Rating
	}
	if stats.TotalMovies > 0 {
		stats.AverageRating = ratingSum / float64(stats.TotalMovies)
	}
	return stats, nil
}

type fakeObjectStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (s *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, store.ErrNotFound
}

func (s *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStorage) ObjectURL(key string) string {
	return "http://storage.local/artwork/" + key
}

func (s *fakeObjectStorage) Bucket() string { return "artwork" }

func TestMovieService_UploadPoster(t *testing.T) {
	repo := newFakeMovieRepo()
	backend := newFakeObjectStorage()
	svc := NewMovieService(repo, storage.NewStorage(backend), nil)

	movie, err := repo.Create(context.Background(), types.Movie{Title: "Night Train"}, nil)
	require.NoError(t, err)

	updated, err := svc.UploadPoster(context.Background(), movie.ID, "cover art.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	wantKey := "posters/1/cover_art.png"
	assert.Equal(t, wantKey, updated.PosterKey)
	assert.Equal(t, "http://storage.local/artwork/"+wantKey, updated.ImageURL)
	assert.Equal(t, []byte("png-bytes"), backend.objects[wantKey])
}

func TestMovieService_UploadPoster_ReplacesOldArtwork(t *testing.T) {
	repo := newFakeMovieRepo()
	backend := newFakeObjectStorage()
	svc := NewMovieService(repo, storage.NewStorage(backend), nil)

	movie, err := repo.Create(context.Background(), types.Movie{Title: "Night Train"}, nil)
	require.NoError(t, err)

	_, err = svc.UploadPoster(context.Background(), movie.ID, "first.png", []byte("one"), "image/png")
	require.NoError(t, err)
	_, err = svc.UploadPoster(context.Background(), movie.ID, "second.png", []byte("two"), "image/png")
	require.NoError(t, err)

	assert.Contains(t, backend.deleted, "posters/1/first.png")
	assert.NotContains(t, backend.objects, "posters/1/first.png")
	assert.Contains(t, backend.objects, "posters/1/second.png")
}

func TestMovieService_UploadPoster_NoStorage(t *testing.T) {
	repo := newFakeMovieRepo()
	svc := NewMovieService(repo, nil, nil)

	movie, err := repo.Create(context.Background(), types.Movie{Title: "Night Train"}, nil)
	require.NoError(t, err)

	_, err = svc.UploadPoster(context.Background(), movie.ID, "cover.png", []byte("png"), "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestMovieService_Delete_RemovesArtwork(t *testing.T) {
	repo := newFakeMovieRepo()
	backend := newFakeObjectStorage()
	svc := NewMovieService(repo, storage.NewStorage(backend), nil)

	movie, err := repo.Create(context.Background(), types.Movie{Title: "Night Train"}, nil)
	require.NoError(t, err)
	_, err = svc.UploadPoster(context.Background(), movie.ID, "cover.png", []byte("png"), "image/png")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), movie.ID))
	assert.Contains(t, backend.deleted, "posters/1/cover.png")
	assert.Empty(t, repo.movies)
}

func TestMovieService_Trending(t *testing.T) {
	repo := newFakeMovieRepo()
	svc := NewMovieService(repo, nil, nil)

	_, err := repo.Create(context.Background(), types.Movie{Title: "Quiet Title"}, nil)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), types.Movie{Title: "Hot Title", IsTrending: true}, nil)
	require.NoError(t, err)

	trending, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, "Hot Title", trending[0].Title)
}
