package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/flixhub/apiserver/internal/storage"
	"github.com/flixhub/apiserver/types"
)

// MovieRepository defines persistence operations for catalog titles.
type MovieRepository interface {
	List(ctx context.Context, filter types.MovieFilter, offset, limit int) ([]types.Movie, int, error)
	Get(ctx context.Context, id int) (types.Movie, error)
	Create(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error)
	Update(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error)
	SetPoster(ctx context.Context, id int, posterKey, imageURL string) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (types.MovieStats, error)
}

// MovieService encapsulates catalog use-cases, including poster artwork
// stored in object storage.
type MovieService struct {
	repo    MovieRepository
	storage *storage.Storage
	logger  *slog.Logger
}

// NewMovieService constructs a MovieService. storage may be nil, in which
// case poster uploads are unavailable.
func NewMovieService(repo MovieRepository, store *storage.Storage, logger *slog.Logger) *MovieService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieService{repo: repo, storage: store, logger: logger}
}

func (s *MovieService) List(ctx context.Context, filter types.MovieFilter, offset, limit int) ([]types.Movie, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

// Trending returns the top trending titles by rating.
func (s *MovieService) Trending(ctx context.Context, limit int) ([]types.Movie, error) {
	trending := true
	filter := types.MovieFilter{
		Trending:  &trending,
		SortField: "rating",
	}
	movies, _, err := s.repo.List(ctx, filter, 0, limit)
	return movies, err
}

// Stats returns catalog-wide aggregates for the admin dashboard.
func (s *MovieService) Stats(ctx context.Context) (types.MovieStats, error) {
	return s.repo.Stats(ctx)
}

func (s *MovieService) Get(ctx context.Context, id int) (types.Movie, error) {
	return s.repo.Get(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	return s.repo.Create(ctx, movie, genreIDs)
}

func (s *MovieService) Update(ctx context.Context, movie types.Movie, genreIDs []int) (types.Movie, error) {
	return s.repo.Update(ctx, movie, genreIDs)
}

// UploadPoster stores poster artwork in object storage and points the movie's
// image URL at it. Replaced artwork is deleted best-effort.
func (s *MovieService) UploadPoster(ctx context.Context, id int, filename string, data []byte, contentType string) (types.Movie, error) {
	if s.storage == nil {
		return types.Movie{}, ErrStorageUnavailable
	}

	movie, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Movie{}, err
	}

	key := fmt.Sprintf("posters/%d/%s", id, sanitizeFilename(filename))
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return types.Movie{}, err
	}

	if err := s.repo.SetPoster(ctx, id, key, s.storage.ObjectURL(key)); err != nil {
		return types.Movie{}, err
	}

	if movie.PosterKey != "" && movie.PosterKey != key {
		if err := s.storage.Delete(ctx, movie.PosterKey); err != nil {
			s.logger.Warn("deleting replaced poster failed", "error", err, "key", movie.PosterKey)
		}
	}

	return s.repo.Get(ctx, id)
}

// Delete removes the movie and its stored artwork, if any.
func (s *MovieService) Delete(ctx context.Context, id int) error {
	movie, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.storage != nil && movie.PosterKey != "" {
		if err := s.storage.Delete(ctx, movie.PosterKey); err != nil {
			s.logger.Warn("deleting poster failed", "error", err, "key", movie.PosterKey)
		}
	}
	return nil
}

func sanitizeFilename(filename string) string {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return "poster"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, filename)
}
