package services

import (
	"context"

	"github.com/flixhub/apiserver/types"
)

// GenreRepository defines persistence operations for genres.
type GenreRepository interface {
	List(ctx context.Context) ([]types.Genre, error)
	Get(ctx context.Context, id int) (types.Genre, error)
	Create(ctx context.Context, genre types.Genre) (types.Genre, error)
	Update(ctx context.Context, genre types.Genre) (types.Genre, error)
	Delete(ctx context.Context, id int) error
}

// GenreService encapsulates genre use-cases.
type GenreService struct {
	repo GenreRepository
}

func NewGenreService(repo GenreRepository) *GenreService {
	return &GenreService{repo: repo}
}

func (s *GenreService) List(ctx context.Context) ([]types.Genre, error) {
	return s.repo.List(ctx)
}

func (s *GenreService) Get(ctx context.Context, id int) (types.Genre, error) {
	return s.repo.Get(ctx, id)
}

func (s *GenreService) Create(ctx context.Context, genre types.Genre) (types.Genre, error) {
	return s.repo.Create(ctx, genre)
}

func (s *GenreService) Update(ctx context.Context, genre types.Genre) (types.Genre, error) {
	return s.repo.Update(ctx, genre)
}

func (s *GenreService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
