package services

import (
	"context"

	"github.com/flixhub/apiserver/types"
)

// WatchlistRepository defines persistence operations for watchlists.
type WatchlistRepository interface {
	ListByUser(ctx context.Context, userID, offset, limit int) ([]types.WatchlistItem, int, error)
	Add(ctx context.Context, userID, movieID int) (types.WatchlistItem, error)
	Remove(ctx context.Context, userID, movieID int) error
}

// WatchlistService encapsulates watchlist use-cases. Every operation is
// scoped to the owning user.
type WatchlistService struct {
	repo WatchlistRepository
}

func NewWatchlistService(repo WatchlistRepository) *WatchlistService {
	return &WatchlistService{repo: repo}
}

func (s *WatchlistService) List(ctx context.Context, userID, offset, limit int) ([]types.WatchlistItem, int, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *WatchlistService) Add(ctx context.Context, userID, movieID int) (types.WatchlistItem, error) {
	return s.repo.Add(ctx, userID, movieID)
}

func (s *WatchlistService) Remove(ctx context.Context, userID, movieID int) error {
	return s.repo.Remove(ctx, userID, movieID)
}
