package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/flixhub/apiserver/internal/mq"
	"github.com/flixhub/apiserver/types"
)

// watchEventChannel is the broker channel watch events are published to.
const watchEventChannel = "watch-events"

// HistoryRepository defines persistence operations for watch history.
type HistoryRepository interface {
	ListByUser(ctx context.Context, userID, offset, limit int) ([]types.HistoryEntry, int, error)
	Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error)
	Delete(ctx context.Context, userID, id int) error
	Clear(ctx context.Context, userID int) error
}

// HistoryService encapsulates watch-history use-cases and publishes a watch
// event for every recorded playback.
type HistoryService struct {
	repo   HistoryRepository
	events *mq.MQ
	logger *slog.Logger
}

// NewHistoryService constructs a HistoryService. events may be nil, in which
// case watch events are not published.
func NewHistoryService(repo HistoryRepository, events *mq.MQ, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{repo: repo, events: events, logger: logger}
}

func (s *HistoryService) List(ctx context.Context, userID, offset, limit int) ([]types.HistoryEntry, int, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

// Record upserts playback progress and publishes the watch event
// fire-and-forget; a broker failure never fails the request.
func (s *HistoryService) Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error) {
	recorded, err := s.repo.Record(ctx, entry)
	if err != nil {
		return types.HistoryEntry{}, err
	}

	if s.events != nil {
		payload, err := json.Marshal(recorded)
		if err == nil {
			attrs := map[string]string{
				"user_id":  strconv.Itoa(recorded.UserID),
				"movie_id": strconv.Itoa(recorded.MovieID),
			}
			if _, err := s.events.Publish(ctx, watchEventChannel, payload, attrs); err != nil {
				s.logger.Warn("publishing watch event failed", "error", err, "user_id", recorded.UserID)
			}
		}
	}

	return recorded, nil
}

func (s *HistoryService) Delete(ctx context.Context, userID, id int) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *HistoryService) Clear(ctx context.Context, userID int) error {
	return s.repo.Clear(ctx, userID)
}
