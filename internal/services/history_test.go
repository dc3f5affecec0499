package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/flixhub/apiserver/internal/mq"
	"github.com/flixhub/apiserver/internal/store"
	"github.com/flixhub/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryRepo struct {
	nextID  int
	entries map[int]types.HistoryEntry
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: make(map[int]types.HistoryEntry)}
}

func (r *fakeHistoryRepo) ListByUser(ctx context.Context, userID, offset, limit int) ([]types.HistoryEntry, int, error) {
	entries := make([]types.HistoryEntry, 0)
	for _, entry := range r.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, len(entries), nil
}

func (r *fakeHistoryRepo) Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error) {
	for id, existing := range r.entries {
		if existing.UserID == entry.UserID && existing.MovieID == entry.MovieID {
			entry.ID = id
			r.entries[id] = entry
			return entry, nil
		}
	}
	r.nextID++
	entry.ID = r.nextID
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeHistoryRepo) Delete(ctx context.Context, userID, id int) error {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeHistoryRepo) Clear(ctx context.Context, userID int) error {
	for id, entry := range r.entries {
		if entry.UserID == userID {
			delete(r.entries, id)
		}
	}
	return nil
}

type capturingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
}

func (b *capturingBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.channel = channel
	b.data = data
	b.attrs = attrs
	return "msg-1", b.err
}

func (b *capturingBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (b *capturingBackend) Close() error { return nil }

func TestHistoryService_Record_PublishesWatchEvent(t *testing.T) {
	repo := newFakeHistoryRepo()
	backend := &capturingBackend{}
	svc := NewHistoryService(repo, mq.New(backend), nil)

	recorded, err := svc.Record(context.Background(), types.HistoryEntry{
		UserID:          7,
		MovieID:         31,
		ProgressSeconds: 1800,
		WatchedAt:       time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, recorded.ID)

	assert.Equal(t, "watch-events", backend.channel)
	assert.Equal(t, "7", backend.attrs["user_id"])
	assert.Equal(t, "31", backend.attrs["movie_id"])

	var payload types.HistoryEntry
	require.NoError(t, json.Unmarshal(backend.data, &payload))
	assert.Equal(t, recorded.ID, payload.ID)
}

func TestHistoryService_Record_UpsertsByMovie(t *testing.T) {
	repo := newFakeHistoryRepo()
	svc := NewHistoryService(repo, nil, nil)

	first, err := svc.Record(context.Background(), types.HistoryEntry{UserID: 7, MovieID: 31, ProgressSeconds: 600})
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), types.HistoryEntry{UserID: 7, MovieID: 31, ProgressSeconds: 1800})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.entries, 1)
}

func TestHistoryService_Record_BrokerFailureIsNotFatal(t *testing.T) {
	repo := newFakeHistoryRepo()
	backend := &capturingBackend{err: errors.New("broker down")}
	svc := NewHistoryService(repo, mq.New(backend), nil)

	_, err := svc.Record(context.Background(), types.HistoryEntry{UserID: 7, MovieID: 31})
	assert.NoError(t, err)
}

func TestHistoryService_Record_NilBroker(t *testing.T) {
	repo := newFakeHistoryRepo()
	svc := NewHistoryService(repo, nil, nil)

	_, err := svc.Record(context.Background(), types.HistoryEntry{UserID: 7, MovieID: 31})
	assert.NoError(t, err)
}
