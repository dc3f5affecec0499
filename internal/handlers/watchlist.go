package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// WatchlistHandler provides watchlist endpoints, all scoped to the
// authenticated caller.
type WatchlistHandler struct {
	watchlistService *services.WatchlistService
	logger           *slog.Logger
}

func NewWatchlistHandler(watchlistService *services.WatchlistService, logger *slog.Logger) *WatchlistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// WatchlistRouter registers watchlist routes. Every route requires
// authentication.
func WatchlistRouter(r chi.Router, watchlistService *services.WatchlistService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewWatchlistHandler(watchlistService, logger)

	r.Use(authMiddleware)
	r.Get("/", handler.ListWatchlist)
	r.Post("/", handler.AddToWatchlist)
	r.Delete("/{movieID}", handler.RemoveFromWatchlist)
}

// WatchlistResponse is the paginated watchlist payload.
type WatchlistResponse struct {
	Watchlist  []types.WatchlistItem `json:"watchlist"`
	Pagination Pagination            `json:"pagination"`
}

type WatchlistAddRequest struct {
	MovieID int `json:"movie_id"`
}

func (h *WatchlistHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	page, limit, offset := parsePagination(r)

	items, total, err := h.watchlistService.List(r.Context(), identity.Subject, offset, limit)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, WatchlistResponse{
		Watchlist:  items,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *WatchlistHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req WatchlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MovieID < 1 {
		writeError(w, http.StatusBadRequest, "valid movie_id is required")
		return
	}

	item, err := h.watchlistService.Add(r.Context(), identity.Subject, req.MovieID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *WatchlistHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	movieID, err := parseIDParam(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.watchlistService.Remove(r.Context(), identity.Subject, movieID); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
