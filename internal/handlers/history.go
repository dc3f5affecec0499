package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// HistoryHandler provides watch-history endpoints, all scoped to the
// authenticated caller.
type HistoryHandler struct {
	historyService *services.HistoryService
	logger         *slog.Logger
}

func NewHistoryHandler(historyService *services.HistoryService, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{historyService: historyService, logger: logger}
}

// HistoryRouter registers history routes. Every route requires
// authentication.
func HistoryRouter(r chi.Router, historyService *services.HistoryService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewHistoryHandler(historyService, logger)

	r.Use(authMiddleware)
	r.Get("/", handler.ListHistory)
	r.Post("/", handler.RecordHistory)
	r.Delete("/", handler.ClearHistory)
	r.Delete("/{entryID}", handler.DeleteHistoryEntry)
}

// HistoryResponse is the paginated history payload.
type HistoryResponse struct {
	History    []types.HistoryEntry `json:"history"`
	Pagination Pagination           `json:"pagination"`
}

type HistoryRecordRequest struct {
	MovieID         int  `json:"movie_id"`
	ProgressSeconds int  `json:"progress_seconds"`
	Completed       bool `json:"completed"`
}

func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	page, limit, offset := parsePagination(r)

	entries, total, err := h.historyService.List(r.Context(), identity.Subject, offset, limit)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		History:    entries,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *HistoryHandler) RecordHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req HistoryRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MovieID < 1 || req.ProgressSeconds < 0 {
		writeError(w, http.StatusBadRequest, "valid movie_id and progress are required")
		return
	}

	entry, err := h.historyService.Record(r.Context(), types.HistoryEntry{
		UserID:          identity.Subject,
		MovieID:         req.MovieID,
		ProgressSeconds: req.ProgressSeconds,
		Completed:       req.Completed,
	})
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *HistoryHandler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseIDParam(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.historyService.Delete(r.Context(), identity.Subject, id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.historyService.Clear(r.Context(), identity.Subject); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
