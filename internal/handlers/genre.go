package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// GenreHandler provides genre endpoints.
type GenreHandler struct {
	genreService *services.GenreService
	logger       *slog.Logger
}

func NewGenreHandler(genreService *services.GenreService, logger *slog.Logger) *GenreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenreHandler{genreService: genreService, logger: logger}
}

// GenreRouter registers genre routes. Reads are public; writes require an
// authenticated admin.
func GenreRouter(r chi.Router, genreService *services.GenreService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewGenreHandler(genreService, logger)
	admin := RequireRole(types.RoleAdmin)

	r.Get("/", handler.ListGenres)
	r.With(authMiddleware, admin).Post("/", handler.CreateGenre)
	r.Route("/{genreID}", func(r chi.Router) {
		r.Get("/", handler.GetGenre)
		r.With(authMiddleware, admin).Patch("/", handler.UpdateGenre)
		r.With(authMiddleware, admin).Delete("/", handler.DeleteGenre)
	})
}

type GenreRequest struct {
	Name string `json:"name"`
}

func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreService.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if genres == nil {
		genres = []types.Genre{}
	}
	writeJSON(w, http.StatusOK, map[string][]types.Genre{"genres": genres})
}

func (h *GenreHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "genreID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	genre, err := h.genreService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.genreService.Create(r.Context(), types.Genre{Name: req.Name})
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *GenreHandler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "genreID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.genreService.Update(r.Context(), types.Genre{ID: id, Name: req.Name})
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "genreID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.genreService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
