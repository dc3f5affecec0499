package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxPosterMemory = 8 << 20
	maxPosterBytes  = 16 << 20
	formFieldPoster = "poster"
)

// MovieHandler provides catalog endpoints.
type MovieHandler struct {
	movieService *services.MovieService
	logger       *slog.Logger
}

func NewMovieHandler(movieService *services.MovieService, logger *slog.Logger) *MovieHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieHandler{movieService: movieService, logger: logger}
}

// MovieRouter registers catalog routes. Catalog reads are public; writes and
// the stats endpoint require an authenticated admin.
func MovieRouter(r chi.Router, movieService *services.MovieService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewMovieHandler(movieService, logger)
	admin := RequireRole(types.RoleAdmin)

	r.Get("/", handler.ListMovies)
	r.Get("/trending", handler.TrendingMovies)
	r.With(authMiddleware, admin).Get("/stats", handler.MovieStats)
	r.With(authMiddleware, admin).Post("/", handler.CreateMovie)
	r.Route("/{movieID}", func(r chi.Router) {
		r.Get("/", handler.GetMovie)
		r.With(authMiddleware, admin).Patch("/", handler.UpdateMovie)
		r.With(authMiddleware, admin).Delete("/", handler.DeleteMovie)
		r.With(authMiddleware, admin).Post("/poster", handler.UploadPoster)
	})
}

// MovieListResponse is the paginated catalog list payload.
type MovieListResponse struct {
	Movies     []types.Movie `json:"movies"`
	Pagination Pagination    `json:"pagination"`
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	filter := parseMovieFilter(r)

	movies, total, err := h.movieService.List(r.Context(), filter, offset, limit)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MovieListResponse{
		Movies:     movies,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *MovieHandler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	_, limit, _ := parsePagination(r)

	movies, err := h.movieService.Trending(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]types.Movie{"movies": movies})
}

// MovieStats serves catalog-wide aggregates for the admin dashboard.
func (h *MovieHandler) MovieStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.movieService.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// MovieUpsertRequest is the JSON payload for creating or updating a movie.
type MovieUpsertRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ReleaseYear     int     `json:"release_year"`
	DurationMinutes int     `json:"duration_minutes"`
	Rating          float64 `json:"rating"`
	ImageURL        string  `json:"image_url"`
	VideoURL        string  `json:"video_url"`
	TrailerURL      string  `json:"trailer_url"`
	IsTrending      bool    `json:"is_trending"`
	IsOriginal      bool    `json:"is_original"`
	GenreIDs        []int   `json:"genre_ids"`
}

func (req *MovieUpsertRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	switch {
	case req.Title == "":
		return errors.New("title is required")
	case req.Description == "":
		return errors.New("description is required")
	case req.ReleaseYear < 1888:
		return errors.New("invalid release year")
	case req.DurationMinutes < 1:
		return errors.New("invalid duration")
	case req.Rating < 0 || req.Rating > 10:
		return errors.New("rating must be between 0 and 10")
	}
	return nil
}

func (req *MovieUpsertRequest) movie() types.Movie {
	return types.Movie{
		Title:           req.Title,
		Description:     req.Description,
		ReleaseYear:     req.ReleaseYear,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		ImageURL:        req.ImageURL,
		VideoURL:        req.VideoURL,
		TrailerURL:      req.TrailerURL,
		IsTrending:      req.IsTrending,
		IsOriginal:      req.IsOriginal,
	}
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req MovieUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.movieService.Create(r.Context(), req.movie(), req.GenreIDs)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req MovieUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie := req.movie()
	movie.ID = id
	updated, err := h.movieService.Update(r.Context(), movie, req.GenreIDs)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.movieService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadPoster accepts multipart poster artwork and stores it in object
// storage.
func (h *MovieHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxPosterMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldPoster)
	if err != nil {
		writeError(w, http.StatusBadRequest, "poster file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPosterBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read poster file")
		return
	}
	if len(data) > maxPosterBytes {
		writeError(w, http.StatusBadRequest, "poster file too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	movie, err := h.movieService.UploadPoster(r.Context(), id, header.Filename, data, contentType)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			writeError(w, http.StatusServiceUnavailable, services.ErrStorageUnavailable.Error())
			return
		}
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func parseMovieFilter(r *http.Request) types.MovieFilter {
	q := r.URL.Query()

	filter := types.MovieFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Genre:  strings.TrimSpace(q.Get("genre")),
	}
	if year, err := strconv.Atoi(strings.TrimSpace(q.Get("year"))); err == nil && year > 0 {
		filter.ReleaseYear = year
	}
	if raw := strings.TrimSpace(q.Get("trending")); raw != "" {
		trending := raw == "true" || raw == "1"
		filter.Trending = &trending
	}
	if raw := strings.TrimSpace(q.Get("original")); raw != "" {
		original := raw == "true" || raw == "1"
		filter.Original = &original
	}

	filter.SortField = strings.TrimSpace(q.Get("sort"))
	filter.SortAsc = strings.EqualFold(strings.TrimSpace(q.Get("order")), "asc")
	return filter
}
