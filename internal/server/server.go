package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/flixhub/apiserver/config"
	"github.com/flixhub/apiserver/internal/auth"
	"github.com/flixhub/apiserver/internal/db"
	"github.com/flixhub/apiserver/internal/handlers"
	"github.com/flixhub/apiserver/internal/mq"
	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/internal/storage"
	"github.com/flixhub/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server, router, and shared clients.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
}

// New constructs a Server with all repositories, services, and routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	artwork, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if artwork != nil {
		if err := artwork.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			return nil, err
		}
	}

	events, err := newMQ(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	movieRepo := store.NewMovieRepository(dbConn)
	genreRepo := store.NewGenreRepository(dbConn)
	watchlistRepo := store.NewWatchlistRepository(dbConn)
	historyRepo := store.NewHistoryRepository(dbConn)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.HashWorkers)
	lockout := auth.NewLockoutPolicy(cfg.Auth.LockoutThreshold, cfg.Auth.LockoutDuration)
	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := services.NewAuthService(userRepo, hasher, lockout, tokens, logger)
	userService := services.NewUserService(userRepo)
	movieService := services.NewMovieService(movieRepo, artwork, logger)
	genreService := services.NewGenreService(genreRepo)
	watchlistService := services.NewWatchlistService(watchlistRepo)
	historyService := services.NewHistoryService(historyRepo, events, logger)

	authMiddleware := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authService, logger)
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware, logger)
	})
	router.Route("/movies", func(r chi.Router) {
		handlers.MovieRouter(r, movieService, authMiddleware, logger)
	})
	router.Route("/genres", func(r chi.Router) {
		handlers.GenreRouter(r, genreService, authMiddleware, logger)
	})
	router.Route("/watchlist", func(r chi.Router) {
		handlers.WatchlistRouter(r, watchlistService, authMiddleware, logger)
	})
	router.Route("/history", func(r chi.Router) {
		handlers.HistoryRouter(r, historyService, authMiddleware, logger)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		backend, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case "gcs":
		backend, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newMQ(ctx context.Context, cfg config.MQConfig) (*mq.MQ, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}
