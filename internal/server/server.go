package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vibedash/internal/config"
	"vibedash/internal/filesystem"
	"vibedash/internal/git"
	"vibedash/internal/github"
	"vibedash/internal/opener"
	"vibedash/internal/scanner"
	"vibedash/internal/store"
	"vibedash/internal/venv"
)

// Server is the dashboard backend. It exposes the data and action
// endpoints under /api and pushes change notifications over a
// websocket at /api/events.
type Server struct {
	cfg     *config.Config
	fs      filesystem.FileSystem
	store   *store.Store
	scanner *scanner.Scanner
	git     git.Client
	github  github.GitHubClient
	venv    *venv.Service
	opener  *opener.Opener
	hub     *Hub
	logger  *slog.Logger

	httpServer *http.Server
}

// Options carries the collaborators of a Server. The GitHub client may
// be nil when no token is configured; repository creation then fails
// with a configuration hint instead of an API error.
type Options struct {
	Config  *config.Config
	FS      filesystem.FileSystem
	Store   *store.Store
	Scanner *scanner.Scanner
	Git     git.Client
	GitHub  github.GitHubClient
	Venv    *venv.Service
	Opener  *opener.Opener
	Logger  *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     opts.Config,
		fs:      opts.FS,
		store:   opts.Store,
		scanner: opts.Scanner,
		git:     opts.Git,
		github:  opts.GitHub,
		venv:    opts.Venv,
		opener:  opts.Opener,
		hub:     NewHub(logger),
		logger:  logger,
	}
}

// Router builds the route table. Split out from ListenAndServe so
// tests can drive handlers through httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/data", s.handleData).Methods(http.MethodGet)
	r.HandleFunc("/api/scan-projects", s.handleScanProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/open-project", s.handleOpenProject).Methods(http.MethodPost)
	r.HandleFunc("/api/venv/{action}", s.handleVenvAction).Methods(http.MethodPost)
	r.HandleFunc("/api/git/{action}", s.handleGitAction).Methods(http.MethodPost)
	r.HandleFunc("/api/save-data", s.handleSaveData).Methods(http.MethodPost)
	r.HandleFunc("/api/events", s.hub.Handle)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	r.Use(s.logRequests)
	return r
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard backend listening", "addr", s.cfg.ListenAddr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
