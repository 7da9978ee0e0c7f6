package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	authService     driving.AuthService
	noteService     driving.NoteService
	providerService driving.ProviderService
	modelService    driving.ModelService

	// Infrastructure
	db          Pinger // registry database health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string

	// WriteTimeout bounds a whole request, including the LLM call behind POST /notes
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8483,
		Version:      "dev",
		WriteTimeout: 6 * time.Minute,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	noteService driving.NoteService,
	providerService driving.ProviderService,
	modelService driving.ModelService,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultConfig().WriteTimeout
	}

	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger,
		authService:     authService,
		noteService:     noteService,
		providerService: providerService,
		modelService:    modelService,
		db:              db,
		redisClient:     redisClient,
	}

	s.setupRoutes()

	// Recovery sits inside logging so a panic is logged as a 500 with its request id
	var handler http.Handler = NewRecoveryMiddleware(logger).Handler(s.router)
	if len(cfg.AllowedOrigins) > 0 {
		handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	}
	handler = NewLoggingMiddleware(logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Note synthesis
	s.router.Handle("POST /api/v1/notes", authed(s.handleGenerateNote))

	// Providers: members see enabled providers, everything else is admin-only
	s.router.Handle("GET /api/v1/providers", authed(s.handleListProviders))
	s.router.Handle("POST /api/v1/providers", admin(s.handleAddProvider))
	s.router.Handle("GET /api/v1/providers/{id}", admin(s.handleGetProvider))
	s.router.Handle("PUT /api/v1/providers/{id}", admin(s.handleUpdateProvider))
	s.router.Handle("DELETE /api/v1/providers/{id}", admin(s.handleDeleteProvider))
	s.router.Handle("POST /api/v1/providers/{id}/test", admin(s.handleTestProvider))
	s.router.Handle("GET /api/v1/providers/{id}/models/remote", admin(s.handleListRemoteModels))
	s.router.Handle("GET /api/v1/providers/{id}/models", authed(s.handleListProviderModels))

	// Models
	s.router.Handle("GET /api/v1/models", authed(s.handleListModels))
	s.router.Handle("POST /api/v1/models", admin(s.handleAddModel))
	s.router.Handle("DELETE /api/v1/models/{id}", admin(s.handleDeleteModel))
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
