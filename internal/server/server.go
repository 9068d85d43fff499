package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"techbrief/internal/config"
	"techbrief/internal/core"
	"techbrief/internal/logger"
	"techbrief/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// snapshot is one completed fetch cycle's output.
type snapshot struct {
	Briefing  core.Briefing
	Rankings  []core.LLMRankingItem
	FetchedAt time.Time
}

// Server is the HTTP front door for the briefing. It owns the only mutable
// state in the process: the latest published snapshot, the background image
// URI, and the fetch-cycle counter used to discard superseded refreshes.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	cfg        config.Server
	log        *slog.Logger

	briefings  services.BriefingService
	rankings   services.RankingsService
	background services.BackgroundService
	chat       services.ChatService

	mu            sync.Mutex
	current       *snapshot
	backgroundURI string
	fetchCycle    uint64 // id of the most recently started cycle
}

// New creates a new HTTP server instance over the given services.
func New(cfg config.Server, briefings services.BriefingService, ranks services.RankingsService, background services.BackgroundService, chatSvc services.ChatService) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		cfg:        cfg,
		log:        logger.Get(),
		briefings:  briefings,
		rankings:   ranks,
		background: background,
		chat:       chatSvc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	// Generous timeout: a full fetch cycle waits on several model calls.
	s.router.Use(middleware.Timeout(110 * time.Second))

	if s.cfg.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/briefing", s.handleGetBriefing)
		r.Post("/briefing/refresh", s.handleRefresh)
		r.Get("/rankings", s.handleGetRankings)
		r.Get("/background", s.handleGetBackground)

		r.Route("/chat", func(r chi.Router) {
			r.Post("/open", s.handleChatOpen)
			r.Post("/message", s.handleChatMessage)
			r.Get("/transcript", s.handleChatTranscript)
			r.Post("/close", s.handleChatClose)
		})
	})
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
