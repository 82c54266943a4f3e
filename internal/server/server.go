// Package server provides the HTTP API for Yomitori.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/invoice"
	"github.com/hyperjump/yomitori/internal/pipeline"
	"github.com/hyperjump/yomitori/internal/storage"
)

// Server is the HTTP server for the Yomitori API.
type Server struct {
	pipeline *pipeline.Pipeline
	store    storage.Store // optional; dataset and report endpoints need it
	reporter *invoice.Analyzer
	cache    *ResultCache
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. store may be nil;
// the dataset and report endpoints then answer 501.
func NewServer(p *pipeline.Pipeline, store storage.Store, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		pipeline: p,
		store:    store,
		reporter: invoice.NewAnalyzer(),
		cache:    NewResultCache(cfg.Server.CacheSize),
		config:   cfg,
		logger:   logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/dataset", s.handleDataset)
	r.Get("/api/v1/report", s.handleReport)
	r.Get("/api/v1/status", s.handleStatus)
	r.Delete("/api/v1/cache", s.handleCacheClear)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
