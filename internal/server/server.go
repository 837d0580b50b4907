// Package server provides the HTTP API for GetLanded.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Shameer29/GetLandedATS--sub001/internal/analyzer"
	"github.com/Shameer29/GetLandedATS--sub001/internal/config"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/search"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
)

// Server is the HTTP server for the GetLanded API.
type Server struct {
	analyzer  *analyzer.Analyzer
	storage   storage.Storage
	index     search.CandidateIndex
	scorer    scoring.Scorer
	config    *config.Config
	logger    *zap.Logger
	version   string
	startTime time.Time
	server    *http.Server
}

// NewServer creates a server with the given dependencies. The scorer may be
// nil when no API key is configured; analyses then come back unscored.
func NewServer(
	an *analyzer.Analyzer,
	store storage.Storage,
	index search.CandidateIndex,
	scorer scoring.Scorer,
	cfg *config.Config,
	logger *zap.Logger,
	version string,
) *Server {
	return &Server{
		analyzer:  an,
		storage:   store,
		index:     index,
		scorer:    scorer,
		config:    cfg,
		logger:    logger,
		version:   version,
		startTime: time.Now(),
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
	r.Post("/api/v1/parse", s.handleParse)
	r.Get("/api/v1/analyses", s.handleListAnalyses)
	r.Get("/api/v1/analyses/export", s.handleExportAnalyses)
	r.Get("/api/v1/analyses/{id}", s.handleGetAnalysis)
	r.Delete("/api/v1/analyses/{id}", s.handleDeleteAnalysis)
	r.Get("/api/v1/search", s.handleSearch)
	r.Delete("/api/v1/cache", s.handleClearCache)
	r.Get("/api/v1/status", s.handleStatus)
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
