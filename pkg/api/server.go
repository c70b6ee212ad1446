// Package api provides the local, read-only HTTP status server started
// by `ralbench evaluate run`. It issues no writes and cannot affect the
// orchestrator's sequential execution or any of its invariants — every
// handler here is a spot-read over pkg/repository/pkg/orchestrator.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ralbench/ralbench/pkg/orchestrator"
	"github.com/ralbench/ralbench/pkg/repository"
)

// Server is the local status server bound to 127.0.0.1, never exposed on
// a routable interface.
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	evaluations *repository.EvaluationRepository
	runner      *orchestrator.Runner
}

// NewServer creates a new Server wired to the given Evaluation repository
// and Runner.
func NewServer(evaluations *repository.EvaluationRepository, runner *orchestrator.Runner) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())

	s := &Server{
		engine:      e,
		evaluations: evaluations,
		runner:      runner,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)

	evaluations := s.engine.Group("/evaluations")
	evaluations.GET("/:id", s.getEvaluationHandler)
	evaluations.GET("/:id/progress", s.getProgressHandler)
	evaluations.GET("/:id/results", s.getResultsHandler)
	evaluations.GET("/:id/stream", s.streamProgressHandler)
}

// Start starts the HTTP server on addr and blocks until it stops, so
// callers run it in a goroutine. It always returns a non-nil error,
// http.ErrServerClosed on a clean Shutdown.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener,
// letting tests bind to a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.engine}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
