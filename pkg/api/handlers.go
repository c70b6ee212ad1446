package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthResponse is returned by GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// healthHandler handles GET /health. Unlike the CLI's own `ralbench
// health` command, this only confirms the status server itself is
// serving requests — it holds no database handle to check.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "healthy"})
}

// getEvaluationHandler handles GET /evaluations/:id.
func (s *Server) getEvaluationHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	eval, err := s.evaluations.Get(reqCtx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

// getProgressHandler handles GET /evaluations/:id/progress.
func (s *Server) getProgressHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := s.runner.GetProgress(reqCtx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// getResultsHandler handles GET /evaluations/:id/results.
func (s *Server) getResultsHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results, err := s.runner.GetResults(reqCtx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
