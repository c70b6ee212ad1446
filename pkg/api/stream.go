package api

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ralbench/ralbench/pkg/models"
)

// streamPollInterval is how often the progress stream re-reads the
// Evaluation's persisted state while polling for the next completed
// question. There is no push channel from the orchestrator to this
// package — only ever-growing rows in pkg/repository — so polling is the
// simplest thing that can possibly mirror the teacher's websocket push
// without adding a pub/sub layer this spec has no other use for.
const streamPollInterval = 500 * time.Millisecond

// streamProgressHandler handles GET /evaluations/:id/stream, a
// Server-Sent-Events progress feed: one event per completed question,
// ending with a final "done" event once the Evaluation reaches a
// terminal status.
func (s *Server) streamProgressHandler(c *gin.Context) {
	evaluationID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := s.evaluations.Get(ctx, evaluationID); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	lastProcessed := -1
	c.Stream(func(w io.Writer) bool {
		reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		progress, err := s.runner.GetProgress(reqCtx, evaluationID)
		cancel()
		if err != nil {
			c.SSEvent("error", err.Error())
			return false
		}

		if progress.ProcessedCount != lastProcessed {
			lastProcessed = progress.ProcessedCount
			c.SSEvent("progress", progress)
		}

		if progress.Status.IsTerminal() || progress.Status == models.EvaluationInterrupted {
			c.SSEvent("done", progress)
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(streamPollInterval):
			return true
		}
	})
}
