package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/ralbench/ralbench/pkg/orchestrator"
)

// errorResponse is the uniform JSON body every non-2xx response carries.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps a domain/orchestrator error to an HTTP status and
// writes it, the same pattern-match-on-error-kind discipline as the
// repository layer's ent.IsConstraintError/ent.IsNotFound translation,
// one layer up.
func writeError(c *gin.Context, err error) {
	var valErr *models.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, models.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "resource already exists"})
	case errors.Is(err, orchestrator.ErrNotRunning):
		c.JSON(http.StatusConflict, errorResponse{Error: "evaluation is not currently running in this process"})
	case errors.Is(err, orchestrator.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, errorResponse{Error: "another evaluation is already running in this process"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
