package main

import (
	"errors"

	"github.com/ralbench/ralbench/pkg/api"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/ralbench/ralbench/pkg/orchestrator"
	"github.com/ralbench/ralbench/pkg/repository"
)

// mapDomainError attaches the exit code spec.md §6 assigns to a
// recognized domain error, leaving anything else to exitCodeFor's
// general-error fallback.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var valErr *models.ValidationError
	switch {
	case errors.As(err, &valErr):
		return newExitError(exitConfigurationError, err)
	case errors.Is(err, models.ErrNotFound):
		return newExitError(exitNotFound, err)
	case errors.Is(err, models.ErrAlreadyExists):
		return newExitError(exitConfigurationError, err)
	case errors.Is(err, orchestrator.ErrAlreadyRunning), errors.Is(err, orchestrator.ErrNotRunning):
		return newExitError(exitGeneralError, err)
	default:
		return err
	}
}

// evaluationFiltersFrom builds repository.EvaluationFilters from the
// CLI's optional --status/--benchmark flags.
func evaluationFiltersFrom(status, benchmarkID string) repository.EvaluationFilters {
	return repository.EvaluationFilters{
		Status:      models.EvaluationStatus(status),
		BenchmarkID: benchmarkID,
	}
}

// newStatusServer wires the local read-only status server (SPEC_FULL.md
// §6.3) to the same repositories and runner the rest of this process uses.
func newStatusServer(evaluations *repository.EvaluationRepository, runner *orchestrator.Runner) *api.Server {
	return api.NewServer(evaluations, runner)
}
