package main

import (
	"errors"

	"github.com/ralbench/ralbench/pkg/llm"
	"github.com/ralbench/ralbench/pkg/llm/parsing"
	"github.com/ralbench/ralbench/pkg/models"
)

// exitError pairs an error with the process exit code it should produce,
// letting commands return ordinary errors up through cobra while still
// driving the exact exit codes spec.md §6 requires.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor inspects err for an attached exitError, classifying
// well-known domain errors that weren't already wrapped by the caller.
// Anything unrecognized is exitGeneralError.
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var valErr *models.ValidationError
	switch {
	case errors.As(err, &valErr):
		return exitConfigurationError
	case errors.Is(err, models.ErrNotFound):
		return exitNotFound
	}

	if reason := classifyFailure(err); reason != nil && reason.Category == models.FailureAuthenticationError {
		return exitAuthenticationError
	}

	return exitGeneralError
}

// classifyFailure recovers the FailureReason carried by a provider or
// parser error, the same two-step fallback pkg/orchestrator's
// failureReasonOf uses.
func classifyFailure(err error) *models.FailureReason {
	if reason, ok := llm.AsFailureReason(err); ok {
		return reason
	}
	return parsing.ToFailureReason(err)
}

// hintFor returns a one-line, actionable hint for a FailureReasonCategory,
// appended to the one-line cause per SPEC_FULL.md §7's "one-line cause
// plus one hint" rule.
func hintFor(category models.FailureReasonCategory) string {
	switch category {
	case models.FailureAuthenticationError:
		return "check the API key environment variable for the configured provider"
	case models.FailureCreditLimitExceeded:
		return "the provider account is out of credit or quota"
	case models.FailureConfigurationError:
		return "check ralbench.yaml and the agent configuration for this evaluation"
	case models.FailureRateLimitExceeded:
		return "retry later or lower request concurrency"
	case models.FailureNetworkTimeout:
		return "check network connectivity to the provider and consider raising its timeout"
	case models.FailureContentGuardrail:
		return "the provider refused to answer on content-safety grounds"
	case models.FailureModelRefusal:
		return "the model declined to answer; consider a different model or prompt"
	case models.FailureTokenLimitExceeded:
		return "raise max_tokens or shorten the prompt"
	case models.FailureParsingError:
		return "the model's response could not be parsed into the expected structure"
	default:
		return "see technical details for more information"
	}
}
