package llm

import (
	"errors"
	"strings"

	"github.com/ralbench/ralbench/pkg/models"
)

// mapHTTPError translates a non-2xx HTTP response into a FailureReason,
// the same pattern-match-on-error-kind discipline the teacher's
// pkg/services helpers use, just keyed on status code and body content
// instead of a Go error type.
func mapHTTPError(statusCode int, body string, timedOut bool) *models.FailureReason {
	if timedOut {
		return models.NewFailureReason(models.FailureNetworkTimeout, "request to provider timed out", body, true)
	}

	switch statusCode {
	case 401, 403:
		return models.NewFailureReason(models.FailureAuthenticationError, "provider rejected credentials", body, false)
	case 402:
		return models.NewFailureReason(models.FailureCreditLimitExceeded, "provider reports insufficient credit", body, false)
	case 408:
		return models.NewFailureReason(models.FailureNetworkTimeout, "provider reported a request timeout", body, true)
	case 429:
		return models.NewFailureReason(models.FailureRateLimitExceeded, "provider rate limit exceeded", body, true)
	case 400:
		if looksLikeSchemaError(body) {
			return models.NewFailureReason(models.FailureParsingError, "provider rejected the request body as malformed", body, true)
		}
		return models.NewFailureReason(models.FailureConfigurationError, "provider rejected the request as invalid", body, false)
	}

	if looksLikeGuardrail(body) {
		return models.NewFailureReason(models.FailureContentGuardrail, "provider declined to answer on content-safety grounds", body, false)
	}
	if looksLikeRefusal(body) {
		return models.NewFailureReason(models.FailureModelRefusal, "model declined to answer", body, false)
	}

	if statusCode >= 500 {
		return models.NewFailureReason(models.FailureUnknown, "provider returned a server error", body, true)
	}
	return models.NewFailureReason(models.FailureUnknown, "provider returned an unexpected error", body, true)
}

func looksLikeSchemaError(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "schema") || strings.Contains(lower, "invalid_request_error") && strings.Contains(lower, "format")
}

func looksLikeGuardrail(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "content_filter") || strings.Contains(lower, "content policy") || strings.Contains(lower, "safety")
}

func looksLikeRefusal(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "refusal") || strings.Contains(lower, "i cannot assist") || strings.Contains(lower, "i can't help with that")
}

// providerError wraps a FailureReason so it satisfies the error interface
// while still letting callers recover the structured classification with
// errors.As, instead of re-parsing an error string.
type providerError struct {
	reason *models.FailureReason
}

func (e *providerError) Error() string {
	return e.reason.Error()
}

func newProviderError(statusCode int, body string, timedOut bool) error {
	return &providerError{reason: mapHTTPError(statusCode, body, timedOut)}
}

// WrapFailureReason lets a Client surface an already-classified
// FailureReason as an error AsFailureReason can recover, for the rare
// case a provider's failure mode isn't expressed as an HTTP status code
// (e.g. a transport-level client-side rejection).
func WrapFailureReason(reason *models.FailureReason) error {
	return &providerError{reason: reason}
}

// AsFailureReason extracts the FailureReason from err if it was produced
// by a Client in this package, reporting ok=false otherwise so callers can
// fall back to classifying err as FailureUnknown themselves.
func AsFailureReason(err error) (*models.FailureReason, bool) {
	var pe *providerError
	if !errors.As(err, &pe) {
		return nil, false
	}
	return pe.reason, true
}
