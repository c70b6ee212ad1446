package llm

import (
	"testing"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMapHTTPError(t *testing.T) {
	cases := []struct {
		name         string
		statusCode   int
		body         string
		timedOut     bool
		wantCategory models.FailureReasonCategory
		wantRecover  bool
	}{
		{"unauthorized", 401, "", false, models.FailureAuthenticationError, false},
		{"forbidden", 403, "", false, models.FailureAuthenticationError, false},
		{"payment required", 402, "", false, models.FailureCreditLimitExceeded, false},
		{"request timeout status", 408, "", false, models.FailureNetworkTimeout, true},
		{"client timeout", 0, "", true, models.FailureNetworkTimeout, true},
		{"too many requests", 429, "", false, models.FailureRateLimitExceeded, true},
		{"bad request schema", 400, `{"error":"invalid schema"}`, false, models.FailureParsingError, true},
		{"bad request other", 400, `{"error":"missing field"}`, false, models.FailureConfigurationError, false},
		{"content filter", 500, "content_filter triggered", false, models.FailureContentGuardrail, false},
		{"server error", 503, "internal error", false, models.FailureUnknown, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason := mapHTTPError(tc.statusCode, tc.body, tc.timedOut)
			assert.Equal(t, tc.wantCategory, reason.Category)
			assert.Equal(t, tc.wantRecover, reason.Recoverable)
		})
	}
}

func TestMapHTTPError_ContentGuardrailDetectedBelow500(t *testing.T) {
	reason := mapHTTPError(422, "blocked for safety reasons", false)
	assert.Equal(t, models.FailureContentGuardrail, reason.Category)
	assert.False(t, reason.Recoverable)
}
