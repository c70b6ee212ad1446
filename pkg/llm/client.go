// Package llm implements the Anti-Corruption Layer between ralbench's
// domain types and the four external providers it supports. Every client
// in this package speaks the provider's native wire format internally but
// returns only models.ParsedResponse or models.FailureReason upward; no
// provider SDK type ever crosses that boundary.
package llm

import (
	"context"

	"github.com/ralbench/ralbench/pkg/models"
)

// Client is implemented once per external provider and wrapped, in turn,
// by each parsing-strategy decorator in pkg/llm/parsing. A Client never
// sees the Reasoning Strategy layer above it; it only knows how to turn
// a message list plus option map into a ParsedResponse.
type Client interface {
	// ChatCompletion sends messages to model and returns the provider's
	// answer translated into a ParsedResponse. options carries the closed
	// set of recognized request knobs (temperature, max_tokens, top_p,
	// response_format, logprobs); unrecognized keys are ignored by the
	// wire-encoding step, not rejected here — that validation already
	// happened on the AgentConfig.
	ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error)
}

func optFloat(options map[string]interface{}, key string) (float64, bool) {
	v, ok := options[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func optInt(options map[string]interface{}, key string) (int, bool) {
	f, ok := optFloat(options, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func optBool(options map[string]interface{}, key string) (bool, bool) {
	v, ok := options[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
