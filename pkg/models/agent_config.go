package models

import "github.com/ralbench/ralbench/pkg/config"

// AgentConfig is the (strategy, model, provider, parsing strategy, model
// parameters) tuple snapshotted onto an Evaluation at creation time. Two
// AgentConfig values with equal fields are interchangeable.
type AgentConfig struct {
	StrategyID         string                 `json:"strategyId"`
	ModelName          string                 `json:"modelName"`
	Provider           string                 `json:"provider,omitempty"`
	ParsingStrategy    string                 `json:"parsingStrategy,omitempty"`
	ModelParameters    map[string]interface{} `json:"modelParameters,omitempty"`
	StrategyParameters map[string]interface{} `json:"strategyParameters,omitempty"`
}

// Validate checks field-level invariants that hold regardless of which
// strategy or provider is named. StrategyID registration and
// strategy-specific parameter rules (e.g. chain_of_thought's max_tokens
// floor) are checked by the strategy registry, which this package cannot
// import without creating a cycle.
func (c *AgentConfig) Validate() error {
	if c.StrategyID == "" {
		return NewValidationError("strategyId", "must not be empty")
	}
	if c.ModelName == "" {
		return NewValidationError("modelName", "must not be empty")
	}

	if c.Provider != "" && !config.LLMProviderType(c.Provider).IsValid() {
		return NewValidationError("provider", "unsupported provider: "+c.Provider)
	}

	if c.ParsingStrategy != "" && c.ParsingStrategy != "auto" &&
		!config.ParsingStrategyType(c.ParsingStrategy).IsValid() {
		return NewValidationError("parsingStrategy", "unsupported parsing strategy: "+c.ParsingStrategy)
	}

	if t, ok := c.ModelParameters["temperature"]; ok {
		temp, ok := toFloat(t)
		if !ok || temp < 0.0 || temp > 2.0 {
			return NewValidationError("modelParameters.temperature", "must be a number in [0.0, 2.0]")
		}
	}

	if mt, ok := c.ModelParameters["max_tokens"]; ok {
		tokens, ok := toFloat(mt)
		if !ok || tokens < 1 {
			return NewValidationError("modelParameters.max_tokens", "must be >= 1")
		}
	}

	return nil
}

// MaxTokens returns the configured max_tokens, or 0 if unset.
func (c *AgentConfig) MaxTokens() int {
	if v, ok := c.ModelParameters["max_tokens"]; ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
