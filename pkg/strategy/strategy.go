// Package strategy implements the Reasoning Strategy layer: prompt
// construction and response post-processing, one Strategy per
// strategyId, registered in a Registry.
package strategy

import "github.com/ralbench/ralbench/pkg/models"

// ReasoningResult is what processResponse extracts from a ParsedResponse.
type ReasoningResult struct {
	FinalAnswer   string
	ReasoningText string
	Metadata      map[string]interface{}
}

// Strategy is a pair of pure functions plus an identifier. Strategies
// contain no I/O: buildPrompt and processResponse never call an LLM
// client or touch the database themselves.
type Strategy interface {
	// ID is the strategyId this strategy is registered under.
	ID() string

	// OutputSchemaID names the JSON schema the LLM's structured output
	// must satisfy; the parsing layer resolves it independently.
	OutputSchemaID() string

	// BuildPrompt constructs the ordered message sequence sent to the LLM.
	BuildPrompt(question *models.Question, cfg *models.AgentConfig) []models.Message

	// ProcessResponse extracts the final answer and reasoning trace from
	// a parsed, schema-validated LLM response.
	ProcessResponse(resp *models.ParsedResponse, cfg *models.AgentConfig) (*ReasoningResult, error)

	// Validate checks strategy-specific AgentConfig rules (e.g.
	// chain_of_thought's max_tokens floor). Called in addition to
	// AgentConfig.Validate, never in place of it.
	Validate(cfg *models.AgentConfig) error
}
