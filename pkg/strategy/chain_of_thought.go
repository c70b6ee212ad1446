package strategy

import (
	"fmt"

	"github.com/ralbench/ralbench/pkg/models"
)

// chainOfThoughtStrategy asks the model to reason step by step before
// answering, and persists the reasoning alongside the final answer.
type chainOfThoughtStrategy struct{}

// NewChainOfThoughtStrategy returns the "chain_of_thought" reasoning strategy.
func NewChainOfThoughtStrategy() Strategy {
	return &chainOfThoughtStrategy{}
}

func (s *chainOfThoughtStrategy) ID() string             { return "chain_of_thought" }
func (s *chainOfThoughtStrategy) OutputSchemaID() string { return "chain_of_thought" }

func (s *chainOfThoughtStrategy) BuildPrompt(question *models.Question, _ *models.AgentConfig) []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: fmt.Sprintf(
			"Think through this question step by step, then provide your answer:\n\nQuestion: %s", question.Text)},
	}
}

func (s *chainOfThoughtStrategy) ProcessResponse(resp *models.ParsedResponse, _ *models.AgentConfig) (*ReasoningResult, error) {
	answer, _ := resp.StructuredData["answer"].(string)
	reasoning, _ := resp.StructuredData["reasoning"].(string)
	return &ReasoningResult{
		FinalAnswer:   answer,
		ReasoningText: reasoning,
	}, nil
}

// Validate enforces the chain_of_thought-specific floor on max_tokens: a
// step-by-step answer needs room for the reasoning text as well as the
// final answer.
func (s *chainOfThoughtStrategy) Validate(cfg *models.AgentConfig) error {
	if cfg.MaxTokens() < 200 {
		return models.NewValidationError("modelParameters.max_tokens", "chain_of_thought requires max_tokens >= 200")
	}
	return nil
}
