package strategy

import (
	"fmt"
	"sort"

	"github.com/ralbench/ralbench/pkg/models"
)

const defaultSelfConsistencySamples = 3

// selfConsistencyStrategy builds the same prompt as chain_of_thought, but
// the orchestrator samples it SampleCount() times, runs ProcessResponse on
// each sampled ParsedResponse, and passes the per-sample results to
// Resolve, which takes the majority-vote answer. The strategy itself holds
// no state between samples.
type selfConsistencyStrategy struct{}

// NewSelfConsistencyStrategy returns the "self_consistency" reasoning
// strategy: majority vote across N independently sampled completions.
func NewSelfConsistencyStrategy() Strategy {
	return &selfConsistencyStrategy{}
}

func (s *selfConsistencyStrategy) ID() string             { return "self_consistency" }
func (s *selfConsistencyStrategy) OutputSchemaID() string { return "chain_of_thought" }

func (s *selfConsistencyStrategy) BuildPrompt(question *models.Question, _ *models.AgentConfig) []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: fmt.Sprintf(
			"Think through this question step by step, then provide your answer:\n\nQuestion: %s", question.Text)},
	}
}

// ProcessResponse handles one sampled completion: the orchestrator calls
// it once per sample and then Resolve over all of the results. On its own
// it returns that single sample's answer and reasoning, with
// Metadata["samples"] holding just that answer.
func (s *selfConsistencyStrategy) ProcessResponse(resp *models.ParsedResponse, _ *models.AgentConfig) (*ReasoningResult, error) {
	answer, _ := resp.StructuredData["answer"].(string)
	reasoning, _ := resp.StructuredData["reasoning"].(string)
	return &ReasoningResult{
		FinalAnswer:   answer,
		ReasoningText: reasoning,
		Metadata: map[string]interface{}{
			"samples": []string{answer},
		},
	}, nil
}

// Validate enforces the same max_tokens floor as chain_of_thought (the
// prompt is identical) plus the samples bound.
func (s *selfConsistencyStrategy) Validate(cfg *models.AgentConfig) error {
	if cfg.MaxTokens() < 200 {
		return models.NewValidationError("modelParameters.max_tokens", "self_consistency requires max_tokens >= 200")
	}

	n, err := SampleCount(cfg)
	if err != nil {
		return err
	}
	if n < 1 || n > 10 {
		return models.NewValidationError("strategyParameters.samples", "must be a positive integer <= 10")
	}
	return nil
}

// SampleCount returns the configured number of samples for a
// self_consistency evaluation, defaulting to 3 when unset.
func SampleCount(cfg *models.AgentConfig) (int, error) {
	raw, ok := cfg.StrategyParameters["samples"]
	if !ok {
		return defaultSelfConsistencySamples, nil
	}

	switch n := raw.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, models.NewValidationError("strategyParameters.samples", "must be an integer")
	}
}

// Resolve takes the majority-vote answer across a set of sampled
// reasoning results, breaking ties by first occurrence. The winning
// sample's reasoning text is kept; every sample's answer is attached to
// Metadata["samples"] for auditability.
func Resolve(samples []*ReasoningResult) *ReasoningResult {
	counts := make(map[string]int)
	order := make([]string, 0, len(samples))
	answers := make([]string, 0, len(samples))

	for _, s := range samples {
		if counts[s.FinalAnswer] == 0 {
			order = append(order, s.FinalAnswer)
		}
		counts[s.FinalAnswer]++
		answers = append(answers, s.FinalAnswer)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	winner := ""
	if len(order) > 0 {
		winner = order[0]
	}

	reasoningText := ""
	for _, s := range samples {
		if s.FinalAnswer == winner {
			reasoningText = s.ReasoningText
			break
		}
	}

	return &ReasoningResult{
		FinalAnswer:   winner,
		ReasoningText: reasoningText,
		Metadata: map[string]interface{}{
			"samples": answers,
		},
	}
}
