package strategy

import (
	"fmt"

	"github.com/ralbench/ralbench/pkg/models"
)

// noneStrategy answers a question directly, with no intermediate
// reasoning step.
type noneStrategy struct{}

// NewNoneStrategy returns the "none" (direct-answer) reasoning strategy.
func NewNoneStrategy() Strategy {
	return &noneStrategy{}
}

func (s *noneStrategy) ID() string             { return "none" }
func (s *noneStrategy) OutputSchemaID() string { return "direct_answer" }

func (s *noneStrategy) BuildPrompt(question *models.Question, _ *models.AgentConfig) []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: fmt.Sprintf("Answer the following question directly:\n\nQuestion: %s", question.Text)},
	}
}

func (s *noneStrategy) ProcessResponse(resp *models.ParsedResponse, _ *models.AgentConfig) (*ReasoningResult, error) {
	answer, _ := resp.StructuredData["answer"].(string)
	return &ReasoningResult{
		FinalAnswer:   answer,
		ReasoningText: "",
	}, nil
}

func (s *noneStrategy) Validate(_ *models.AgentConfig) error {
	return nil
}
