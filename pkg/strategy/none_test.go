package strategy

import (
	"strings"
	"testing"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoneStrategy_BuildPrompt(t *testing.T) {
	s := NewNoneStrategy()
	q := &models.Question{Text: "What is 2+2?"}

	msgs := s.BuildPrompt(q, &models.AgentConfig{})
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "What is 2+2?")
	assert.Contains(t, msgs[0].Content, "Answer the following question directly")
}

func TestNoneStrategy_PromptNeverMentionsSchema(t *testing.T) {
	for _, s := range []Strategy{NewNoneStrategy(), NewChainOfThoughtStrategy(), NewSelfConsistencyStrategy()} {
		q := &models.Question{Text: "sample question"}
		for _, msg := range s.BuildPrompt(q, &models.AgentConfig{}) {
			lower := strings.ToLower(msg.Content)
			assert.NotContains(t, lower, "schema", "strategy %s must never mention JSON schema in its prompt text", s.ID())
			assert.NotContains(t, lower, "json", "strategy %s must never instruct JSON formatting in its prompt text", s.ID())
		}
	}
}

func TestNoneStrategy_ProcessResponse(t *testing.T) {
	s := NewNoneStrategy()
	resp := &models.ParsedResponse{StructuredData: map[string]interface{}{"answer": "4"}}

	result, err := s.ProcessResponse(resp, &models.AgentConfig{})
	require.NoError(t, err)
	assert.Equal(t, "4", result.FinalAnswer)
	assert.Empty(t, result.ReasoningText)
}
