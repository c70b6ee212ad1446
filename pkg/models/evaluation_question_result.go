package models

import "time"

// EvaluationQuestionResult is an insert-only record of one question's
// processing within an Evaluation: (evaluationId, questionId) is unique.
type EvaluationQuestionResult struct {
	ID              string          `json:"id"`
	EvaluationID    string          `json:"evaluationId"`
	QuestionID      string          `json:"questionId"`
	QuestionText    string          `json:"questionText"`
	ExpectedAnswer  string          `json:"expectedAnswer"`
	ActualAnswer    *string         `json:"actualAnswer,omitempty"`
	IsCorrect       *bool           `json:"isCorrect,omitempty"`
	ExecutionTimeMs *int            `json:"executionTimeMs,omitempty"`
	ReasoningTrace  *ReasoningTrace `json:"reasoningTrace,omitempty"`
	ErrorMessage    *string         `json:"errorMessage,omitempty"`
	ProcessedAt     time.Time       `json:"processedAt"`
}

// ReasoningTrace captures how a strategy arrived at its final answer.
type ReasoningTrace struct {
	ApproachType  string                 `json:"approachType"`
	ReasoningText string                 `json:"reasoningText,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// ParsedResponse is the value produced at the ACL boundary by an
// LLMClient call: raw text plus, if structured-output parsing succeeded,
// the validated object behind it.
type ParsedResponse struct {
	Content        string                 `json:"content"`
	StructuredData map[string]interface{} `json:"structuredData,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Validate enforces the one invariant ParsedResponse carries: content must
// not be empty or all-whitespace.
func (p *ParsedResponse) Validate() error {
	trimmed := 0
	for _, r := range p.Content {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			trimmed++
			break
		}
	}
	if trimmed == 0 {
		return NewValidationError("content", "must not be empty or all-whitespace")
	}
	return nil
}
