package models

import (
	"fmt"
	"time"
)

// EvaluationStatus is the lifecycle state of an Evaluation.
type EvaluationStatus string

const (
	EvaluationPending     EvaluationStatus = "pending"
	EvaluationRunning     EvaluationStatus = "running"
	EvaluationCompleted   EvaluationStatus = "completed"
	EvaluationFailed      EvaluationStatus = "failed"
	EvaluationInterrupted EvaluationStatus = "interrupted"
)

// permittedTransitions enumerates every edge the Evaluation state machine
// allows. All other transitions are programming errors.
var permittedTransitions = map[EvaluationStatus]map[EvaluationStatus]bool{
	EvaluationPending: {
		EvaluationRunning: true,
	},
	EvaluationRunning: {
		EvaluationCompleted:   true,
		EvaluationFailed:      true,
		EvaluationInterrupted: true,
	},
	EvaluationInterrupted: {
		EvaluationRunning: true,
	},
}

// CanTransition reports whether moving from `from` to `to` is a permitted edge.
func CanTransition(from, to EvaluationStatus) bool {
	return permittedTransitions[from][to]
}

// IsTerminal reports whether status is one from which no further
// transition is permitted.
func (s EvaluationStatus) IsTerminal() bool {
	return s == EvaluationCompleted || s == EvaluationFailed
}

// Evaluation is the aggregate root tying a Benchmark, an AgentConfig
// snapshot, and the accumulated per-question results together.
type Evaluation struct {
	ID            string           `json:"id"`
	BenchmarkID   string           `json:"benchmarkId"`
	AgentConfig   AgentConfig      `json:"agentConfig"`
	Status        EvaluationStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	StartedAt     *time.Time       `json:"startedAt,omitempty"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
	FailureReason *FailureReason   `json:"failureReason,omitempty"`
}

// Transition moves the Evaluation to `to`, enforcing the permitted-edges
// table and the startedAt/completedAt/failureReason invariants from the
// data model. It mutates e in place.
func (e *Evaluation) Transition(to EvaluationStatus, now time.Time, reason *FailureReason) error {
	if !CanTransition(e.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, to)
	}

	if to == EvaluationRunning && e.StartedAt == nil {
		e.StartedAt = &now
	}

	if to == EvaluationCompleted || to == EvaluationFailed || to == EvaluationInterrupted {
		e.CompletedAt = &now
	}

	if to == EvaluationFailed {
		if reason == nil {
			return NewValidationError("failureReason", "must be set when transitioning to failed")
		}
		e.FailureReason = reason
	}

	e.Status = to
	return nil
}

// Progress is a spot-read snapshot of how far an in-flight or finished
// Evaluation has gotten, computed from EvaluationQuestionResult rows.
type Progress struct {
	EvaluationID   string           `json:"evaluationId"`
	Status         EvaluationStatus `json:"status"`
	TotalQuestions int              `json:"totalQuestions"`
	ProcessedCount int              `json:"processedCount"`
	LastQuestionID string           `json:"lastQuestionId,omitempty"`
	AverageMs      float64          `json:"averageExecutionTimeMs"`
	ETA            *time.Duration   `json:"etaMs,omitempty"`
}

// EvaluationResults is computed on read by scanning every
// EvaluationQuestionResult for an Evaluation — never persisted itself.
type EvaluationResults struct {
	EvaluationID           string                     `json:"evaluationId"`
	TotalQuestions         int                        `json:"totalQuestions"`
	CorrectAnswers         int                        `json:"correctAnswers"`
	Accuracy               float64                    `json:"accuracy"`
	AverageExecutionTimeMs float64                    `json:"averageExecutionTimeMs"`
	ErrorCount             int                        `json:"errorCount"`
	Details                []EvaluationQuestionResult `json:"details"`
}

// ComputeEvaluationResults derives aggregate accuracy/timing statistics
// from the persisted per-question results of one evaluation.
func ComputeEvaluationResults(evaluationID string, results []EvaluationQuestionResult) *EvaluationResults {
	agg := &EvaluationResults{
		EvaluationID: evaluationID,
		Details:      results,
	}

	var totalMs int64
	for _, r := range results {
		agg.TotalQuestions++
		if r.IsCorrect != nil && *r.IsCorrect {
			agg.CorrectAnswers++
		}
		if r.ErrorMessage != nil {
			agg.ErrorCount++
		}
		if r.ExecutionTimeMs != nil {
			totalMs += int64(*r.ExecutionTimeMs)
		}
	}

	if agg.TotalQuestions > 0 {
		agg.Accuracy = float64(agg.CorrectAnswers) / float64(agg.TotalQuestions)
		agg.AverageExecutionTimeMs = float64(totalMs) / float64(agg.TotalQuestions)
	}

	return agg
}
