package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/ent/evaluationquestionresult"
	"github.com/ralbench/ralbench/pkg/models"
)

// QuestionResultRepository persists EvaluationQuestionResult rows. Rows
// are insert-only: the unique (evaluation_id, question_id) index is the
// mechanism the orchestrator leans on for idempotent resume — a second
// Create for an already-processed question surfaces as
// models.ErrAlreadyExists rather than silently overwriting the row.
type QuestionResultRepository struct {
	client *ent.Client
}

// NewQuestionResultRepository creates a new QuestionResultRepository.
func NewQuestionResultRepository(client *ent.Client) *QuestionResultRepository {
	return &QuestionResultRepository{client: client}
}

// Create persists one EvaluationQuestionResult. Per spec.md's
// "per-question transaction" invariant, this single insert either fully
// succeeds or writes nothing — ent wraps the one statement atomically on
// its own, so no explicit transaction is needed here.
func (r *QuestionResultRepository) Create(ctx context.Context, res *models.EvaluationQuestionResult) (*models.EvaluationQuestionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}

	builder := r.client.EvaluationQuestionResult.Create().
		SetID(id).
		SetEvaluationID(res.EvaluationID).
		SetQuestionID(res.QuestionID).
		SetQuestionText(res.QuestionText).
		SetExpectedAnswer(res.ExpectedAnswer)

	if res.ActualAnswer != nil {
		builder = builder.SetActualAnswer(*res.ActualAnswer)
	}
	if res.IsCorrect != nil {
		builder = builder.SetIsCorrect(*res.IsCorrect)
	}
	if res.ExecutionTimeMs != nil {
		builder = builder.SetExecutionTimeMs(*res.ExecutionTimeMs)
	}
	if res.ErrorMessage != nil {
		builder = builder.SetErrorMessage(*res.ErrorMessage)
	}
	if res.ReasoningTrace != nil {
		traceJSON, err := reasoningTraceToJSON(res.ReasoningTrace)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal reasoning trace: %w", err)
		}
		builder = builder.SetReasoningTrace(traceJSON)
	}
	if !res.ProcessedAt.IsZero() {
		builder = builder.SetProcessedAt(res.ProcessedAt)
	}

	row, err := builder.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create question result: %w", err)
	}

	return questionResultFromEnt(row)
}

// ListByEvaluation returns every result row for evaluationID, in the
// order they were processed.
func (r *QuestionResultRepository) ListByEvaluation(ctx context.Context, evaluationID string) ([]*models.EvaluationQuestionResult, error) {
	rows, err := r.client.EvaluationQuestionResult.Query().
		Where(evaluationquestionresult.EvaluationIDEQ(evaluationID)).
		Order(ent.Asc(evaluationquestionresult.FieldProcessedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list question results: %w", err)
	}

	results := make([]*models.EvaluationQuestionResult, len(rows))
	for i, row := range rows {
		res, err := questionResultFromEnt(row)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}

// ProcessedQuestionIDs returns the set of questionIds already recorded
// for evaluationID — the "done set" spec.md's resume algorithm builds
// before re-running an interrupted evaluation.
func (r *QuestionResultRepository) ProcessedQuestionIDs(ctx context.Context, evaluationID string) (map[string]bool, error) {
	rows, err := r.client.EvaluationQuestionResult.Query().
		Where(evaluationquestionresult.EvaluationIDEQ(evaluationID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed question ids: %w", err)
	}

	done := make(map[string]bool, len(rows))
	for _, row := range rows {
		done[row.QuestionID] = true
	}
	return done, nil
}

func questionResultFromEnt(row *ent.EvaluationQuestionResult) (*models.EvaluationQuestionResult, error) {
	var reasoningTrace *models.ReasoningTrace
	if row.ReasoningTrace != nil {
		trace, err := reasoningTraceFromJSON(*row.ReasoningTrace)
		if err != nil {
			return nil, fmt.Errorf("failed to decode reasoning trace: %w", err)
		}
		reasoningTrace = trace
	}

	return &models.EvaluationQuestionResult{
		ID:              row.ID,
		EvaluationID:    row.EvaluationID,
		QuestionID:      row.QuestionID,
		QuestionText:    row.QuestionText,
		ExpectedAnswer:  row.ExpectedAnswer,
		ActualAnswer:    row.ActualAnswer,
		IsCorrect:       row.IsCorrect,
		ExecutionTimeMs: row.ExecutionTimeMs,
		ReasoningTrace:  reasoningTrace,
		ErrorMessage:    row.ErrorMessage,
		ProcessedAt:     row.ProcessedAt,
	}, nil
}
