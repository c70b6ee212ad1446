package repository

import (
	"context"
	"testing"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEvaluation(t *testing.T) (client *EvaluationRepository, questionRepo *QuestionResultRepository, evaluationID string) {
	t.Helper()
	c := newTestClient(t)
	benchRepo := NewBenchmarkRepository(c)
	evalRepo := NewEvaluationRepository(c)
	qRepo := NewQuestionResultRepository(c)
	ctx := context.Background()

	bench, err := benchRepo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	eval, err := evalRepo.Create(ctx, &models.Evaluation{
		BenchmarkID: bench.ID,
		AgentConfig: models.AgentConfig{StrategyID: "none", ModelName: "gpt-4"},
	})
	require.NoError(t, err)

	return evalRepo, qRepo, eval.ID
}

func TestQuestionResultRepository_CreateAndListByEvaluation(t *testing.T) {
	_, qRepo, evalID := setupEvaluation(t)
	ctx := context.Background()

	actual := "4"
	correct := true
	ms := 120
	_, err := qRepo.Create(ctx, &models.EvaluationQuestionResult{
		EvaluationID:   evalID,
		QuestionID:     "q1",
		QuestionText:   "What is 2+2?",
		ExpectedAnswer: "4",
		ActualAnswer:   &actual,
		IsCorrect:      &correct,
		ExecutionTimeMs: &ms,
		ReasoningTrace: &models.ReasoningTrace{ApproachType: "none"},
	})
	require.NoError(t, err)

	results, err := qRepo.ListByEvaluation(ctx, evalID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "q1", results[0].QuestionID)
	assert.True(t, *results[0].IsCorrect)
	require.NotNil(t, results[0].ReasoningTrace)
	assert.Equal(t, "none", results[0].ReasoningTrace.ApproachType)
}

func TestQuestionResultRepository_Create_DuplicateQuestionIsIdempotencyBoundary(t *testing.T) {
	_, qRepo, evalID := setupEvaluation(t)
	ctx := context.Background()

	res := &models.EvaluationQuestionResult{
		EvaluationID:   evalID,
		QuestionID:     "q1",
		QuestionText:   "What is 2+2?",
		ExpectedAnswer: "4",
	}
	_, err := qRepo.Create(ctx, res)
	require.NoError(t, err)

	_, err = qRepo.Create(ctx, res)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestQuestionResultRepository_ProcessedQuestionIDs(t *testing.T) {
	_, qRepo, evalID := setupEvaluation(t)
	ctx := context.Background()

	_, err := qRepo.Create(ctx, &models.EvaluationQuestionResult{
		EvaluationID:   evalID,
		QuestionID:     "q1",
		QuestionText:   "What is 2+2?",
		ExpectedAnswer: "4",
	})
	require.NoError(t, err)

	done, err := qRepo.ProcessedQuestionIDs(ctx, evalID)
	require.NoError(t, err)
	assert.True(t, done["q1"])
	assert.False(t, done["q2"])
}
