package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/ent/benchmark"
	"github.com/ralbench/ralbench/ent/evaluation"
	"github.com/ralbench/ralbench/pkg/models"
)

// EvaluationRepository persists Evaluation aggregates. Evaluations carry a
// snapshot AgentConfig and progress through the state machine defined in
// pkg/models/evaluation.go; this repository only ever stores states the
// caller already validated via Evaluation.Transition.
type EvaluationRepository struct {
	client *ent.Client
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(client *ent.Client) *EvaluationRepository {
	return &EvaluationRepository{client: client}
}

// EvaluationFilters narrows ListEvaluations results.
type EvaluationFilters struct {
	Status      models.EvaluationStatus
	BenchmarkID string
	Limit       int
	Offset      int
}

// Create persists a new Evaluation in EvaluationPending status, referencing
// an existing Benchmark. The benchmark must already exist; its existence is
// checked before the insert, so referencing a missing one returns
// models.ErrNotFound rather than tripping the benchmark_id foreign key
// (a plain reference with no cascade, per SPEC_FULL.md's ownership rule).
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) (*models.Evaluation, error) {
	if err := eval.AgentConfig.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := r.client.Benchmark.Query().
		Where(benchmark.IDEQ(eval.BenchmarkID)).
		Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check benchmark existence: %w", err)
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	agentConfigJSON, err := agentConfigToJSON(eval.AgentConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent config: %w", err)
	}

	id := eval.ID
	if id == "" {
		id = uuid.New().String()
	}

	row, err := r.client.Evaluation.Create().
		SetID(id).
		SetBenchmarkID(eval.BenchmarkID).
		SetAgentConfig(agentConfigJSON).
		SetStatus(evaluation.Status(models.EvaluationPending)).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	return evaluationFromEnt(row)
}

// Get loads an Evaluation by id.
func (r *EvaluationRepository) Get(ctx context.Context, id string) (*models.Evaluation, error) {
	row, err := r.client.Evaluation.Query().
		Where(evaluation.IDEQ(id)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	return evaluationFromEnt(row)
}

// List returns Evaluations matching filters, newest first.
func (r *EvaluationRepository) List(ctx context.Context, filters EvaluationFilters) ([]*models.Evaluation, error) {
	query := r.client.Evaluation.Query()

	if filters.Status != "" {
		query = query.Where(evaluation.StatusEQ(evaluation.Status(filters.Status)))
	}
	if filters.BenchmarkID != "" {
		query = query.Where(evaluation.BenchmarkIDEQ(filters.BenchmarkID))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := query.
		Limit(limit).
		Offset(offset).
		Order(ent.Desc(evaluation.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	evaluations := make([]*models.Evaluation, len(rows))
	for i, row := range rows {
		eval, err := evaluationFromEnt(row)
		if err != nil {
			return nil, err
		}
		evaluations[i] = eval
	}
	return evaluations, nil
}

// Save persists the full current state of an already-transitioned
// Evaluation (status, startedAt, completedAt, failureReason). The caller
// is expected to have called Evaluation.Transition first; Save does not
// re-validate the state machine, only writes what it's given.
func (r *EvaluationRepository) Save(ctx context.Context, eval *models.Evaluation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := r.client.Evaluation.UpdateOneID(eval.ID).
		SetStatus(evaluation.Status(eval.Status))

	if eval.StartedAt != nil {
		update = update.SetStartedAt(*eval.StartedAt)
	}
	if eval.CompletedAt != nil {
		update = update.SetCompletedAt(*eval.CompletedAt)
	}

	if eval.FailureReason != nil {
		reasonJSON, err := failureReasonToJSON(eval.FailureReason)
		if err != nil {
			return fmt.Errorf("failed to marshal failure reason: %w", err)
		}
		update = update.SetFailureReason(reasonJSON)
	} else {
		update = update.ClearFailureReason()
	}

	if err := update.Exec(ctx); err != nil {
		if ent.IsNotFound(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	return nil
}

func evaluationFromEnt(row *ent.Evaluation) (*models.Evaluation, error) {
	agentConfig, err := agentConfigFromJSON(row.AgentConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to decode agent config: %w", err)
	}

	var failureReason *models.FailureReason
	if row.FailureReason != nil {
		failureReason, err = failureReasonFromJSON(*row.FailureReason)
		if err != nil {
			return nil, fmt.Errorf("failed to decode failure reason: %w", err)
		}
	}

	return &models.Evaluation{
		ID:            row.ID,
		BenchmarkID:   row.BenchmarkID,
		AgentConfig:   agentConfig,
		Status:        models.EvaluationStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		StartedAt:     row.StartedAt,
		CompletedAt:   row.CompletedAt,
		FailureReason: failureReason,
	}, nil
}
