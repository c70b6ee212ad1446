package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/ent/benchmark"
	"github.com/ralbench/ralbench/ent/evaluation"
	"github.com/ralbench/ralbench/ent/question"
	"github.com/ralbench/ralbench/pkg/models"
)

// BenchmarkRepository persists Benchmark aggregates: the Benchmark row and
// its ordered Question children, created atomically per spec.md's
// "either all questions and the Benchmark row are persisted or nothing
// is" invariant.
type BenchmarkRepository struct {
	client *ent.Client
}

// NewBenchmarkRepository creates a new BenchmarkRepository.
func NewBenchmarkRepository(client *ent.Client) *BenchmarkRepository {
	return &BenchmarkRepository{client: client}
}

// Create persists b and its Questions in a single transaction. Question
// order is taken from b.Questions' slice position, not from any
// caller-supplied Sequence value, so the persisted order always matches
// the order the benchmark was loaded in.
func (r *BenchmarkRepository) Create(ctx context.Context, b *models.Benchmark) (*models.Benchmark, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := r.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	id := b.ID
	if id == "" {
		id = uuid.New().String()
	}

	row, err := tx.Benchmark.Create().
		SetID(id).
		SetName(b.Name).
		SetDescription(b.Description).
		SetFormatVersion(b.FormatVersion).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create benchmark: %w", err)
	}

	for i := range b.Questions {
		q := &b.Questions[i]
		qID := q.ID
		if qID == "" {
			qID = uuid.New().String()
		}

		builder := tx.Question.Create().
			SetID(qID).
			SetBenchmarkID(row.ID).
			SetSequence(i).
			SetText(q.Text).
			SetExpectedAnswer(q.ExpectedAnswer)
		if q.Metadata != nil {
			builder = builder.SetMetadata(q.Metadata)
		}

		if _, err := builder.Save(ctx); err != nil {
			if ent.IsConstraintError(err) {
				return nil, models.ErrAlreadyExists
			}
			return nil, fmt.Errorf("failed to create question %s: %w", qID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit benchmark creation: %w", err)
	}

	return r.Get(ctx, row.ID)
}

// Get loads a Benchmark by id with its Questions in defined order.
func (r *BenchmarkRepository) Get(ctx context.Context, id string) (*models.Benchmark, error) {
	row, err := r.client.Benchmark.Query().
		Where(benchmark.IDEQ(id)).
		WithQuestions(func(q *ent.QuestionQuery) {
			q.Order(ent.Asc(question.FieldSequence))
		}).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get benchmark: %w", err)
	}

	return benchmarkFromEnt(row), nil
}

// GetByName loads a Benchmark by its unique name, with Questions.
func (r *BenchmarkRepository) GetByName(ctx context.Context, name string) (*models.Benchmark, error) {
	row, err := r.client.Benchmark.Query().
		Where(benchmark.NameEQ(name)).
		WithQuestions(func(q *ent.QuestionQuery) {
			q.Order(ent.Asc(question.FieldSequence))
		}).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get benchmark by name: %w", err)
	}

	return benchmarkFromEnt(row), nil
}

// List returns every Benchmark, newest first, without loading Questions —
// callers that need the full question list should follow up with Get.
func (r *BenchmarkRepository) List(ctx context.Context) ([]*models.Benchmark, error) {
	rows, err := r.client.Benchmark.Query().
		Order(ent.Desc(benchmark.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmarks: %w", err)
	}

	benchmarks := make([]*models.Benchmark, len(rows))
	for i, row := range rows {
		benchmarks[i] = benchmarkFromEnt(row)
	}
	return benchmarks, nil
}

// Delete removes a Benchmark and its Questions (cascade). Deletion is
// refused, per spec.md's ownership rule, if any Evaluation still
// references this benchmark.
func (r *BenchmarkRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inUse, err := r.client.Evaluation.Query().
		Where(evaluation.BenchmarkIDEQ(id)).
		Exist(ctx)
	if err != nil {
		return fmt.Errorf("failed to check referencing evaluations: %w", err)
	}
	if inUse {
		return models.ErrBenchmarkInUse
	}

	if err := r.client.Benchmark.DeleteOneID(id).Exec(ctx); err != nil {
		if ent.IsNotFound(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete benchmark: %w", err)
	}

	return nil
}

func benchmarkFromEnt(row *ent.Benchmark) *models.Benchmark {
	b := &models.Benchmark{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		FormatVersion: row.FormatVersion,
		CreatedAt:     row.CreatedAt,
	}
	for _, q := range row.Edges.Questions {
		b.Questions = append(b.Questions, *questionFromEnt(q))
	}
	return b
}

func questionFromEnt(row *ent.Question) *models.Question {
	return &models.Question{
		ID:             row.ID,
		Sequence:       row.Sequence,
		Text:           row.Text,
		ExpectedAnswer: row.ExpectedAnswer,
		Metadata:       row.Metadata,
	}
}
