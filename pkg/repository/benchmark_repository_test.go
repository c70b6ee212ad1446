package repository

import (
	"context"
	"testing"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkRepository_CreateAndGet(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)
	require.Len(t, created.Questions, 2)
	assert.Equal(t, "q1", created.Questions[0].ID)
	assert.Equal(t, 0, created.Questions[0].Sequence)
	assert.Equal(t, "q2", created.Questions[1].ID)
	assert.Equal(t, 1, created.Questions[1].Sequence)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mini", got.Name)
	assert.Len(t, got.Questions, 2)
}

func TestBenchmarkRepository_Create_DuplicateName(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	dup := sampleBenchmark()
	dup.ID = "bench-2"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestBenchmarkRepository_Get_NotFound(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)

	_, err := repo.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBenchmarkRepository_GetByName(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "mini")
	require.NoError(t, err)
	assert.Equal(t, "bench-1", got.ID)
}

func TestBenchmarkRepository_List(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	second := sampleBenchmark()
	second.ID = "bench-2"
	second.Name = "mini-2"
	second.Questions[0].ID = "q3"
	second.Questions[1].ID = "q4"
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBenchmarkRepository_Delete_ForbiddenWhenReferenced(t *testing.T) {
	client := newTestClient(t)
	benchRepo := NewBenchmarkRepository(client)
	evalRepo := NewEvaluationRepository(client)
	ctx := context.Background()

	bench, err := benchRepo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	_, err = evalRepo.Create(ctx, &models.Evaluation{
		BenchmarkID: bench.ID,
		AgentConfig: models.AgentConfig{StrategyID: "none", ModelName: "gpt-4"},
	})
	require.NoError(t, err)

	err = benchRepo.Delete(ctx, bench.ID)
	assert.ErrorIs(t, err, models.ErrBenchmarkInUse)
}

func TestBenchmarkRepository_Delete_CascadesQuestions(t *testing.T) {
	client := newTestClient(t)
	repo := NewBenchmarkRepository(client)
	ctx := context.Background()

	bench, err := repo.Create(ctx, sampleBenchmark())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, bench.ID))

	_, err = repo.Get(ctx, bench.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
