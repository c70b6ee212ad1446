package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/pkg/llm/parsing"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/ralbench/ralbench/pkg/orchestrator"
	"github.com/ralbench/ralbench/pkg/repository"
	"github.com/ralbench/ralbench/pkg/strategy"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct{}

func (stubClient) ChatCompletion(context.Context, string, []models.Message, map[string]interface{}) (*models.ParsedResponse, error) {
	return &models.ParsedResponse{Content: `{"answer":"4"}`, StructuredData: map[string]interface{}{"answer": "4"}}, nil
}

type stubFactory struct{}

func (stubFactory) Create(*models.AgentConfig) (parsing.Decorator, error) { return stubClient{}, nil }

func newTestServer(t *testing.T) (*httptest.Server, *repository.EvaluationRepository, string) {
	t.Helper()

	client, err := ent.Open(dialect.SQLite, "file:ent?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	require.NoError(t, client.Schema.Create(context.Background()))
	t.Cleanup(func() { require.NoError(t, client.Close()) })

	benchmarks := repository.NewBenchmarkRepository(client)
	evaluations := repository.NewEvaluationRepository(client)
	results := repository.NewQuestionResultRepository(client)

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewNoneStrategy())

	runner := orchestrator.NewRunner(benchmarks, evaluations, results, registry, stubFactory{})

	bench, err := benchmarks.Create(context.Background(), &models.Benchmark{
		Name:          "mini",
		FormatVersion: "v1",
		Questions:     []models.Question{{ID: "q1", Text: "2+2?", ExpectedAnswer: "4"}},
	})
	require.NoError(t, err)

	eval, err := evaluations.Create(context.Background(), &models.Evaluation{
		BenchmarkID: bench.ID,
		AgentConfig: models.AgentConfig{StrategyID: "none", ModelName: "gpt-4"},
	})
	require.NoError(t, err)

	srv := NewServer(evaluations, runner)
	return httptest.NewServer(srv.engine), evaluations, eval.ID
}

func TestHealthHandler(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetEvaluationHandler(t *testing.T) {
	ts, _, evalID := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/evaluations/" + evalID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Evaluation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, evalID, got.ID)
}

func TestGetEvaluationHandler_NotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/evaluations/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProgressAndResultsHandlers(t *testing.T) {
	ts, evaluations, evalID := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/evaluations/" + evalID + "/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var progress models.Progress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&progress))
	assert.Equal(t, evalID, progress.EvaluationID)
	assert.Equal(t, 1, progress.TotalQuestions)

	resp2, err := http.Get(ts.URL + "/evaluations/" + evalID + "/results")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var results models.EvaluationResults
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&results))
	assert.Equal(t, evalID, results.EvaluationID)

	_, err = evaluations.Get(context.Background(), evalID)
	require.NoError(t, err)
}
