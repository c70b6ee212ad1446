package orchestrator

import (
	"context"
	"errors"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/pkg/llm/parsing"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/ralbench/ralbench/pkg/repository"
	"github.com/ralbench/ralbench/pkg/strategy"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// errScriptExhausted is returned by scriptedClient when a test calls it
// more times than it scripted answers for.
var errScriptExhausted = errors.New("scriptedClient: no more answers queued")

// newTestRunner wires a Runner to an in-memory SQLite-backed ent client,
// real repositories, a registry carrying only the "none" strategy, and
// the given fake client factory, the same lightweight setup
// pkg/repository's tests use, one layer up.
func newTestRunner(t *testing.T, factory ClientFactory) (*Runner, *repository.BenchmarkRepository, *repository.EvaluationRepository) {
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

	runner := NewRunner(benchmarks, evaluations, results, registry, factory)
	return runner, benchmarks, evaluations
}

func seedBenchmark(t *testing.T, benchmarks *repository.BenchmarkRepository) *models.Benchmark {
	t.Helper()
	bench, err := benchmarks.Create(context.Background(), &models.Benchmark{
		Name:          "mini",
		FormatVersion: "v1",
		Questions: []models.Question{
			{ID: "q1", Text: "What is 2+2?", ExpectedAnswer: "4"},
			{ID: "q2", Text: "What is 3+3?", ExpectedAnswer: "6"},
		},
	})
	require.NoError(t, err)
	return bench
}

func seedEvaluation(t *testing.T, evaluations *repository.EvaluationRepository, benchmarkID string) *models.Evaluation {
	t.Helper()
	eval, err := evaluations.Create(context.Background(), &models.Evaluation{
		BenchmarkID: benchmarkID,
		AgentConfig: models.AgentConfig{StrategyID: "none", ModelName: "gpt-4"},
	})
	require.NoError(t, err)
	return eval
}

// fakeFactory always returns the same client regardless of
// AgentConfig, standing in for llm.Factory's (provider, strategy, model)
// caching and parsing.Wrap decoration: this package tests the
// orchestration loop, not the ACL boundary pkg/llm and pkg/llm/parsing
// already cover on their own.
type fakeFactory struct {
	client parsing.Decorator
	err    error
}

func (f *fakeFactory) Create(_ *models.AgentConfig) (parsing.Decorator, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

// scriptedClient answers ChatCompletion calls from a queue of canned
// results, one per call, in order, enough to script a whole evaluation's
// worth of per-question responses without a real provider.
type scriptedClient struct {
	calls   int
	answers []string
	errs    []error
}

func (c *scriptedClient) ChatCompletion(_ context.Context, _ string, _ []models.Message, _ map[string]interface{}) (*models.ParsedResponse, error) {
	i := c.calls
	c.calls++

	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	if i >= len(c.answers) {
		return nil, errScriptExhausted
	}
	return &models.ParsedResponse{
		Content:        `{"answer":"` + c.answers[i] + `"}`,
		StructuredData: map[string]interface{}{"answer": c.answers[i]},
	}, nil
}

// emptyThenAnswerClient is a bare Client (not already schema-decorated)
// standing in for a real provider: tests wrap it in a real parsing
// decorator via parsing.Wrap so the decorator's own ParserException
// translation actually runs, instead of a test double short-circuiting
// it. An empty-string answer yields a ParsedResponse with no content at
// all, so the post_process decorator's response_empty check fires.
type emptyThenAnswerClient struct {
	calls   int
	answers []string
}

func (c *emptyThenAnswerClient) ChatCompletion(_ context.Context, _ string, _ []models.Message, _ map[string]interface{}) (*models.ParsedResponse, error) {
	i := c.calls
	c.calls++
	if c.answers[i] == "" {
		return &models.ParsedResponse{}, nil
	}
	return &models.ParsedResponse{
		Content:        `{"answer":"` + c.answers[i] + `"}`,
		StructuredData: map[string]interface{}{"answer": c.answers[i]},
	}, nil
}

// blockingClient answers its first call with a fixed answer only after
// release is closed, signaling started once it's been entered: the
// rendezvous a test uses to call Interrupt while a question is in
// flight, deterministically, without a sleep-based race.
type blockingClient struct {
	answer  string
	started chan struct{}
	release chan struct{}

	startedOnce bool
}

func (c *blockingClient) ChatCompletion(_ context.Context, _ string, _ []models.Message, _ map[string]interface{}) (*models.ParsedResponse, error) {
	if !c.startedOnce {
		c.startedOnce = true
		close(c.started)
	}
	<-c.release
	return &models.ParsedResponse{
		Content:        `{"answer":"` + c.answer + `"}`,
		StructuredData: map[string]interface{}{"answer": c.answer},
	}, nil
}
