// Package orchestrator implements the Evaluation Orchestrator (C7): the
// control loop that walks a Benchmark's Questions through a Strategy and
// an LLM Client, persisting one EvaluationQuestionResult per question and
// driving the Evaluation state machine.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ralbench/ralbench/pkg/llm"
	"github.com/ralbench/ralbench/pkg/llm/parsing"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/ralbench/ralbench/pkg/repository"
	"github.com/ralbench/ralbench/pkg/strategy"
)

// ClientFactory resolves an AgentConfig to the decorated LLM client that
// should serve it. *llm.Factory satisfies this; tests substitute a fake
// that skips the network entirely.
type ClientFactory interface {
	Create(cfg *models.AgentConfig) (parsing.Decorator, error)
}

// Runner drives evaluations end to end. Only one evaluation executes at a
// time per Runner instance, matching spec.md's "one evaluation executes
// at a time per process" scheduling model; within an evaluation, questions
// are processed sequentially.
type Runner struct {
	benchmarks  *repository.BenchmarkRepository
	evaluations *repository.EvaluationRepository
	results     *repository.QuestionResultRepository
	strategies  *strategy.Registry
	factory     ClientFactory

	mu         sync.Mutex
	running    bool
	interrupts map[string]context.CancelFunc
}

// NewRunner creates a Runner wired to the given repositories, strategy
// registry, and LLM client factory.
func NewRunner(
	benchmarks *repository.BenchmarkRepository,
	evaluations *repository.EvaluationRepository,
	results *repository.QuestionResultRepository,
	strategies *strategy.Registry,
	factory ClientFactory,
) *Runner {
	return &Runner{
		benchmarks:  benchmarks,
		evaluations: evaluations,
		results:     results,
		strategies:  strategies,
		factory:     factory,
		interrupts:  make(map[string]context.CancelFunc),
	}
}

// CreateEvaluation validates agentConfig, resolves the named Benchmark,
// and persists a new PENDING Evaluation.
func (r *Runner) CreateEvaluation(ctx context.Context, agentConfig models.AgentConfig, benchmarkName string) (string, error) {
	if err := agentConfig.Validate(); err != nil {
		return "", err
	}

	strat, err := r.strategies.Get(agentConfig.StrategyID)
	if err != nil {
		return "", models.NewValidationError("strategyId", err.Error())
	}
	if err := strat.Validate(&agentConfig); err != nil {
		return "", err
	}

	bench, err := r.benchmarks.GetByName(ctx, benchmarkName)
	if err != nil {
		return "", err
	}

	eval, err := r.evaluations.Create(ctx, &models.Evaluation{
		BenchmarkID: bench.ID,
		AgentConfig: agentConfig,
	})
	if err != nil {
		return "", err
	}

	return eval.ID, nil
}

// Interrupt signals the in-flight execution of evaluationID, if any in
// this process, to stop gracefully between questions. It returns
// ErrNotRunning if no such execution is underway here.
func (r *Runner) Interrupt(evaluationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancel, ok := r.interrupts[evaluationID]
	if !ok {
		return ErrNotRunning
	}
	cancel()
	return nil
}

// GetProgress computes a Progress snapshot from persisted question
// results and the Benchmark's total question count.
func (r *Runner) GetProgress(ctx context.Context, evaluationID string) (*models.Progress, error) {
	eval, err := r.evaluations.Get(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	bench, err := r.benchmarks.Get(ctx, eval.BenchmarkID)
	if err != nil {
		return nil, err
	}
	results, err := r.results.ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	progress := &models.Progress{
		EvaluationID:   evaluationID,
		Status:         eval.Status,
		TotalQuestions: len(bench.Questions),
		ProcessedCount: len(results),
	}

	if len(results) == 0 {
		return progress, nil
	}

	progress.LastQuestionID = results[len(results)-1].QuestionID

	var totalMs int64
	for _, res := range results {
		if res.ExecutionTimeMs != nil {
			totalMs += int64(*res.ExecutionTimeMs)
		}
	}
	progress.AverageMs = float64(totalMs) / float64(len(results))

	if remaining := progress.TotalQuestions - progress.ProcessedCount; remaining > 0 && progress.AverageMs > 0 {
		eta := time.Duration(float64(remaining)*progress.AverageMs) * time.Millisecond
		progress.ETA = &eta
	}

	return progress, nil
}

// GetResults computes aggregate accuracy/timing statistics by scanning
// every persisted EvaluationQuestionResult for evaluationID.
func (r *Runner) GetResults(ctx context.Context, evaluationID string) (*models.EvaluationResults, error) {
	results, err := r.results.ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	details := make([]models.EvaluationQuestionResult, len(results))
	for i, res := range results {
		details[i] = *res
	}

	return models.ComputeEvaluationResults(evaluationID, details), nil
}

// ExecuteEvaluation runs (or resumes) evaluationID to completion,
// interruption, or fatal failure, per spec.md §4.6's execution algorithm.
func (r *Runner) ExecuteEvaluation(ctx context.Context, evaluationID string) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	runCtx, cancel := context.WithCancel(ctx)
	r.interrupts[evaluationID] = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		delete(r.interrupts, evaluationID)
		r.mu.Unlock()
		cancel()
	}()

	eval, err := r.evaluations.Get(ctx, evaluationID)
	if err != nil {
		return err
	}
	if eval.Status.IsTerminal() {
		return fmt.Errorf("%w: evaluation %s is already %s", models.ErrInvalidTransition, evaluationID, eval.Status)
	}

	if eval.Status != models.EvaluationRunning {
		if err := eval.Transition(models.EvaluationRunning, time.Now(), nil); err != nil {
			return err
		}
		if err := r.evaluations.Save(ctx, eval); err != nil {
			return err
		}
	}

	bench, err := r.benchmarks.Get(ctx, eval.BenchmarkID)
	if err != nil {
		return err
	}

	strat, err := r.strategies.Get(eval.AgentConfig.StrategyID)
	if err != nil {
		return models.NewValidationError("strategyId", err.Error())
	}

	done, err := r.results.ProcessedQuestionIDs(ctx, evaluationID)
	if err != nil {
		return err
	}

	client, err := r.factory.Create(&eval.AgentConfig)
	if err != nil {
		return err
	}

	var fatalReason *models.FailureReason
	interrupted := false

	for i := range bench.Questions {
		q := &bench.Questions[i]
		if done[q.ID] {
			continue
		}

		select {
		case <-runCtx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}

		result, reason := r.processQuestion(runCtx, client, strat, q, &eval.AgentConfig, evaluationID)

		if _, err := r.results.Create(ctx, result); err != nil {
			return fmt.Errorf("failed to persist question result: %w", err)
		}

		if reason != nil && reason.Category.IsFatal() {
			fatalReason = reason
			break
		}

		if runCtx.Err() != nil {
			interrupted = true
			break
		}
	}

	now := time.Now()
	switch {
	case interrupted:
		return r.finish(ctx, eval, models.EvaluationInterrupted, now, nil)
	case fatalReason != nil:
		return r.finish(ctx, eval, models.EvaluationFailed, now, fatalReason)
	default:
		return r.finish(ctx, eval, models.EvaluationCompleted, now, nil)
	}
}

func (r *Runner) finish(ctx context.Context, eval *models.Evaluation, status models.EvaluationStatus, now time.Time, reason *models.FailureReason) error {
	if err := eval.Transition(status, now, reason); err != nil {
		return err
	}
	return r.evaluations.Save(ctx, eval)
}

// processQuestion runs one question through the strategy/client pair and
// always returns a persistable EvaluationQuestionResult — on failure, the
// result records the failure rather than propagating it, so the caller
// persists exactly one row per question regardless of outcome. The
// returned FailureReason, when non-nil, is what the caller consults to
// decide whether the whole evaluation must abort.
func (r *Runner) processQuestion(
	ctx context.Context,
	client parsing.Decorator,
	strat strategy.Strategy,
	q *models.Question,
	cfg *models.AgentConfig,
	evaluationID string,
) (*models.EvaluationQuestionResult, *models.FailureReason) {
	base := &models.EvaluationQuestionResult{
		EvaluationID:   evaluationID,
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		ExpectedAnswer: q.ExpectedAnswer,
		ProcessedAt:    time.Now(),
	}

	if strat.ID() == "self_consistency" {
		return r.processSelfConsistency(ctx, client, strat, q, cfg, base)
	}

	start := time.Now()
	messages := strat.BuildPrompt(q, cfg)
	resp, err := client.ChatCompletion(ctx, cfg.ModelName, messages, buildOptions(cfg, strat.OutputSchemaID()))
	elapsed := int(time.Since(start).Milliseconds())
	base.ExecutionTimeMs = &elapsed

	if err != nil {
		return recordFailure(base, strat.ID(), err), failureReasonOf(err)
	}

	reasoning, err := strat.ProcessResponse(resp, cfg)
	if err != nil {
		return recordFailure(base, strat.ID(), err), nil
	}

	return recordSuccess(base, strat.ID(), reasoning), nil
}

func (r *Runner) processSelfConsistency(
	ctx context.Context,
	client parsing.Decorator,
	strat strategy.Strategy,
	q *models.Question,
	cfg *models.AgentConfig,
	base *models.EvaluationQuestionResult,
) (*models.EvaluationQuestionResult, *models.FailureReason) {
	samples, err := strategy.SampleCount(cfg)
	if err != nil {
		return recordFailure(base, strat.ID(), err), nil
	}

	messages := strat.BuildPrompt(q, cfg)
	options := buildOptions(cfg, strat.OutputSchemaID())

	start := time.Now()
	results := make([]*strategy.ReasoningResult, 0, samples)
	for i := 0; i < samples; i++ {
		resp, err := client.ChatCompletion(ctx, cfg.ModelName, messages, options)
		if err != nil {
			elapsed := int(time.Since(start).Milliseconds())
			base.ExecutionTimeMs = &elapsed
			return recordFailure(base, strat.ID(), err), failureReasonOf(err)
		}

		reasoning, err := strat.ProcessResponse(resp, cfg)
		if err != nil {
			elapsed := int(time.Since(start).Milliseconds())
			base.ExecutionTimeMs = &elapsed
			return recordFailure(base, strat.ID(), err), nil
		}
		results = append(results, reasoning)
	}
	elapsed := int(time.Since(start).Milliseconds())
	base.ExecutionTimeMs = &elapsed

	return recordSuccess(base, strat.ID(), strategy.Resolve(results)), nil
}

// buildOptions turns the agentConfig's model parameters plus the
// strategy's schema id into the options map the LLM client factory's
// decorators inspect.
func buildOptions(cfg *models.AgentConfig, schemaID string) map[string]interface{} {
	options := make(map[string]interface{}, len(cfg.ModelParameters)+1)
	for k, v := range cfg.ModelParameters {
		options[k] = v
	}
	options[parsing.OptionSchemaID] = schemaID
	return options
}

func recordSuccess(base *models.EvaluationQuestionResult, strategyID string, reasoning *strategy.ReasoningResult) *models.EvaluationQuestionResult {
	answer := reasoning.FinalAnswer
	correct := answersMatch(answer, base.ExpectedAnswer)
	base.ActualAnswer = &answer
	base.IsCorrect = &correct
	base.ReasoningTrace = &models.ReasoningTrace{
		ApproachType:  strategyID,
		ReasoningText: reasoning.ReasoningText,
		Metadata:      reasoning.Metadata,
	}
	return base
}

func recordFailure(base *models.EvaluationQuestionResult, strategyID string, err error) *models.EvaluationQuestionResult {
	empty := ""
	falseVal := false
	msg := err.Error()
	base.ActualAnswer = &empty
	base.IsCorrect = &falseVal
	base.ErrorMessage = &msg
	base.ReasoningTrace = &models.ReasoningTrace{ApproachType: strategyID}
	return base
}

// answersMatch applies spec.md §4.6's default comparison: case-insensitive,
// trimmed string equality.
func answersMatch(actual, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(actual), strings.TrimSpace(expected))
}

// failureReasonOf classifies an error returned from a parsing.Decorator's
// ChatCompletion: provider errors (already mapped at the pkg/llm ACL
// boundary) take priority; anything else, including parserExceptions
// raised by the decorator itself, goes through parsing.ToFailureReason.
func failureReasonOf(err error) *models.FailureReason {
	if reason, ok := llm.AsFailureReason(err); ok {
		return reason
	}
	return parsing.ToFailureReason(err)
}
