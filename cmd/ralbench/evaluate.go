package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Create, run, list, and interrupt evaluations",
}

var (
	evalStrategy    string
	evalModel       string
	evalBenchmark   string
	evalProvider    string
	evalParser      string
	evalTemperature float64
	evalMaxTokens   int
	evalParams      []string
	evalNoStatus    bool
	evalListStatus  string
	evalListBench   string
)

func init() {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new evaluation, printing its id",
		RunE:  runEvaluateCreate,
	}
	createCmd.Flags().StringVar(&evalStrategy, "strategy", "", "reasoning strategy id (none|chain_of_thought|self_consistency)")
	createCmd.Flags().StringVar(&evalModel, "model", "", "model name")
	createCmd.Flags().StringVar(&evalBenchmark, "benchmark", "", "benchmark name")
	createCmd.Flags().StringVar(&evalProvider, "provider", "", "LLM provider override (auto-detected from model name if omitted)")
	createCmd.Flags().StringVar(&evalParser, "parser", "", "parsing strategy override (native|post_process|constrained|auto)")
	createCmd.Flags().Float64Var(&evalTemperature, "temperature", 0, "sampling temperature")
	createCmd.Flags().IntVar(&evalMaxTokens, "max-tokens", 0, "max response tokens")
	createCmd.Flags().StringArrayVar(&evalParams, "param", nil, "additional strategy parameter as key=value (repeatable)")
	_ = createCmd.MarkFlagRequired("strategy")
	_ = createCmd.MarkFlagRequired("model")
	_ = createCmd.MarkFlagRequired("benchmark")

	runCmd := &cobra.Command{
		Use:   "run <evaluationId>",
		Short: "Run an evaluation to completion, streaming progress to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvaluateRun,
	}
	runCmd.Flags().BoolVar(&evalNoStatus, "no-status-server", false, "do not start the local status server")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List evaluations",
		RunE:  runEvaluateList,
	}
	listCmd.Flags().StringVar(&evalListStatus, "status", "", "filter by status")
	listCmd.Flags().StringVar(&evalListBench, "benchmark", "", "filter by benchmark id")

	interruptCmd := &cobra.Command{
		Use:   "interrupt <evaluationId>",
		Short: "Interrupt a running evaluation",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvaluateInterrupt,
	}

	evaluateCmd.AddCommand(createCmd, runCmd, listCmd, interruptCmd)
}

// parseParams turns a list of "key=value" strings into the model/strategy
// parameter maps AgentConfig carries; numeric-looking values are parsed as
// float64 so AgentConfig.Validate's temperature/max_tokens checks apply.
func parseParams(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", p)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = f
		} else {
			out[k] = v
		}
	}
	return out, nil
}

func runEvaluateCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	modelParams, err := parseParams(evalParams)
	if err != nil {
		return newExitError(exitConfigurationError, err)
	}
	// The same --param pairs also fill StrategyParameters, as a separate
	// map, so the temperature/max_tokens flags below stay model-only.
	strategyParams, _ := parseParams(evalParams)
	if evalTemperature != 0 {
		modelParams["temperature"] = evalTemperature
	}
	if evalMaxTokens != 0 {
		modelParams["max_tokens"] = evalMaxTokens
	}

	agentCfg := models.AgentConfig{
		StrategyID:         evalStrategy,
		ModelName:          evalModel,
		Provider:           evalProvider,
		ParsingStrategy:    evalParser,
		ModelParameters:    modelParams,
		StrategyParameters: strategyParams,
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.runner.CreateEvaluation(ctx, agentCfg, evalBenchmark)
	if err != nil {
		return mapDomainError(err)
	}

	fmt.Println(id)
	return nil
}

func runEvaluateRun(cmd *cobra.Command, args []string) error {
	evaluationID := args[0]

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	// signalCtx is only ever used to detect SIGINT/SIGTERM and forward it
	// to Runner.Interrupt; ExecuteEvaluation itself runs on cmd.Context()
	// (uncancelled by the OS signal) so the in-flight question's result
	// still gets persisted once the orchestrator observes the interrupt,
	// rather than having its own persistence write fail because the
	// parent context was already cancelled.
	signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !evalNoStatus {
		addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Defaults.StatusPort)
		srv := newStatusServer(a.evaluations, a.runner)
		go func() {
			if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "status server stopped: %v\n", err)
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
		fmt.Printf("Status server listening on http://%s\n", addr)
	}

	go watchInterrupt(signalCtx, a, evaluationID)

	runErr := a.runner.ExecuteEvaluation(cmd.Context(), evaluationID)
	if runErr != nil {
		return mapDomainError(runErr)
	}

	eval, err := a.evaluations.Get(cmd.Context(), evaluationID)
	if err != nil {
		return mapDomainError(err)
	}

	switch eval.Status {
	case models.EvaluationCompleted:
		fmt.Println("Evaluation completed")
		return nil
	case models.EvaluationInterrupted:
		fmt.Println("Evaluation interrupted")
		os.Exit(exitInterrupted)
		return nil
	case models.EvaluationFailed:
		reason := eval.FailureReason
		fmt.Fprintf(os.Stderr, "Evaluation failed: %s — %s\n", reason.Description, hintFor(reason.Category))
		if reason.Category == models.FailureAuthenticationError {
			os.Exit(exitAuthenticationError)
		}
		os.Exit(exitGeneralError)
		return nil
	default:
		return fmt.Errorf("evaluation ended in unexpected status %q", eval.Status)
	}
}

// watchInterrupt calls Runner.Interrupt as soon as ctx is cancelled (by
// SIGINT/SIGTERM), rather than letting the cancelled context propagate
// straight into ExecuteEvaluation's own outer ctx — matching the
// orchestrator's invariant that the currently in-flight question's result
// is still persisted before the run stops.
func watchInterrupt(ctx context.Context, a *app, evaluationID string) {
	<-ctx.Done()
	_ = a.runner.Interrupt(evaluationID)
}

func runEvaluateList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// repository.EvaluationFilters.Status is an exact enum match; an
	// empty string means "no filter".
	filters := evaluationFiltersFrom(evalListStatus, evalListBench)

	evals, err := a.evaluations.List(ctx, filters)
	if err != nil {
		return mapDomainError(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tBENCHMARK\tSTRATEGY\tMODEL\tCREATED")
	for _, e := range evals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Status, e.BenchmarkID, e.AgentConfig.StrategyID, e.AgentConfig.ModelName,
			e.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runEvaluateInterrupt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.runner.Interrupt(args[0]); err != nil {
		return mapDomainError(err)
	}
	fmt.Println("Interrupt signaled")
	return nil
}
