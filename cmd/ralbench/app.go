package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/database"
	"github.com/ralbench/ralbench/pkg/llm"
	"github.com/ralbench/ralbench/pkg/orchestrator"
	"github.com/ralbench/ralbench/pkg/repository"
	"github.com/ralbench/ralbench/pkg/strategy"
)

// app bundles every long-lived dependency a subcommand needs, built once
// per invocation the same way cmd/tarsy/main.go wires config, database,
// and services before handing them to the HTTP layer.
type app struct {
	cfg         *config.Config
	db          *database.Client
	benchmarks  *repository.BenchmarkRepository
	evaluations *repository.EvaluationRepository
	results     *repository.QuestionResultRepository
	runner      *orchestrator.Runner
}

func newApp(ctx context.Context) (*app, error) {
	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	}

	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		return nil, newExitError(exitConfigurationError, fmt.Errorf("failed to initialize configuration: %w", err))
	}

	dbCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		return nil, newExitError(exitConfigurationError, fmt.Errorf("failed to load database config: %w", err))
	}

	db, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	benchmarks := repository.NewBenchmarkRepository(db.Client)
	evaluations := repository.NewEvaluationRepository(db.Client)
	results := repository.NewQuestionResultRepository(db.Client)

	registry := strategy.NewDefaultRegistry()
	factory := llm.NewFactory(cfg.LLMProviderRegistry)
	runner := orchestrator.NewRunner(benchmarks, evaluations, results, registry, factory)

	return &app{
		cfg:         cfg,
		db:          db,
		benchmarks:  benchmarks,
		evaluations: evaluations,
		results:     results,
		runner:      runner,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Printf("error closing database client: %v", err)
	}
}
