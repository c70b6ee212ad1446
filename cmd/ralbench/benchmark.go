package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ralbench/ralbench/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Create, list, and show benchmarks",
}

func init() {
	benchmarkCmd.AddCommand(
		&cobra.Command{
			Use:   "create <file.yaml>",
			Short: "Load a benchmark definition from a YAML file and persist it",
			Args:  cobra.ExactArgs(1),
			RunE:  runBenchmarkCreate,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List benchmarks",
			RunE:  runBenchmarkList,
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Show a benchmark's questions",
			Args:  cobra.ExactArgs(1),
			RunE:  runBenchmarkShow,
		},
	)
}

// benchmarkFile is the on-disk YAML shape `benchmark create` accepts.
// spec.md scopes benchmark ingestion out of core orchestration semantics,
// leaving the file format unspecified; this mirrors models.Benchmark and
// models.Question field-for-field so validation stays in one place.
type benchmarkFile struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description"`
	FormatVersion string              `yaml:"formatVersion"`
	Questions     []benchmarkQuestion `yaml:"questions"`
}

type benchmarkQuestion struct {
	ID             string                 `yaml:"id"`
	Text           string                 `yaml:"text"`
	ExpectedAnswer string                 `yaml:"expectedAnswer"`
	Metadata       map[string]interface{} `yaml:"metadata,omitempty"`
}

func (f *benchmarkFile) toModel() *models.Benchmark {
	b := &models.Benchmark{
		Name:          f.Name,
		Description:   f.Description,
		FormatVersion: f.FormatVersion,
		Questions:     make([]models.Question, len(f.Questions)),
	}
	for i, q := range f.Questions {
		b.Questions[i] = models.Question{
			ID:             q.ID,
			Sequence:       i,
			Text:           q.Text,
			ExpectedAnswer: q.ExpectedAnswer,
			Metadata:       q.Metadata,
		}
	}
	return b
}

func runBenchmarkCreate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return newExitError(exitConfigurationError, fmt.Errorf("failed to read %s: %w", args[0], err))
	}

	var file benchmarkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return newExitError(exitConfigurationError, fmt.Errorf("invalid benchmark YAML: %w", err))
	}
	if file.FormatVersion == "" {
		file.FormatVersion = "v1"
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	bench, err := a.benchmarks.Create(ctx, file.toModel())
	if err != nil {
		return mapDomainError(err)
	}

	fmt.Println(bench.ID)
	return nil
}

func runBenchmarkList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	benches, err := a.benchmarks.List(ctx)
	if err != nil {
		return mapDomainError(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQUESTIONS\tFORMAT\tCREATED")
	for _, b := range benches {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", b.ID, b.Name, len(b.Questions), b.FormatVersion, b.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runBenchmarkShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	bench, err := a.benchmarks.GetByName(ctx, args[0])
	if err != nil {
		return mapDomainError(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tID\tTEXT\tEXPECTED ANSWER")
	for _, q := range bench.Questions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", q.Sequence, q.ID, q.Text, q.ExpectedAnswer)
	}
	return w.Flush()
}
