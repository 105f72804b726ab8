package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/config"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/exporter"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/infrastructure"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/pipeline"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to housing.yaml when present)")
	inputPath := flag.String("input", "", "path to the housing dataset, CSV or XLSX (defaults to data.input_path)")
	outputDir := flag.String("out", "", "output directory for report CSVs (defaults to report.output_dir)")
	targetColumn := flag.String("target", "", "name of the sale price column (defaults to data.target_column)")
	topK := flag.Int("top", 0, "number of top features to report per model (defaults to report.top_k)")
	seed := flag.Int64("seed", 0, "random seed for the split and the tree ensembles (defaults to pipeline.seed)")
	enableTracing := flag.Bool("trace", false, "enable OpenTelemetry stage spans on stdout")
	flag.Parse()

	// Load configuration: defaults <- YAML file <- environment
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override file and environment values
	applyOverrides(cfg, overrides{
		InputPath:    *inputPath,
		OutputDir:    *outputDir,
		TargetColumn: *targetColumn,
		TopK:         *topK,
		Seed:         *seed,
		Tracing:      *enableTracing,
	})
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Data.InputPath == "" {
		slog.Error("No dataset specified",
			"hint", "pass -input or set data.input_path in the config file")
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	// Fail fast on bad paths before any training work starts
	fileValidator := validation.NewFileValidator(logger)
	if err := fileValidator.ValidateDatasetFile(cfg.Data.InputPath); err != nil {
		slog.Error("Dataset validation failed", "error", err)
		os.Exit(1)
	}
	if err := fileValidator.ValidateOutputDirectory(cfg.Report.OutputDir); err != nil {
		slog.Error("Output directory validation failed", "error", err)
		os.Exit(1)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.Enabled = cfg.Tracing.Enabled
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down tracing", "error", err)
		}
	}()

	// Interrupts cancel the run between stages
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Loading dataset", "path", cfg.Data.InputPath)
	table, err := loadTable(cfg.Data.InputPath)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	if table.NumRows() == 0 {
		slog.Error("Dataset has no rows",
			"path", cfg.Data.InputPath,
			"hint", "check that the file carries a header row and at least one record")
		os.Exit(1)
	}
	slog.Info("Loaded dataset", "rows", table.NumRows(), "columns", table.NumCols())

	runner := pipeline.NewRunner(cfg, logger, providers.Tracer)
	state, err := runner.Run(ctx, table)
	if err != nil {
		slog.Error("Pipeline run failed", "error", err, "run_id", state.RunID())
		printStageSummary(state)
		os.Exit(1)
	}

	rep := exporter.NewReportExporter(cfg.Report.OutputDir, logger)
	scoresPath, err := rep.ExportScores(ctx, state.Ranking(), state.RunID())
	if err != nil {
		slog.Error("Failed to export model scores", "error", err)
		os.Exit(1)
	}
	importancePath, err := rep.ExportImportance(ctx, state.Importances(), state.RunID())
	if err != nil {
		slog.Error("Failed to export feature importance", "error", err)
		os.Exit(1)
	}

	slog.Info("Housing report generated successfully",
		"run_id", state.RunID(),
		"scores", scoresPath,
		"importance", importancePath,
		"duration", state.Duration())

	printRunSummary(state, cfg.Report.TopK)
}

// overrides carries the flag values that take precedence over the loaded
// configuration. Zero values mean "keep the configured value".
type overrides struct {
	InputPath    string
	OutputDir    string
	TargetColumn string
	TopK         int
	Seed         int64
	Tracing      bool
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.InputPath != "" {
		cfg.Data.InputPath = o.InputPath
	}
	if o.OutputDir != "" {
		cfg.Report.OutputDir = o.OutputDir
	}
	if o.TargetColumn != "" {
		cfg.Data.TargetColumn = o.TargetColumn
	}
	if o.TopK > 0 {
		cfg.Report.TopK = o.TopK
	}
	if o.Seed != 0 {
		cfg.Pipeline.Seed = o.Seed
	}
	if o.Tracing {
		cfg.Tracing.Enabled = true
	}
}

// loadTable reads the dataset at path, choosing the parser by extension.
func loadTable(path string) (dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataset.LoadXLSX(path)
	default:
		return dataset.LoadCSV(path)
	}
}

func printRunSummary(state *pipeline.State, topK int) {
	ranking := state.Ranking()

	fmt.Println("\n=== MODEL LEADERBOARD (RMSE ON LOG SALE PRICE) ===")
	fmt.Println("Rank | Model    |     RMSE |      MAE |       R2")
	fmt.Println("-----|----------|----------|----------|---------")
	for _, s := range ranking.Scores {
		if s.Rank == 0 {
			continue
		}
		fmt.Printf("%4d | %-8s | %8.4f | %8.4f | %8.4f\n", s.Rank, s.Model, s.RMSE, s.MAE, s.R2)
	}
	for _, s := range ranking.Failed() {
		fmt.Printf("   - | %-8s | failed: %v\n", s.Model, s.Err)
	}

	if best, ok := ranking.Best(); ok {
		fmt.Printf("\n=== TOP %d FEATURES (%s) ===\n", topK, best.Model)
		for _, fs := range state.Importances()[best.Model] {
			fmt.Printf("%-28s %10.4f\n", fs.Feature, fs.Score)
		}
	}

	if warnings := state.Warnings(); len(warnings) > 0 {
		fmt.Printf("\n=== WARNINGS (%d) ===\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("- %v\n", w)
		}
	}

	printStageSummary(state)

	fmt.Println("\n=== METRIC INTERPRETATION ===")
	fmt.Println("RMSE: Root mean squared error on log(1+price); lower is better")
	fmt.Println("MAE:  Mean absolute error on the same scale")
	fmt.Println("R2:   Share of log-price variance explained by the model")
}

func printStageSummary(state *pipeline.State) {
	fmt.Println("\n=== STAGES ===")
	for _, ss := range state.Stages() {
		line := fmt.Sprintf("%-18s %-10s %10s", ss.Name(), ss.Status(), ss.Duration().Round(time.Millisecond))
		if msg := ss.Message(); msg != "" {
			line += "  " + msg
		}
		fmt.Println(line)
	}
}
