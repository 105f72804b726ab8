package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/config"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/infrastructure"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/preprocess"
)

// Runner executes the pipeline stages in order against a shared State.
type Runner struct {
	stages []Stage
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner builds the standard five-stage pipeline from configuration.
// A nil tracer disables spans without disabling the pipeline.
func NewRunner(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	forestCfg := model.DefaultForestConfig()
	forestCfg.TreeCount = cfg.Model.TreeCount
	forestCfg.Seed = cfg.Pipeline.Seed

	boostCfg := model.DefaultBoostingConfig()
	boostCfg.RoundCount = cfg.Model.RoundCount
	boostCfg.LearningRate = cfg.Model.LearningRate
	boostCfg.MaxDepth = cfg.Model.MaxDepth

	trainers := []model.Trainer{
		model.NewLinearTrainer(logger),
		model.NewForestTrainer(forestCfg, logger),
		model.NewBoostingTrainer(boostCfg, logger),
	}

	stages := []Stage{
		NewCleanStage(preprocess.CleanOptions{
			IDColumns:        cfg.Data.IDColumns,
			MissingThreshold: cfg.Pipeline.MissingThreshold,
		}, logger),
		NewTransformStage(cfg.Data.TargetColumn, logger),
		NewSplitStage(cfg.Pipeline.TrainFraction, cfg.Pipeline.Seed, logger),
		NewTrainStage(trainers, cfg.Data.TargetColumn, cfg.Pipeline.MaxConcurrency, logger),
		NewEvaluateStage(cfg.Data.TargetColumn, cfg.Report.TopK, logger),
	}

	return newRunner(stages, logger, tracer)
}

// newRunner wires an explicit stage list; tests inject failing stages
// through it.
func newRunner(stages []Stage, logger *slog.Logger, tracer trace.Tracer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.TracerName)
	}
	return &Runner{
		stages: stages,
		logger: logger,
		tracer: tracer,
	}
}

// Run executes every stage in order against the input table. The first
// failing stage aborts the run, marks the remaining stages skipped, and
// returns the failure; the returned State always describes how far the
// run got.
func (r *Runner) Run(ctx context.Context, input dataset.Table) (*State, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	state := NewState(infrastructure.GetRunID(ctx), input)
	for _, st := range r.stages {
		state.addStage(NewStageState(st.ID(), st.Name()))
	}

	state.Start()
	r.logger.InfoContext(ctx, "pipeline started",
		"run_id", state.RunID(),
		"stages", len(r.stages),
		"rows", input.NumRows(),
		"columns", input.NumCols(),
	)

	for i, st := range r.stages {
		select {
		case <-ctx.Done():
			r.skipFrom(state, i, "run cancelled")
			state.Cancel()
			r.logger.WarnContext(ctx, "pipeline cancelled",
				"run_id", state.RunID(),
				"stage", st.ID(),
			)
			return state, fmt.Errorf("pipeline cancelled before stage %s: %w", st.ID(), ctx.Err())
		default:
		}

		if err := r.runStage(ctx, state, st); err != nil {
			r.skipFrom(state, i+1, fmt.Sprintf("stage %s failed", st.ID()))
			state.Fail(err)
			r.logger.ErrorContext(ctx, "pipeline failed",
				"run_id", state.RunID(),
				"stage", st.ID(),
				"duration", state.Duration(),
				"error", err,
			)
			return state, err
		}
	}

	state.Complete()
	r.logger.InfoContext(ctx, "pipeline completed",
		"run_id", state.RunID(),
		"duration", state.Duration(),
		"warnings", len(state.Warnings()),
		"runtime", infrastructure.CaptureRuntimeStats(),
	)
	return state, nil
}

// runStage executes one stage inside its own span and records its
// lifecycle on the stage state.
func (r *Runner) runStage(ctx context.Context, state *State, st Stage) error {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("pipeline.%s", st.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.RunID()),
			attribute.String("stage.id", st.ID()),
			attribute.String("stage.name", st.Name()),
		),
	)
	defer span.End()

	ss := state.StageState(st.ID())
	ss.Start()
	r.logger.InfoContext(ctx, "stage started",
		"stage", st.ID(),
		"name", st.Name(),
	)

	start := time.Now()
	err := st.Run(ctx, state)
	duration := time.Since(start)

	if err != nil {
		ss.Fail(err)
		infrastructure.RecordError(ctx, err)
		r.logger.ErrorContext(ctx, "stage failed",
			"stage", st.ID(),
			"duration", duration,
			"error", err,
		)
		return fmt.Errorf("stage %s: %w", st.ID(), err)
	}

	ss.Complete()
	r.logger.InfoContext(ctx, "stage completed",
		"stage", st.ID(),
		"duration", duration,
	)
	return nil
}

// skipFrom marks every still-pending stage from index i on as skipped.
func (r *Runner) skipFrom(state *State, i int, reason string) {
	for _, st := range r.stages[i:] {
		if ss := state.StageState(st.ID()); ss != nil && ss.Status() == StatusPending {
			ss.Skip(reason)
		}
	}
}
