package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/evaluation"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/preprocess"
)

// CleanStage drops identifier columns and resolves missing values.
type CleanStage struct {
	cleaner *preprocess.Cleaner
	logger  *slog.Logger
}

// NewCleanStage creates the cleaning stage.
func NewCleanStage(opts preprocess.CleanOptions, logger *slog.Logger) *CleanStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanStage{
		cleaner: preprocess.NewCleaner(opts, logger),
		logger:  logger,
	}
}

func (s *CleanStage) ID() string   { return StageIDClean }
func (s *CleanStage) Name() string { return StageNameClean }

// Run cleans the working table and surfaces empty-column warnings on the
// run state. Data-quality issues never fail this stage; only a config
// violation does.
func (s *CleanStage) Run(ctx context.Context, state *State) error {
	cleaned, report, err := s.cleaner.Clean(ctx, state.Table())
	if err != nil {
		return err
	}

	state.SetTable(cleaned)
	state.SetCleanReport(report)
	if report.Warnings != nil {
		for _, w := range report.Warnings.Errors {
			state.AddWarning(w)
		}
	}

	s.logger.InfoContext(ctx, "table cleaned",
		"rows", cleaned.NumRows(),
		"columns", cleaned.NumCols(),
		"dropped_id", len(report.DroppedID),
		"dropped_missing", len(report.DroppedMissing),
		"dropped_empty", len(report.DroppedEmpty),
		"imputed_numeric", len(report.ImputedNumeric),
		"imputed_categorical", len(report.ImputedCategorical),
	)
	return nil
}

// TransformStage log-transforms the target and freezes categorical
// level sets so both split subsets share one encoding.
type TransformStage struct {
	transformer *preprocess.Transformer
	target      string
	logger      *slog.Logger
}

// NewTransformStage creates the target-transform stage.
func NewTransformStage(target string, logger *slog.Logger) *TransformStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformStage{
		transformer: preprocess.NewTransformer(logger),
		target:      target,
		logger:      logger,
	}
}

func (s *TransformStage) ID() string   { return StageIDTransform }
func (s *TransformStage) Name() string { return StageNameTransform }

func (s *TransformStage) Run(ctx context.Context, state *State) error {
	transformed, err := s.transformer.TransformTarget(ctx, state.Table(), s.target)
	if err != nil {
		return err
	}

	state.SetTable(transformed)
	s.logger.InfoContext(ctx, "target transformed",
		"target", s.target,
		"rows", transformed.NumRows(),
	)
	return nil
}

// SplitStage partitions the table into train and eval subsets.
type SplitStage struct {
	trainFraction float64
	seed          int64
	logger        *slog.Logger
}

// NewSplitStage creates the split stage.
func NewSplitStage(trainFraction float64, seed int64, logger *slog.Logger) *SplitStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SplitStage{
		trainFraction: trainFraction,
		seed:          seed,
		logger:        logger,
	}
}

func (s *SplitStage) ID() string   { return StageIDSplit }
func (s *SplitStage) Name() string { return StageNameSplit }

func (s *SplitStage) Run(ctx context.Context, state *State) error {
	train, eval, err := preprocess.Split(state.Table(), s.trainFraction, s.seed)
	if err != nil {
		return err
	}

	state.SetSplit(train, eval)
	s.logger.InfoContext(ctx, "table split",
		"train_rows", train.NumRows(),
		"eval_rows", eval.NumRows(),
		"train_fraction", s.trainFraction,
		"seed", s.seed,
	)
	return nil
}

// TrainStage fits every trainer against the training subset. Trainers
// run concurrently under a bounded errgroup; a trainer's failure is
// recorded against that trainer alone, and the stage fails only when no
// model could be fitted at all.
type TrainStage struct {
	trainers []model.Trainer
	target   string
	limit    int
	logger   *slog.Logger
}

// NewTrainStage creates the training stage. A limit below one allows
// every trainer to run at once.
func NewTrainStage(trainers []model.Trainer, target string, limit int, logger *slog.Logger) *TrainStage {
	if limit <= 0 {
		limit = len(trainers)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainStage{
		trainers: trainers,
		target:   target,
		limit:    limit,
		logger:   logger,
	}
}

func (s *TrainStage) ID() string   { return StageIDTrain }
func (s *TrainStage) Name() string { return StageNameTrain }

func (s *TrainStage) Run(ctx context.Context, state *State) error {
	train, _ := state.Split()

	fitted := make([]model.FittedModel, len(s.trainers))
	errs := make([]error, len(s.trainers))

	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, trainer := range s.trainers {
		g.Go(func() error {
			m, err := trainer.Fit(ctx, train, s.target)
			if err != nil {
				// Captured in the slot so a failed trainer never
				// cancels its siblings.
				errs[i] = err
				s.logger.ErrorContext(ctx, "trainer failed",
					"model", trainer.Name(),
					"error", err,
				)
				return nil
			}
			fitted[i] = m
			return nil
		})
	}
	g.Wait()

	var models []model.FittedModel
	for i, trainer := range s.trainers {
		if errs[i] != nil {
			state.RecordTrainerError(trainer.Name(), errs[i])
			continue
		}
		m := fitted[i]
		models = append(models, m)
		if w, ok := m.(model.Warner); ok {
			for _, warning := range w.Warnings() {
				state.AddWarning(warning)
			}
		}
	}

	if len(models) == 0 {
		return apperrors.NewFitError(StageIDTrain, "every trainer failed", stderrors.Join(errs...))
	}

	state.SetModels(models)
	s.logger.InfoContext(ctx, "models trained",
		"fitted", len(models),
		"failed", len(s.trainers)-len(models),
		"limit", s.limit,
	)
	return nil
}

// EvaluateStage scores the fitted models on the eval subset, ranks
// them, and extracts each model's top features.
type EvaluateStage struct {
	evaluator *evaluation.Evaluator
	target    string
	topK      int
	logger    *slog.Logger
}

// NewEvaluateStage creates the evaluation stage.
func NewEvaluateStage(target string, topK int, logger *slog.Logger) *EvaluateStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateStage{
		evaluator: evaluation.NewEvaluator(logger),
		target:    target,
		topK:      topK,
		logger:    logger,
	}
}

func (s *EvaluateStage) ID() string   { return StageIDEvaluate }
func (s *EvaluateStage) Name() string { return StageNameEvaluate }

func (s *EvaluateStage) Run(ctx context.Context, state *State) error {
	_, eval := state.Split()

	ranking, err := s.evaluator.Evaluate(ctx, state.Models(), eval, s.target)
	if err != nil {
		return err
	}
	state.SetRanking(ranking)

	for _, m := range state.Models() {
		state.SetImportance(m.Name(), evaluation.TopFeatures(m, s.topK))
	}

	if best, ok := ranking.Best(); ok {
		s.logger.InfoContext(ctx, "models ranked",
			"best", best.Model,
			"rmse", best.RMSE,
			"models", len(ranking.Scores),
			"failed", len(ranking.Failed()),
		)
	}
	return nil
}
