package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// BoostingConfig tunes the gradient-boosted ensemble.
type BoostingConfig struct {
	RoundCount   int     // number of boosting rounds
	LearningRate float64 // shrinkage applied to every tree's contribution
	MaxDepth     int     // depth cap per tree
	MinLeaf      int     // minimum rows per leaf
}

// DefaultBoostingConfig returns the boosting defaults.
func DefaultBoostingConfig() BoostingConfig {
	return BoostingConfig{
		RoundCount:   100,
		LearningRate: 0.3,
		MaxDepth:     6,
		MinLeaf:      5,
	}
}

// BoostingTrainer fits an additive ensemble of shallow regression trees
// by gradient boosting on squared error: each round fits a tree to the
// current residuals and adds a shrunken copy to the ensemble.
type BoostingTrainer struct {
	cfg    BoostingConfig
	logger *slog.Logger
}

// NewBoostingTrainer returns a boosting trainer. Non-positive cfg fields
// fall back to DefaultBoostingConfig values; a nil logger falls back to
// slog.Default().
func NewBoostingTrainer(cfg BoostingConfig, logger *slog.Logger) *BoostingTrainer {
	def := DefaultBoostingConfig()
	if cfg.RoundCount <= 0 {
		cfg.RoundCount = def.RoundCount
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = def.MinLeaf
	}
	return &BoostingTrainer{cfg: cfg, logger: orDefault(logger)}
}

// Name implements Trainer.
func (tr *BoostingTrainer) Name() string { return BoostingName }

// Fit implements Trainer. The model starts from the target mean and the
// rounds run strictly in sequence, so the fit is deterministic. The
// context is checked between rounds.
func (tr *BoostingTrainer) Fit(ctx context.Context, train dataset.Table, target string) (FittedModel, error) {
	cfg := tr.cfg

	enc, err := NewEncoder(train, target, false)
	if err != nil {
		return nil, apperrors.NewFitError(BoostingName, "encode design matrix", err)
	}
	y, err := targetVector(train, target)
	if err != nil {
		return nil, apperrors.NewFitError(BoostingName, "extract target", err)
	}
	if len(y) == 0 {
		return nil, apperrors.NewFitError(BoostingName, "no training rows", nil)
	}
	X, err := enc.Design(train)
	if err != nil {
		return nil, apperrors.NewFitError(BoostingName, "encode design matrix", err)
	}

	n, p := X.Dims()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	base := stat.Mean(y, nil)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}

	residual := make([]float64, n)
	trees := make([]*regressionTree, 0, cfg.RoundCount)
	total := make([]float64, p)
	for round := 0; round < cfg.RoundCount; round++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewFitError(BoostingName,
				fmt.Sprintf("cancelled at round %d", round), err)
		}

		floats.SubTo(residual, y, pred)
		tree := fitTree(X, residual, rows, treeConfig{
			maxDepth: cfg.MaxDepth,
			minLeaf:  cfg.MinLeaf,
		}, nil)
		floats.AddScaled(pred, cfg.LearningRate, tree.predict(X))
		floats.Add(total, tree.importance)
		trees = append(trees, tree)
	}

	importance := make(map[string]float64, p)
	for i, name := range enc.ColumnNames() {
		importance[name] = total[i]
	}

	trainRMSE := 0.0
	for i, v := range y {
		d := v - pred[i]
		trainRMSE += d * d
	}
	trainRMSE = math.Sqrt(trainRMSE / float64(n))

	tr.logger.InfoContext(ctx, "boosting fitted",
		"rows", n,
		"features", p,
		"rounds", cfg.RoundCount,
		"learning_rate", cfg.LearningRate,
		"train_rmse", trainRMSE,
	)
	return &BoostingModel{
		enc:          enc,
		base:         base,
		learningRate: cfg.LearningRate,
		trees:        trees,
		importance:   importance,
	}, nil
}

// BoostingModel is a fitted boosted ensemble.
type BoostingModel struct {
	enc          *Encoder
	base         float64
	learningRate float64
	trees        []*regressionTree
	importance   map[string]float64
}

// Name implements FittedModel.
func (m *BoostingModel) Name() string { return BoostingName }

// Predict implements FittedModel.
func (m *BoostingModel) Predict(t dataset.Table) ([]float64, error) {
	X, err := m.enc.Design(t)
	if err != nil {
		return nil, apperrors.NewFitError(BoostingName, "encode prediction rows", err)
	}

	n, _ := X.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = m.base
	}
	for _, tree := range m.trees {
		floats.AddScaled(out, m.learningRate, tree.predict(X))
	}
	return out, nil
}

// FeatureImportance implements FittedModel: per design column, the total
// residual squared-error reduction over every split of every round.
func (m *BoostingModel) FeatureImportance() map[string]float64 {
	scores := make(map[string]float64, len(m.importance))
	for name, v := range m.importance {
		scores[name] = v
	}
	return scores
}

// RoundCount returns the number of boosting rounds fitted.
func (m *BoostingModel) RoundCount() int { return len(m.trees) }
