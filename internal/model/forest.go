package model

import (
	"context"
	"log/slog"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// ForestConfig tunes the bagged forest.
type ForestConfig struct {
	TreeCount   int   // number of bootstrap trees
	MaxFeatures int   // candidate features per node; 0 means p/3 with a floor of 1
	MinLeaf     int   // minimum rows per leaf
	Seed        int64 // base seed; tree i draws from Seed+i
	Parallelism int   // concurrent tree fits; 0 means GOMAXPROCS
}

// DefaultForestConfig returns the forest defaults.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		TreeCount: 300,
		MinLeaf:   5,
		Seed:      42,
	}
}

// ForestTrainer fits a bootstrap-aggregated ensemble of regression trees.
type ForestTrainer struct {
	cfg    ForestConfig
	logger *slog.Logger
}

// NewForestTrainer returns a forest trainer. Non-positive cfg fields fall
// back to DefaultForestConfig values; a nil logger falls back to
// slog.Default().
func NewForestTrainer(cfg ForestConfig, logger *slog.Logger) *ForestTrainer {
	def := DefaultForestConfig()
	if cfg.TreeCount <= 0 {
		cfg.TreeCount = def.TreeCount
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = def.MinLeaf
	}
	return &ForestTrainer{cfg: cfg, logger: orDefault(logger)}
}

// Name implements Trainer.
func (tr *ForestTrainer) Name() string { return ForestName }

// Fit implements Trainer. Trees grow concurrently, each from its own
// deterministic source seeded Seed+i, and everything downstream
// aggregates in tree order, so a fixed seed gives identical results
// regardless of scheduling.
func (tr *ForestTrainer) Fit(ctx context.Context, train dataset.Table, target string) (FittedModel, error) {
	cfg := tr.cfg

	enc, err := NewEncoder(train, target, false)
	if err != nil {
		return nil, apperrors.NewFitError(ForestName, "encode design matrix", err)
	}
	y, err := targetVector(train, target)
	if err != nil {
		return nil, apperrors.NewFitError(ForestName, "extract target", err)
	}
	if len(y) == 0 {
		return nil, apperrors.NewFitError(ForestName, "no training rows", nil)
	}
	X, err := enc.Design(train)
	if err != nil {
		return nil, apperrors.NewFitError(ForestName, "encode design matrix", err)
	}

	n, p := X.Dims()
	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = p / 3
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	limit := cfg.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	trees := make([]*regressionTree, cfg.TreeCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			rows := make([]int, n)
			for j := range rows {
				rows[j] = rng.Intn(n)
			}
			trees[i] = fitTree(X, y, rows, treeConfig{
				minLeaf:     cfg.MinLeaf,
				maxFeatures: maxFeatures,
			}, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewFitError(ForestName, "grow trees", err)
	}

	total := make([]float64, p)
	for _, tree := range trees {
		floats.Add(total, tree.importance)
	}
	importance := make(map[string]float64, p)
	for i, name := range enc.ColumnNames() {
		importance[name] = total[i]
	}

	tr.logger.InfoContext(ctx, "forest fitted",
		"rows", n,
		"features", p,
		"trees", cfg.TreeCount,
		"max_features", maxFeatures,
	)
	return &ForestModel{enc: enc, trees: trees, importance: importance}, nil
}

// ForestModel is a fitted forest; predictions average the trees.
type ForestModel struct {
	enc        *Encoder
	trees      []*regressionTree
	importance map[string]float64
}

// Name implements FittedModel.
func (m *ForestModel) Name() string { return ForestName }

// Predict implements FittedModel.
func (m *ForestModel) Predict(t dataset.Table) ([]float64, error) {
	X, err := m.enc.Design(t)
	if err != nil {
		return nil, apperrors.NewFitError(ForestName, "encode prediction rows", err)
	}

	n, _ := X.Dims()
	out := make([]float64, n)
	for _, tree := range m.trees {
		floats.Add(out, tree.predict(X))
	}
	floats.Scale(1/float64(len(m.trees)), out)
	return out, nil
}

// FeatureImportance implements FittedModel: per design column, the total
// squared-error reduction over every split of every tree.
func (m *ForestModel) FeatureImportance() map[string]float64 {
	scores := make(map[string]float64, len(m.importance))
	for name, v := range m.importance {
		scores[name] = v
	}
	return scores
}

// TreeCount returns the number of trees in the ensemble.
func (m *ForestModel) TreeCount() int { return len(m.trees) }
