package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// Trainer names; used as ranking keys and log fields.
const (
	LinearName   = "linear"
	ForestName   = "forest"
	BoostingName = "boosting"
)

// FittedModel is an immutable trained regression model.
type FittedModel interface {
	// Name identifies the trainer that produced the model.
	Name() string

	// Predict returns one prediction per row of t, on the scale the model
	// was trained on. A target column present in t is ignored.
	Predict(t dataset.Table) ([]float64, error)

	// FeatureImportance maps each design column the model uses to a
	// non-negative contribution score. Higher means more influential.
	FeatureImportance() map[string]float64
}

// Trainer fits a model to a training table.
type Trainer interface {
	Name() string
	Fit(ctx context.Context, train dataset.Table, target string) (FittedModel, error)
}

// Warner is implemented by fitted models that carry non-fatal fit
// warnings, such as aliased coefficients.
type Warner interface {
	Warnings() []*apperrors.Error
}

// orDefault guards trainer constructors against a nil logger.
func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// targetVector copies the target column out of t, rejecting tables where
// it is absent, non-numeric, or still has missing cells.
func targetVector(t dataset.Table, target string) ([]float64, error) {
	col, ok := t.Column(target)
	if !ok {
		return nil, fmt.Errorf("target column %q not found", target)
	}
	if !col.IsNumeric() {
		return nil, fmt.Errorf("target column %q is not numeric", target)
	}
	for i, v := range col.Floats {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("target column %q has a missing value at row %d", target, i)
		}
	}
	out := make([]float64, len(col.Floats))
	copy(out, col.Floats)
	return out, nil
}
