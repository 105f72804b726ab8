package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// Transformer corrects the target's right skew and fixes categorical
// encodings before the table is split.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a transformer.
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// TransformTarget applies log1p to every value of the target column and
// fixes each categorical column's Levels to the sorted distinct labels
// observed now, so the later train/eval subsets share one encoding.
//
// A negative target value is rejected, never clamped. The transform is not
// idempotent: applying it twice double-transforms the target.
func (tr *Transformer) TransformTarget(ctx context.Context, t dataset.Table, target string) (dataset.Table, error) {
	col, ok := t.Column(target)
	if !ok {
		return dataset.Table{}, apperrors.NewConfigError(
			fmt.Sprintf("target column %q not found", target), nil)
	}
	if !col.IsNumeric() {
		return dataset.Table{}, apperrors.NewConfigError(
			fmt.Sprintf("target column %q is not numeric", target), nil)
	}

	for i, v := range col.Floats {
		if v < 0 {
			return dataset.Table{}, apperrors.NewDomainError("transform", target,
				fmt.Sprintf("negative value %g at row %d; log1p requires values >= 0", v, i))
		}
	}

	transformed := col.Clone()
	for i, v := range transformed.Floats {
		if !transformed.IsMissing(i) {
			transformed.Floats[i] = math.Log1p(v)
		}
	}

	out, err := t.WithColumn(transformed)
	if err != nil {
		return dataset.Table{}, err
	}

	levelled := 0
	for _, c := range out.Columns() {
		if c.IsNumeric() {
			continue
		}
		fixed := c.Clone()
		fixed.Levels = dataset.DistinctLabels(c)
		out, err = out.WithColumn(fixed)
		if err != nil {
			return dataset.Table{}, err
		}
		levelled++
	}

	tr.logger.InfoContext(ctx, "target transformed",
		"target", target,
		"rows", out.NumRows(),
		"categorical_columns_levelled", levelled,
	)

	return out, nil
}
