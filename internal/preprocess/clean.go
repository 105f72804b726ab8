package preprocess

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// CleanOptions controls identifier removal and missing-value handling.
type CleanOptions struct {
	// IDColumns are dropped by name before any other rule runs.
	IDColumns []string
	// MissingThreshold drops a column when its missing fraction exceeds it.
	// Must lie in [0, 1].
	MissingThreshold float64
}

// DefaultCleanOptions returns the documented cleaning defaults.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		IDColumns:        []string{"Id"},
		MissingThreshold: 0.7,
	}
}

// CleanReport records what cleaning did to the table.
type CleanReport struct {
	DroppedID          []string           `json:"dropped_id,omitempty"`
	DroppedMissing     []string           `json:"dropped_missing,omitempty"`
	DroppedEmpty       []string           `json:"dropped_empty,omitempty"`
	ImputedNumeric     map[string]float64 `json:"imputed_numeric,omitempty"`
	ImputedCategorical map[string]string  `json:"imputed_categorical,omitempty"`
	// Warnings carries the non-fatal errors behind DroppedEmpty.
	Warnings *apperrors.List `json:"warnings,omitempty"`
}

// Cleaner resolves identifier columns and missing values so every later
// stage sees a complete table.
type Cleaner struct {
	opts   CleanOptions
	logger *slog.Logger
}

// NewCleaner creates a cleaner with the given options.
func NewCleaner(opts CleanOptions, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{opts: opts, logger: logger}
}

// Clean drops identifier columns, drops columns too sparse to impute, and
// imputes the remaining missing cells (numeric median, categorical mode).
// The input table is never mutated. Columns with zero observed values are
// dropped and surfaced as warnings in the report, never as a failure.
func (c *Cleaner) Clean(ctx context.Context, t dataset.Table) (dataset.Table, *CleanReport, error) {
	if c.opts.MissingThreshold < 0 || c.opts.MissingThreshold > 1 {
		return dataset.Table{}, nil, apperrors.NewConfigError(
			"missing_threshold must lie in [0, 1]", nil)
	}

	report := &CleanReport{
		ImputedNumeric:     make(map[string]float64),
		ImputedCategorical: make(map[string]string),
		Warnings:           &apperrors.List{},
	}

	out := t
	for _, name := range c.opts.IDColumns {
		if !out.HasColumn(name) {
			c.logger.DebugContext(ctx, "identifier column not present", "column", name)
			continue
		}
		out = out.DropColumns(name)
		report.DroppedID = append(report.DroppedID, name)
	}

	n := out.NumRows()
	for _, col := range out.Columns() {
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}

		if n > 0 && float64(missing)/float64(n) > c.opts.MissingThreshold {
			out = out.DropColumns(col.Name)
			report.DroppedMissing = append(report.DroppedMissing, col.Name)
			c.logger.WarnContext(ctx, "dropping column above missing threshold",
				"column", col.Name,
				"missing_fraction", float64(missing)/float64(n),
				"threshold", c.opts.MissingThreshold,
			)
			continue
		}

		imputed, err := imputeColumn(col)
		if err != nil {
			var emptyErr *apperrors.Error
			if stderrors.As(err, &emptyErr) && emptyErr.Kind == apperrors.KindEmptyColumn {
				out = out.DropColumns(col.Name)
				report.DroppedEmpty = append(report.DroppedEmpty, col.Name)
				report.Warnings.Add(emptyErr)
				c.logger.WarnContext(ctx, "dropping column with no observed values",
					"column", col.Name,
				)
				continue
			}
			return dataset.Table{}, nil, err
		}

		out, err = out.WithColumn(imputed.column)
		if err != nil {
			return dataset.Table{}, nil, err
		}
		if imputed.column.IsNumeric() {
			report.ImputedNumeric[col.Name] = imputed.median
		} else {
			report.ImputedCategorical[col.Name] = imputed.mode
		}
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		"columns_in", t.NumCols(),
		"columns_out", out.NumCols(),
		"dropped_id", len(report.DroppedID),
		"dropped_missing", len(report.DroppedMissing),
		"dropped_empty", len(report.DroppedEmpty),
		"imputed", len(report.ImputedNumeric)+len(report.ImputedCategorical),
	)

	return out, report, nil
}

type imputedColumn struct {
	column dataset.Column
	median float64
	mode   string
}

// imputeColumn fills the missing cells of col with its median (numeric) or
// mode (categorical). A column with zero observed values cannot be imputed
// and comes back as an empty-column error.
func imputeColumn(col dataset.Column) (imputedColumn, error) {
	if col.IsNumeric() {
		median, err := NumericMedian(col)
		if err != nil {
			return imputedColumn{}, err
		}
		out := col.Clone()
		for i := range out.Floats {
			if out.IsMissing(i) {
				out.Floats[i] = median
			}
		}
		return imputedColumn{column: out, median: median}, nil
	}

	mode, err := CategoricalMode(col)
	if err != nil {
		return imputedColumn{}, err
	}
	out := col.Clone()
	for i := range out.Labels {
		if out.Labels[i] == "" {
			out.Labels[i] = mode
		}
	}
	return imputedColumn{column: out, mode: mode}, nil
}

// NumericMedian returns the median of the observed values of a numeric
// column. Even counts average the middle pair.
func NumericMedian(col dataset.Column) (float64, error) {
	observed := make([]float64, 0, col.Len())
	for i, v := range col.Floats {
		if !col.IsMissing(i) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return 0, apperrors.NewEmptyColumnError(col.Name)
	}

	sort.Float64s(observed)
	n := len(observed)
	if n%2 == 1 {
		return observed[n/2], nil
	}
	return (observed[n/2-1] + observed[n/2]) / 2, nil
}

// CategoricalMode returns the most frequent observed label of a categorical
// column. Ties are broken by the label observed first in row order.
func CategoricalMode(col dataset.Column) (string, error) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, label := range col.Labels {
		if label == "" {
			continue
		}
		if _, ok := firstSeen[label]; !ok {
			firstSeen[label] = i
		}
		counts[label]++
	}
	if len(counts) == 0 {
		return "", apperrors.NewEmptyColumnError(col.Name)
	}

	mode := ""
	for label, count := range counts {
		if mode == "" {
			mode = label
			continue
		}
		if count > counts[mode] || (count == counts[mode] && firstSeen[label] < firstSeen[mode]) {
			mode = label
		}
	}
	return mode, nil
}
