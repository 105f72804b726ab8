package preprocess

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

func TestCleanerClean(t *testing.T) {
	ctx := context.Background()
	nan := math.NaN()

	t.Run("identifier columns dropped", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Id", []float64{1, 2, 3}),
			dataset.NumericColumn("Size", []float64{100, 200, 300}),
		)

		cleaner := NewCleaner(DefaultCleanOptions(), nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		assert.False(t, out.HasColumn("Id"))
		assert.True(t, out.HasColumn("Size"))
		assert.Equal(t, []string{"Id"}, report.DroppedID)
	})

	t.Run("no missing cells remain", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Size", []float64{100, nan, 300, 400, nan}),
			dataset.CategoricalColumn("Quality", []string{"good", "", "bad", "good", ""}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, _, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		for _, col := range out.Columns() {
			assert.Zero(t, col.MissingCount(), "column %s still has missing cells", col.Name)
		}
	})

	t.Run("numeric imputation uses the median", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Size", []float64{100, nan, 200, 300, 400}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		col, _ := out.Column("Size")
		assert.InDelta(t, 250, col.Floats[1], 1e-12, "even count averages the middle pair")
		assert.InDelta(t, 250, report.ImputedNumeric["Size"], 1e-12)
	})

	t.Run("categorical imputation uses the mode", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.CategoricalColumn("Quality", []string{"good", "bad", "good", "", "bad", "good"}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		col, _ := out.Column("Quality")
		assert.Equal(t, "good", col.Labels[3])
		assert.Equal(t, "good", report.ImputedCategorical["Quality"])
	})

	t.Run("mode ties go to the first observed label", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.CategoricalColumn("Style", []string{"ranch", "colonial", "colonial", "ranch", ""}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, _, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		col, _ := out.Column("Style")
		assert.Equal(t, "ranch", col.Labels[4])
	})

	t.Run("column above the missing threshold dropped", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Sparse", []float64{1, nan, nan, nan, nan}),
			dataset.NumericColumn("Dense", []float64{1, 2, 3, 4, nan}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		assert.False(t, out.HasColumn("Sparse"), "0.8 missing exceeds 0.7")
		assert.True(t, out.HasColumn("Dense"), "0.2 missing does not")
		assert.Equal(t, []string{"Sparse"}, report.DroppedMissing)
	})

	t.Run("fraction exactly at the threshold is kept", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Half", []float64{1, 2, nan, nan}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.5}, nil)
		out, _, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)
		assert.True(t, out.HasColumn("Half"))
	})

	t.Run("fully missing column dropped without failing", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("AllGone", []float64{nan, nan, nan}),
			dataset.NumericColumn("Size", []float64{100, 200, 300}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 0.7}, nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		assert.False(t, out.HasColumn("AllGone"))
		assert.True(t, out.HasColumn("Size"))
		assert.Equal(t, []string{"AllGone"}, report.DroppedMissing)
	})

	t.Run("fully missing column at threshold one still dropped, as empty", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.CategoricalColumn("AllGone", []string{"", "", ""}),
		)

		cleaner := NewCleaner(CleanOptions{MissingThreshold: 1.0}, nil)
		out, report, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err, "an unimputable column must not fail the run")

		assert.False(t, out.HasColumn("AllGone"))
		assert.Equal(t, []string{"AllGone"}, report.DroppedEmpty)
		require.True(t, report.Warnings.HasErrors())
		assert.Equal(t, apperrors.KindEmptyColumn, report.Warnings.Errors[0].Kind)
	})

	t.Run("invalid threshold rejected", func(t *testing.T) {
		tbl := mustTable(t, dataset.NumericColumn("Size", []float64{1}))

		for _, threshold := range []float64{-0.1, 1.5} {
			cleaner := NewCleaner(CleanOptions{MissingThreshold: threshold}, nil)
			_, _, err := cleaner.Clean(ctx, tbl)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
		}
	})

	t.Run("input table never mutated", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Id", []float64{1, 2, 3}),
			dataset.NumericColumn("Size", []float64{100, nan, 300}),
		)

		cleaner := NewCleaner(DefaultCleanOptions(), nil)
		_, _, err := cleaner.Clean(ctx, tbl)
		require.NoError(t, err)

		assert.True(t, tbl.HasColumn("Id"))
		size, _ := tbl.Column("Size")
		assert.True(t, math.IsNaN(size.Floats[1]), "caller's cells must stay missing")
	})
}

func TestNumericMedian(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count averages middle pair", []float64{4, 1, 3, 2}, 2.5},
		{"missing values ignored", []float64{nan, 10, nan, 20, 30}, 20},
		{"single value", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumericMedian(dataset.NumericColumn("X", tt.values))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	t.Run("no observed values", func(t *testing.T) {
		_, err := NumericMedian(dataset.NumericColumn("X", []float64{nan, nan}))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyColumn))
	})
}

func TestCategoricalMode(t *testing.T) {
	t.Run("most frequent label wins", func(t *testing.T) {
		got, err := CategoricalMode(dataset.CategoricalColumn("X", []string{"a", "b", "b", "", "b"}))
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("tie broken by first appearance", func(t *testing.T) {
		got, err := CategoricalMode(dataset.CategoricalColumn("X", []string{"z", "a", "a", "z"}))
		require.NoError(t, err)
		assert.Equal(t, "z", got)
	})

	t.Run("no observed values", func(t *testing.T) {
		_, err := CategoricalMode(dataset.CategoricalColumn("X", []string{"", ""}))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyColumn))
	})
}

func mustTable(t *testing.T, cols ...dataset.Column) dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(cols...)
	require.NoError(t, err)
	return tbl
}
