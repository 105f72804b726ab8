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

func TestTransformTarget(t *testing.T) {
	ctx := context.Background()
	tr := NewTransformer(nil)

	t.Run("target mapped through log1p", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("SalePrice", []float64{0, 100, 208500}),
		)

		out, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.NoError(t, err)

		col, _ := out.Column("SalePrice")
		assert.InDelta(t, 0, col.Floats[0], 1e-12)
		assert.InDelta(t, math.Log1p(100), col.Floats[1], 1e-12)
		assert.InDelta(t, math.Log1p(208500), col.Floats[2], 1e-12)
	})

	t.Run("missing target cells stay missing", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("SalePrice", []float64{100, math.NaN()}),
		)

		out, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.NoError(t, err)

		col, _ := out.Column("SalePrice")
		assert.True(t, math.IsNaN(col.Floats[1]))
	})

	t.Run("negative target rejected", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("SalePrice", []float64{100, -1, 300}),
		)

		_, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindDomain))
		assert.Contains(t, err.Error(), "SalePrice")
	})

	t.Run("absent target rejected", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("Size", []float64{100}),
		)

		_, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
	})

	t.Run("categorical target rejected", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.CategoricalColumn("SalePrice", []string{"high", "low"}),
		)

		_, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
	})

	t.Run("category levels fixed and sorted", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("SalePrice", []float64{100, 200, 300, 400}),
			dataset.CategoricalColumn("Style", []string{"ranch", "colonial", "ranch", ""}),
		)

		out, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.NoError(t, err)

		col, _ := out.Column("Style")
		assert.Equal(t, []string{"colonial", "ranch"}, col.Levels, "sorted distinct labels, missing excluded")
	})

	t.Run("input table never mutated", func(t *testing.T) {
		tbl := mustTable(t,
			dataset.NumericColumn("SalePrice", []float64{100, 200}),
			dataset.CategoricalColumn("Style", []string{"ranch", "colonial"}),
		)

		_, err := tr.TransformTarget(ctx, tbl, "SalePrice")
		require.NoError(t, err)

		price, _ := tbl.Column("SalePrice")
		assert.InDelta(t, 100, price.Floats[0], 1e-12)
		style, _ := tbl.Column("Style")
		assert.Nil(t, style.Levels)
	})
}
