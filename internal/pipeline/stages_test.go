package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/preprocess"
)

func mustTable(t *testing.T, cols ...dataset.Column) dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(cols...)
	require.NoError(t, err)
	return tbl
}

func numericCol(name string, values ...float64) dataset.Column {
	return dataset.NumericColumn(name, values)
}

// stubTrainer hands back a canned model or error so the training stage
// can be exercised without fitting anything.
type stubTrainer struct {
	name string
	m    model.FittedModel
	err  error
}

func (s stubTrainer) Name() string { return s.name }

func (s stubTrainer) Fit(context.Context, dataset.Table, string) (model.FittedModel, error) {
	return s.m, s.err
}

// stubFitted is a canned fitted model; its Warnings method makes it a
// model.Warner so warning propagation can be checked too.
type stubFitted struct {
	name   string
	preds  []float64
	scores map[string]float64
	warns  []*apperrors.Error
}

func (s stubFitted) Name() string { return s.name }

func (s stubFitted) Predict(dataset.Table) ([]float64, error) { return s.preds, nil }

func (s stubFitted) FeatureImportance() map[string]float64 { return s.scores }

func (s stubFitted) Warnings() []*apperrors.Error { return s.warns }

func TestCleanStage(t *testing.T) {
	ctx := context.Background()

	tbl := mustTable(t,
		numericCol("Id", 1, 2, 3, 4),
		numericCol("Size", 100, math.NaN(), 300, 400),
		dataset.CategoricalColumn("Style", []string{"ranch", "ranch", "", "colonial"}),
		numericCol("SalePrice", 1, 2, 3, 4),
	)
	state := NewState("clean-run", tbl)

	stage := NewCleanStage(preprocess.CleanOptions{
		IDColumns:        []string{"Id"},
		MissingThreshold: 0.7,
	}, nil)
	require.Equal(t, StageIDClean, stage.ID())
	require.NoError(t, stage.Run(ctx, state))

	cleaned := state.Table()
	assert.False(t, cleaned.HasColumn("Id"))

	size, ok := cleaned.Column("Size")
	require.True(t, ok)
	for _, v := range size.Floats {
		assert.False(t, math.IsNaN(v))
	}

	report := state.CleanReport()
	require.NotNil(t, report)
	assert.Equal(t, []string{"Id"}, report.DroppedID)
}

func TestTransformStage(t *testing.T) {
	ctx := context.Background()

	t.Run("log-transforms the target", func(t *testing.T) {
		tbl := mustTable(t, numericCol("SalePrice", 0, 100, 208500))
		state := NewState("transform-run", tbl)

		stage := NewTransformStage("SalePrice", nil)
		require.NoError(t, stage.Run(ctx, state))

		col, ok := state.Table().Column("SalePrice")
		require.True(t, ok)
		assert.InDelta(t, math.Log1p(208500), col.Floats[2], 1e-12)
	})

	t.Run("absent target fails the stage", func(t *testing.T) {
		state := NewState("transform-run", mustTable(t, numericCol("Size", 1, 2)))

		err := NewTransformStage("SalePrice", nil).Run(ctx, state)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
	})
}

func TestSplitStage(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}
	state := NewState("split-run", mustTable(t, numericCol("SalePrice", values...)))

	stage := NewSplitStage(0.8, 42, nil)
	require.NoError(t, stage.Run(context.Background(), state))

	train, eval := state.Split()
	assert.Equal(t, 8, train.NumRows())
	assert.Equal(t, 2, eval.NumRows())
}

func TestTrainStage(t *testing.T) {
	ctx := context.Background()
	tbl := mustTable(t, numericCol("SalePrice", 1, 2, 3))

	newTrainState := func() *State {
		state := NewState("train-run", tbl)
		state.SetSplit(tbl, tbl)
		return state
	}

	t.Run("one failed trainer does not fail the stage", func(t *testing.T) {
		state := newTrainState()
		trainers := []model.Trainer{
			stubTrainer{name: "linear", m: stubFitted{name: "linear"}},
			stubTrainer{name: "forest", err: apperrors.NewFitError("forest", "grow trees", errors.New("boom"))},
			stubTrainer{name: "boosting", m: stubFitted{name: "boosting"}},
		}

		stage := NewTrainStage(trainers, "SalePrice", 2, nil)
		require.NoError(t, stage.Run(ctx, state))

		models := state.Models()
		require.Len(t, models, 2)
		assert.Equal(t, "linear", models[0].Name())
		assert.Equal(t, "boosting", models[1].Name())

		errs := state.TrainerErrors()
		require.Len(t, errs, 1)
		assert.Equal(t, apperrors.KindFit, apperrors.KindOf(errs["forest"]))
	})

	t.Run("every trainer failing fails the stage", func(t *testing.T) {
		state := newTrainState()
		trainers := []model.Trainer{
			stubTrainer{name: "linear", err: errors.New("first")},
			stubTrainer{name: "forest", err: errors.New("second")},
		}

		err := NewTrainStage(trainers, "SalePrice", 0, nil).Run(ctx, state)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindFit, apperrors.KindOf(err))
		assert.ErrorContains(t, err, "every trainer failed")
		assert.Empty(t, state.Models())
	})

	t.Run("model warnings surface on the state", func(t *testing.T) {
		state := newTrainState()
		trainers := []model.Trainer{
			stubTrainer{name: "linear", m: stubFitted{
				name:  "linear",
				warns: []*apperrors.Error{apperrors.NewCollinearityWarning("GarageArea")},
			}},
		}

		require.NoError(t, NewTrainStage(trainers, "SalePrice", 1, nil).Run(ctx, state))

		warnings := state.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, apperrors.KindCollinearity, warnings[0].Kind)
		assert.Equal(t, "GarageArea", warnings[0].Column)
	})

	t.Run("models keep trainer order", func(t *testing.T) {
		state := newTrainState()
		trainers := []model.Trainer{
			stubTrainer{name: "linear", m: stubFitted{name: "linear"}},
			stubTrainer{name: "forest", m: stubFitted{name: "forest"}},
			stubTrainer{name: "boosting", m: stubFitted{name: "boosting"}},
		}

		require.NoError(t, NewTrainStage(trainers, "SalePrice", 3, nil).Run(ctx, state))

		models := state.Models()
		require.Len(t, models, 3)
		assert.Equal(t, "linear", models[0].Name())
		assert.Equal(t, "forest", models[1].Name())
		assert.Equal(t, "boosting", models[2].Name())
	})
}

func TestEvaluateStage(t *testing.T) {
	ctx := context.Background()
	evalTbl := mustTable(t, numericCol("SalePrice", 1, 2, 3))

	state := NewState("evaluate-run", evalTbl)
	state.SetSplit(evalTbl, evalTbl)
	state.SetModels([]model.FittedModel{
		stubFitted{
			name:  "good",
			preds: []float64{1, 2, 3},
			scores: map[string]float64{
				"GrLivArea":   9,
				"OverallQual": 7,
				"YearBuilt":   5,
			},
		},
		stubFitted{name: "rough", preds: []float64{2, 3, 4}, scores: map[string]float64{"GrLivArea": 1}},
	})

	stage := NewEvaluateStage("SalePrice", 2, nil)
	require.NoError(t, stage.Run(ctx, state))

	ranking := state.Ranking()
	require.Len(t, ranking.Scores, 2)
	assert.Equal(t, "good", ranking.Scores[0].Model)
	assert.Equal(t, 1, ranking.Scores[0].Rank)

	importances := state.Importances()
	require.Len(t, importances["good"], 2)
	assert.Equal(t, "GrLivArea", importances["good"][0].Feature)
	assert.Len(t, importances["rough"], 1)
}
