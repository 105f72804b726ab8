package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/evaluation"
)

func TestState(t *testing.T) {
	t.Run("new state is pending and carries the input table", func(t *testing.T) {
		tbl := mustTable(t, numericCol("SalePrice", 1, 2, 3))
		state := NewState("run-1", tbl)

		assert.Equal(t, "run-1", state.RunID())
		assert.Equal(t, RunStatusPending, state.Status())
		assert.Equal(t, 3, state.Table().NumRows())
		assert.NoError(t, state.Err())
	})

	t.Run("lifecycle transitions", func(t *testing.T) {
		state := NewState("run-2", mustTable(t, numericCol("SalePrice", 1)))

		state.Start()
		assert.Equal(t, RunStatusRunning, state.Status())

		state.Complete()
		assert.Equal(t, RunStatusCompleted, state.Status())
		assert.GreaterOrEqual(t, state.Duration().Nanoseconds(), int64(0))
	})

	t.Run("fail records the error", func(t *testing.T) {
		state := NewState("run-3", mustTable(t, numericCol("SalePrice", 1)))
		boom := errors.New("boom")

		state.Fail(boom)
		assert.Equal(t, RunStatusFailed, state.Status())
		assert.Equal(t, boom, state.Err())
	})

	t.Run("cancel marks the run cancelled", func(t *testing.T) {
		state := NewState("run-4", mustTable(t, numericCol("SalePrice", 1)))
		state.Cancel()
		assert.Equal(t, RunStatusCancelled, state.Status())
	})

	t.Run("stages keep registration order", func(t *testing.T) {
		state := NewState("run-5", mustTable(t, numericCol("SalePrice", 1)))
		state.addStage(NewStageState(StageIDClean, StageNameClean))
		state.addStage(NewStageState(StageIDSplit, StageNameSplit))

		stages := state.Stages()
		require.Len(t, stages, 2)
		assert.Equal(t, StageIDClean, stages[0].ID())
		assert.Equal(t, StageIDSplit, stages[1].ID())
		assert.Equal(t, StageIDSplit, state.StageState(StageIDSplit).ID())
		assert.Nil(t, state.StageState("unknown"))
	})

	t.Run("split is stored and retrieved", func(t *testing.T) {
		state := NewState("run-6", mustTable(t, numericCol("SalePrice", 1, 2, 3, 4)))
		train := mustTable(t, numericCol("SalePrice", 1, 2, 3))
		eval := mustTable(t, numericCol("SalePrice", 4))

		state.SetSplit(train, eval)
		gotTrain, gotEval := state.Split()
		assert.Equal(t, 3, gotTrain.NumRows())
		assert.Equal(t, 1, gotEval.NumRows())
	})

	t.Run("warnings accumulate and are copied out", func(t *testing.T) {
		state := NewState("run-7", mustTable(t, numericCol("SalePrice", 1)))
		state.AddWarning(apperrors.NewEmptyColumnError("PoolQC"))
		state.AddWarning(apperrors.NewCollinearityWarning("GarageArea"))
		state.AddWarning(nil)

		warnings := state.Warnings()
		require.Len(t, warnings, 2)
		assert.Equal(t, "PoolQC", warnings[0].Column)
		assert.Equal(t, "GarageArea", warnings[1].Column)

		warnings[0] = nil
		assert.NotNil(t, state.Warnings()[0])
	})

	t.Run("trainer errors are recorded per trainer", func(t *testing.T) {
		state := NewState("run-8", mustTable(t, numericCol("SalePrice", 1)))
		boom := errors.New("singular")

		state.RecordTrainerError("linear", boom)
		errs := state.TrainerErrors()
		require.Len(t, errs, 1)
		assert.Equal(t, boom, errs["linear"])
	})

	t.Run("importances are copied out", func(t *testing.T) {
		state := NewState("run-9", mustTable(t, numericCol("SalePrice", 1)))
		state.SetImportance("forest", []evaluation.FeatureScore{{Feature: "GrLivArea", Score: 12}})

		got := state.Importances()
		require.Len(t, got["forest"], 1)
		assert.Equal(t, "GrLivArea", got["forest"][0].Feature)

		delete(got, "forest")
		assert.Len(t, state.Importances(), 1)
	})
}
