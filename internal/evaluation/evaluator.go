// Package evaluation scores fitted models on a held-out table and ranks
// them, and extracts ordered feature-importance views from each model.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
)

// ModelScore is one model's evaluation result. A model whose prediction
// failed carries the error and no rank; it never aborts the others.
type ModelScore struct {
	Model string  `json:"model"`
	RMSE  float64 `json:"rmse"`
	MAE   float64 `json:"mae"`
	R2    float64 `json:"r2"`
	Rank  int     `json:"rank"` // 1-based; 0 means the model failed
	Err   error   `json:"-"`
}

// Ranking holds every model's score, ranked models first in ascending
// RMSE order (ties broken by model name), failed models after them in
// name order.
type Ranking struct {
	Target string       `json:"target"`
	Scores []ModelScore `json:"scores"`
}

// Best returns the top-ranked score, or false when every model failed.
func (r Ranking) Best() (ModelScore, bool) {
	for _, s := range r.Scores {
		if s.Rank == 1 {
			return s, true
		}
	}
	return ModelScore{}, false
}

// Failed returns the scores of models whose predictions failed.
func (r Ranking) Failed() []ModelScore {
	var out []ModelScore
	for _, s := range r.Scores {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Evaluator scores models against a held-out subset. Metrics are
// computed on the scale the models were trained on, which is the log
// scale whenever the target transform ran.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator returns an evaluator. A nil logger falls back to
// slog.Default().
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger}
}

// Evaluate is a convenience wrapper around NewEvaluator(nil).Evaluate.
func Evaluate(ctx context.Context, models []model.FittedModel, eval dataset.Table, target string) (Ranking, error) {
	return NewEvaluator(nil).Evaluate(ctx, models, eval, target)
}

// Evaluate scores every model on eval and ranks them by ascending RMSE.
// The result is deterministic for fixed inputs: equal scores order by
// model name, and failed models sort by name after the ranked ones.
func (e *Evaluator) Evaluate(ctx context.Context, models []model.FittedModel, eval dataset.Table, target string) (Ranking, error) {
	if len(models) == 0 {
		return Ranking{}, apperrors.NewConfigError("no models to evaluate", nil)
	}
	actuals, err := evalTarget(eval, target)
	if err != nil {
		return Ranking{}, err
	}

	var ranked, failed []ModelScore
	for _, m := range models {
		score := e.scoreModel(ctx, m, eval, actuals)
		if score.Err != nil {
			failed = append(failed, score)
			continue
		}
		ranked = append(ranked, score)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RMSE != ranked[j].RMSE {
			return ranked[i].RMSE < ranked[j].RMSE
		}
		return ranked[i].Model < ranked[j].Model
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Model < failed[j].Model })

	return Ranking{Target: target, Scores: append(ranked, failed...)}, nil
}

func (e *Evaluator) scoreModel(ctx context.Context, m model.FittedModel, eval dataset.Table, actuals []float64) ModelScore {
	score := ModelScore{Model: m.Name()}

	preds, err := m.Predict(eval)
	if err != nil {
		score.Err = err
		e.logger.WarnContext(ctx, "model prediction failed",
			"model", m.Name(),
			"error", err,
		)
		return score
	}
	if len(preds) != len(actuals) {
		score.Err = fmt.Errorf("model %s returned %d predictions for %d rows", m.Name(), len(preds), len(actuals))
		e.logger.WarnContext(ctx, "model prediction failed",
			"model", m.Name(),
			"error", score.Err,
		)
		return score
	}

	score.RMSE, score.MAE, score.R2 = metrics(preds, actuals)
	if !isFinite(score.RMSE) {
		score.Err = fmt.Errorf("model %s produced non-finite predictions", m.Name())
		e.logger.WarnContext(ctx, "model prediction failed",
			"model", m.Name(),
			"error", score.Err,
		)
		return score
	}

	e.logger.InfoContext(ctx, "model evaluated",
		"model", m.Name(),
		"rows", len(actuals),
		"rmse", score.RMSE,
		"mae", score.MAE,
		"r2", score.R2,
	)
	return score
}

// metrics computes RMSE, MAE, and R-squared of preds against actuals.
// R-squared is zero by convention when the actuals are constant.
func metrics(preds, actuals []float64) (rmse, mae, r2 float64) {
	n := float64(len(actuals))
	rss := 0.0
	for i, actual := range actuals {
		d := preds[i] - actual
		rss += d * d
		mae += math.Abs(d)
	}
	rmse = math.Sqrt(rss / n)
	mae /= n

	ybar := stat.Mean(actuals, nil)
	tss := 0.0
	for _, actual := range actuals {
		d := actual - ybar
		tss += d * d
	}
	if tss > 0 {
		r2 = 1 - rss/tss
	}
	return rmse, mae, r2
}

// evalTarget extracts the actual target values from the held-out table.
func evalTarget(t dataset.Table, target string) ([]float64, error) {
	col, ok := t.Column(target)
	if !ok {
		return nil, apperrors.NewConfigError(fmt.Sprintf("target column %q not found in evaluation table", target), nil)
	}
	if !col.IsNumeric() {
		return nil, apperrors.NewConfigError(fmt.Sprintf("target column %q is not numeric", target), nil)
	}
	if len(col.Floats) == 0 {
		return nil, apperrors.NewConfigError("evaluation table has no rows", nil)
	}
	for i, v := range col.Floats {
		if math.IsNaN(v) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("target column %q has a missing value at row %d", target, i), nil)
		}
	}
	return col.Floats, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
