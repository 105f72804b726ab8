package model

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

const interceptName = "(Intercept)"

// aliasTolerance is the relative residual norm below which a design
// column counts as a linear combination of the columns before it.
const aliasTolerance = 1e-8

// LinearTrainer fits an ordinary-least-squares model over the encoded
// design matrix, with one indicator per non-reference category level.
type LinearTrainer struct {
	logger *slog.Logger
}

// NewLinearTrainer returns a linear trainer. A nil logger falls back to
// slog.Default().
func NewLinearTrainer(logger *slog.Logger) *LinearTrainer {
	return &LinearTrainer{logger: orDefault(logger)}
}

// Name implements Trainer.
func (tr *LinearTrainer) Name() string { return LinearName }

// Coefficient is one fitted regression term with its significance under
// the standard t-test.
type Coefficient struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	StdErr float64 `json:"std_err"`
	TStat  float64 `json:"t_stat"`
	PValue float64 `json:"p_value"`
}

// LinearModel is a fitted least-squares model. Aliased design columns
// carry no coefficient; they are listed in Aliased and surfaced as
// collinearity warnings.
type LinearModel struct {
	enc       *Encoder
	intercept Coefficient
	coefs     []Coefficient
	coefIndex []int
	aliased   []string
	warnings  []*apperrors.Error
	rsquared  float64
}

// Fit implements Trainer.
//
// Exact linear dependencies among design columns are detected up front
// with a Gram-Schmidt sweep; the dependent columns are dropped from the
// solve and reported as aliased rather than failing the fit. The reduced
// system is solved by QR, and each surviving coefficient gets a standard
// error, t-statistic, and two-sided p-value under Student's t with n-k
// degrees of freedom.
func (tr *LinearTrainer) Fit(ctx context.Context, train dataset.Table, target string) (FittedModel, error) {
	enc, err := NewEncoder(train, target, true)
	if err != nil {
		return nil, apperrors.NewFitError(LinearName, "encode design matrix", err)
	}
	y, err := targetVector(train, target)
	if err != nil {
		return nil, apperrors.NewFitError(LinearName, "extract target", err)
	}

	X, err := enc.Design(train)
	if err != nil {
		return nil, apperrors.NewFitError(LinearName, "encode design matrix", err)
	}
	n := len(y)

	full, names := withIntercept(X, enc.ColumnNames())
	kept, aliased := sweepAliased(full, names)
	k := len(kept)
	if n <= k {
		return nil, apperrors.NewFitError(LinearName,
			fmt.Sprintf("%d training rows cannot estimate %d coefficients", n, k), nil)
	}

	Xr := mat.NewDense(n, k, nil)
	for j, idx := range kept {
		Xr.SetCol(j, mat.Col(nil, idx, full))
	}

	var qr mat.QR
	qr.Factorize(Xr)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, mat.NewDense(n, 1, y)); err != nil && !isCondition(err) {
		return nil, apperrors.NewFitError(LinearName, "solve least squares", err)
	}
	beta := mat.Col(nil, 0, &sol)

	var fittedM mat.Dense
	fittedM.Mul(Xr, &sol)
	rss := 0.0
	ybar := stat.Mean(y, nil)
	tss := 0.0
	for i, v := range y {
		r := v - fittedM.At(i, 0)
		rss += r * r
		d := v - ybar
		tss += d * d
	}
	rsquared := 0.0
	if tss > 0 {
		rsquared = 1 - rss/tss
	}

	df := n - k
	sigma2 := rss / float64(df)

	var xtx mat.Dense
	xtx.Mul(Xr.T(), Xr)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil && !isCondition(err) {
		return nil, apperrors.NewFitError(LinearName, "invert normal matrix", err)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	model := &LinearModel{
		enc:      enc,
		aliased:  aliased,
		rsquared: rsquared,
	}
	for j, idx := range kept {
		coef := Coefficient{Name: names[idx], Value: beta[j]}
		variance := sigma2 * xtxInv.At(j, j)
		if variance > 0 {
			coef.StdErr = math.Sqrt(variance)
		}
		switch {
		case coef.StdErr > 0:
			coef.TStat = coef.Value / coef.StdErr
			coef.PValue = 2 * (1 - tdist.CDF(math.Abs(coef.TStat)))
		case coef.Value != 0:
			// A zero residual fit: the coefficient is exact.
			coef.TStat = math.Inf(1)
			if coef.Value < 0 {
				coef.TStat = math.Inf(-1)
			}
		default:
			coef.PValue = 1
		}

		if idx == 0 {
			model.intercept = coef
			continue
		}
		model.coefs = append(model.coefs, coef)
		model.coefIndex = append(model.coefIndex, idx-1)
	}

	for _, name := range aliased {
		warning := apperrors.NewCollinearityWarning(name)
		model.warnings = append(model.warnings, warning)
		tr.logger.WarnContext(ctx, "aliased coefficient dropped",
			"model", LinearName,
			"column", name,
		)
	}

	tr.logger.InfoContext(ctx, "linear model fitted",
		"rows", n,
		"coefficients", k,
		"aliased", len(aliased),
		"r_squared", rsquared,
	)
	return model, nil
}

// Name implements FittedModel.
func (m *LinearModel) Name() string { return LinearName }

// Predict implements FittedModel.
func (m *LinearModel) Predict(t dataset.Table) ([]float64, error) {
	X, err := m.enc.Design(t)
	if err != nil {
		return nil, apperrors.NewFitError(LinearName, "encode prediction rows", err)
	}

	n, _ := X.Dims()
	out := make([]float64, n)
	for i := range out {
		v := m.intercept.Value
		for c, coef := range m.coefs {
			v += coef.Value * X.At(i, m.coefIndex[c])
		}
		out[i] = v
	}
	return out, nil
}

// FeatureImportance implements FittedModel: the absolute t-statistic of
// each surviving coefficient, so significance drives the ranking.
func (m *LinearModel) FeatureImportance() map[string]float64 {
	scores := make(map[string]float64, len(m.coefs))
	for _, coef := range m.coefs {
		scores[coef.Name] = math.Abs(coef.TStat)
	}
	return scores
}

// Intercept returns the fitted intercept term.
func (m *LinearModel) Intercept() Coefficient { return m.intercept }

// Coefficients returns the fitted non-intercept terms in design order.
func (m *LinearModel) Coefficients() []Coefficient {
	return append([]Coefficient(nil), m.coefs...)
}

// Aliased returns the design columns dropped for exact collinearity.
func (m *LinearModel) Aliased() []string {
	return append([]string(nil), m.aliased...)
}

// Warnings implements Warner.
func (m *LinearModel) Warnings() []*apperrors.Error {
	return append([]*apperrors.Error(nil), m.warnings...)
}

// RSquared returns the coefficient of determination on the training set.
func (m *LinearModel) RSquared() float64 { return m.rsquared }

// withIntercept prepends a constant column of ones to X.
func withIntercept(X *mat.Dense, names []string) (*mat.Dense, []string) {
	n, p := X.Dims()
	full := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		full.Set(i, 0, 1)
	}
	full.Slice(0, n, 1, p+1).(*mat.Dense).Copy(X)
	return full, append([]string{interceptName}, names...)
}

// sweepAliased walks the design columns in order and flags each column
// whose residual, after projecting out the columns before it, is
// numerically zero. Those columns have no identifiable coefficient.
func sweepAliased(X *mat.Dense, names []string) (kept []int, aliased []string) {
	_, p := X.Dims()
	basis := make([][]float64, 0, p)
	for j := 0; j < p; j++ {
		v := mat.Col(nil, j, X)
		scale := floats.Norm(v, 2)
		for _, q := range basis {
			floats.AddScaled(v, -floats.Dot(q, v), q)
		}
		norm := floats.Norm(v, 2)
		if norm <= aliasTolerance*math.Max(scale, 1) {
			aliased = append(aliased, names[j])
			continue
		}
		floats.Scale(1/norm, v)
		basis = append(basis, v)
		kept = append(kept, j)
	}
	return kept, aliased
}

// isCondition reports whether err is gonum's ill-conditioning notice,
// which accompanies a still-usable solution.
func isCondition(err error) bool {
	var cond mat.Condition
	return stderrors.As(err, &cond)
}
