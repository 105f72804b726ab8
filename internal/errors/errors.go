package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline error by the failure it represents.
type Kind string

const (
	// KindConfig marks an invalid option or precondition. Fatal to the run.
	KindConfig Kind = "config"
	// KindDomain marks data outside the domain a transform accepts. Fatal to the run.
	KindDomain Kind = "domain"
	// KindEmptyColumn marks a column with no observed values. Non-fatal: the
	// cleaner drops the column and continues.
	KindEmptyColumn Kind = "empty_column"
	// KindCollinearity marks an exact linear dependency among design columns.
	// Non-fatal: the coefficient is aliased and the fit continues.
	KindCollinearity Kind = "collinearity"
	// KindFit marks a model that could not be fitted. Fatal to that trainer
	// only; the remaining trainers keep running.
	KindFit Kind = "fit"
)

// Error is the structured error passed between pipeline stages.
type Error struct {
	Kind    Kind   `json:"kind"`
	Stage   string `json:"stage,omitempty"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	switch {
	case e.Column != "" && e.Err != nil:
		return fmt.Sprintf("[%s] column %q: %s: %v", e.Kind, e.Column, e.Message, e.Err)
	case e.Column != "":
		return fmt.Sprintf("[%s] column %q: %s", e.Kind, e.Column, e.Message)
	case e.Stage != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Stage, e.Message, e.Err)
	case e.Stage != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause so errors.Is and errors.As work.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewConfigError reports an invalid option or violated precondition.
func NewConfigError(message string, cause error) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
		Err:     cause,
	}
}

// NewDomainError reports a value outside the domain a transform accepts.
func NewDomainError(stage, column, message string) *Error {
	return &Error{
		Kind:    KindDomain,
		Stage:   stage,
		Column:  column,
		Message: message,
	}
}

// NewEmptyColumnError reports a column with zero non-missing values.
func NewEmptyColumnError(column string) *Error {
	return &Error{
		Kind:    KindEmptyColumn,
		Column:  column,
		Message: "column has no observed values",
	}
}

// NewCollinearityWarning reports a design column that is an exact linear
// combination of columns before it. Its coefficient is aliased.
func NewCollinearityWarning(column string) *Error {
	return &Error{
		Kind:    KindCollinearity,
		Column:  column,
		Message: "column is linearly dependent on earlier columns; coefficient aliased",
	}
}

// NewFitError reports a trainer that could not produce a fitted model. The
// stage records which trainer failed.
func NewFitError(model, message string, cause error) *Error {
	return &Error{
		Kind:    KindFit,
		Stage:   model,
		Message: message,
		Err:     cause,
	}
}

// KindOf returns the Kind carried anywhere in err's chain, or "" when the
// chain carries no pipeline error.
func KindOf(err error) Kind {
	var pErr *Error
	if stderrors.As(err, &pErr) {
		return pErr.Kind
	}
	return ""
}

// IsKind reports whether err's chain carries a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// IsWarning reports whether err is non-fatal to the run: an empty column the
// cleaner can drop or a collinear design column the fit can alias.
func IsWarning(err error) bool {
	switch KindOf(err) {
	case KindEmptyColumn, KindCollinearity:
		return true
	}
	return false
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	switch KindOf(err) {
	case KindConfig, KindDomain:
		return true
	}
	return false
}

// List accumulates non-fatal errors surfaced during a run.
type List struct {
	Errors []*Error `json:"errors"`
}

// Add appends err to the list. Nil errors are ignored.
func (l *List) Add(err *Error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// HasErrors returns true when the list is non-empty.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// ByKind returns the accumulated errors of kind k, in insertion order.
func (l *List) ByKind(k Kind) []*Error {
	var out []*Error
	for _, err := range l.Errors {
		if err.Kind == k {
			out = append(out, err)
		}
	}
	return out
}

// Columns returns the column names carried by the accumulated errors, in
// insertion order, skipping entries without a column.
func (l *List) Columns() []string {
	var out []string
	for _, err := range l.Errors {
		if err.Column != "" {
			out = append(out, err.Column)
		}
	}
	return out
}

// Error implements the error interface.
func (l *List) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors occurred", len(l.Errors))
	}
}
