package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
)

// levelSep joins a categorical column name and a level into a design
// column name, e.g. "Neighborhood=OldTown".
const levelSep = "="

// encodedFeature is one source column and the design columns it expands
// to. position maps every encodable level to its indicator offset; the
// dropped reference level maps to -1 and produces an all-zero row block.
type encodedFeature struct {
	name     string
	kind     dataset.Kind
	levels   []string
	position map[string]int
}

// Encoder expands tables into fixed numeric design matrices. It is built
// once from a training table and then applied unchanged to every table a
// model predicts on, which is what keeps train and eval encodings from
// diverging: the level set and the design column order are frozen here.
type Encoder struct {
	target        string
	dropReference bool
	features      []encodedFeature
	names         []string
}

// NewEncoder builds an encoder over every column of t except the target.
// Categorical columns encode against their fixed Levels when set, falling
// back to the distinct labels observed in t. When dropReference is true
// the first level of each categorical column gets no indicator column and
// acts as the regression reference.
func NewEncoder(t dataset.Table, target string, dropReference bool) (*Encoder, error) {
	if !t.HasColumn(target) {
		return nil, fmt.Errorf("target column %q not found", target)
	}

	enc := &Encoder{target: target, dropReference: dropReference}
	for _, col := range t.Columns() {
		if col.Name == target {
			continue
		}

		switch col.Kind {
		case dataset.KindNumeric:
			enc.features = append(enc.features, encodedFeature{name: col.Name, kind: col.Kind})
			enc.names = append(enc.names, col.Name)

		case dataset.KindCategorical:
			levels := col.Levels
			if len(levels) == 0 {
				levels = dataset.DistinctLabels(col)
			}
			if len(levels) == 0 {
				return nil, fmt.Errorf("categorical column %q has no levels to encode", col.Name)
			}

			f := encodedFeature{
				name:     col.Name,
				kind:     col.Kind,
				levels:   levels,
				position: make(map[string]int, len(levels)),
			}
			offset := 0
			for i, level := range levels {
				if dropReference && i == 0 {
					f.position[level] = -1
					continue
				}
				f.position[level] = offset
				enc.names = append(enc.names, col.Name+levelSep+level)
				offset++
			}
			enc.features = append(enc.features, f)

		default:
			return nil, fmt.Errorf("column %q has unknown kind %q", col.Name, col.Kind)
		}
	}

	if len(enc.names) == 0 {
		return nil, fmt.Errorf("no feature columns besides target %q", target)
	}
	return enc, nil
}

// ColumnNames returns the design column names in matrix order.
func (e *Encoder) ColumnNames() []string {
	return append([]string(nil), e.names...)
}

// NumColumns returns the width of the design matrix.
func (e *Encoder) NumColumns() int {
	return len(e.names)
}

// Design encodes t into an n x NumColumns matrix. Every feature column
// the encoder was built from must be present with the same kind, numeric
// cells must be observed, and categorical labels must belong to the fixed
// level set.
func (e *Encoder) Design(t dataset.Table) (*mat.Dense, error) {
	n := t.NumRows()
	if n == 0 {
		return nil, fmt.Errorf("table has no rows to encode")
	}

	X := mat.NewDense(n, len(e.names), nil)
	base := 0
	for _, f := range e.features {
		col, ok := t.Column(f.name)
		if !ok {
			return nil, fmt.Errorf("feature column %q not found", f.name)
		}
		if col.Kind != f.kind {
			return nil, fmt.Errorf("feature column %q is %s, want %s", f.name, col.Kind, f.kind)
		}

		if f.kind == dataset.KindNumeric {
			for i, v := range col.Floats {
				if col.IsMissing(i) {
					return nil, fmt.Errorf("feature column %q has a missing value at row %d", f.name, i)
				}
				X.Set(i, base, v)
			}
			base++
			continue
		}

		width := len(f.position)
		if e.dropReference {
			width--
		}
		for i, label := range col.Labels {
			offset, ok := f.position[label]
			if !ok {
				return nil, fmt.Errorf("feature column %q has unseen label %q at row %d", f.name, label, i)
			}
			if offset >= 0 {
				X.Set(i, base+offset, 1)
			}
		}
		base += width
	}
	return X, nil
}
