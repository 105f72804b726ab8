package dataset

import (
	"fmt"
	"math"
)

// Kind identifies how a column stores its values.
type Kind string

const (
	// KindNumeric columns hold float64 values; math.NaN() marks a missing cell.
	KindNumeric Kind = "numeric"
	// KindCategorical columns hold string labels; "" marks a missing cell.
	KindCategorical Kind = "categorical"
)

// Column is a single named column of a Table. Exactly one of Floats or
// Labels is populated, matching Kind. Levels, when non-empty, fixes the
// label set a categorical column is encoded against; it stays empty until
// the transformer fixes it.
type Column struct {
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Floats []float64 `json:"floats,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Levels []string  `json:"levels,omitempty"`
}

// NumericColumn builds a numeric column over values.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Floats: values}
}

// CategoricalColumn builds a categorical column over labels.
func CategoricalColumn(name string, labels []string) Column {
	return Column{Name: name, Kind: KindCategorical, Labels: labels}
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// IsNumeric reports whether the column holds float64 values.
func (c Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsMissing reports whether cell i is missing.
func (c Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Labels[i] == ""
}

// MissingCount returns the number of missing cells.
func (c Column) MissingCount() int {
	count := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the column.
func (c Column) Clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	return out
}

// Table is an ordered sequence of equally sized, uniquely named columns.
// Pipeline stages treat a Table as immutable: a stage that rewrites a
// column builds a new Table sharing the untouched columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// NewTable builds a Table from cols, validating that names are unique and
// every column has the same length.
func NewTable(cols ...Column) (Table, error) {
	t := Table{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, col := range cols {
		if col.Name == "" {
			return Table{}, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := t.index[col.Name]; dup {
			return Table{}, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i > 0 && col.Len() != cols[0].Len() {
			return Table{}, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), cols[0].Len())
		}
		t.index[col.Name] = i
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the columns in order. The returned slice is a copy; the
// column data is shared.
func (t Table) Columns() []Column {
	return append([]Column(nil), t.cols...)
}

// Names returns the column names in order.
func (t Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (t Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// WithColumn returns a new Table with col replacing the column of the same
// name, or appended when no such column exists.
func (t Table) WithColumn(col Column) (Table, error) {
	if col.Name == "" {
		return Table{}, fmt.Errorf("column has no name")
	}
	if t.NumCols() > 0 && col.Len() != t.NumRows() {
		return Table{}, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), t.NumRows())
	}

	cols := append([]Column(nil), t.cols...)
	if i, ok := t.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// DropColumns returns a new Table without the named columns. Names that do
// not exist are ignored.
func (t Table) DropColumns(names ...string) Table {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	var cols []Column
	for _, col := range t.cols {
		if !drop[col.Name] {
			cols = append(cols, col)
		}
	}

	out, err := NewTable(cols...)
	if err != nil {
		// Unreachable: a subset of a valid Table stays valid.
		panic(err)
	}
	return out
}

// SelectRows returns a new Table containing the given rows, in order. Row
// indices must be valid for the table.
func (t Table) SelectRows(rows []int) Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		out := Column{Name: col.Name, Kind: col.Kind}
		if col.Levels != nil {
			out.Levels = append([]string(nil), col.Levels...)
		}
		if col.Kind == KindNumeric {
			out.Floats = make([]float64, len(rows))
			for j, r := range rows {
				out.Floats[j] = col.Floats[r]
			}
		} else {
			out.Labels = make([]string, len(rows))
			for j, r := range rows {
				out.Labels[j] = col.Labels[r]
			}
		}
		cols[i] = out
	}

	out, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.Clone()
	}
	out, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return out
}
