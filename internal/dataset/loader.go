package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw cell values treated as missing, after whitespace trimming.
var missingMarkers = map[string]bool{
	"":    true,
	"NA":  true,
	"NaN": true,
}

// buildTable turns a header row and raw string records into a typed Table.
// A column whose every observed cell parses as a float becomes numeric;
// anything else becomes categorical. A column with no observed values at
// all is typed numeric (all NaN) and left for the cleaner to drop.
func buildTable(header []string, records [][]string) (Table, error) {
	if len(header) == 0 {
		return Table{}, fmt.Errorf("header row has no columns")
	}

	names := make([]string, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
		if names[i] == "" {
			return Table{}, fmt.Errorf("column %d has a blank header", i+1)
		}
	}

	for i, rec := range records {
		if len(rec) != len(names) {
			return Table{}, fmt.Errorf("row %d has %d cells, want %d", i+1, len(rec), len(names))
		}
	}

	cols := make([]Column, len(names))
	for j, name := range names {
		cols[j] = buildColumn(name, records, j)
	}
	return NewTable(cols...)
}

func buildColumn(name string, records [][]string, j int) Column {
	cells := make([]string, len(records))
	numeric := true
	for i, rec := range records {
		cell := strings.TrimSpace(rec[j])
		if missingMarkers[cell] {
			cells[i] = ""
			continue
		}
		cells[i] = cell
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
		}
	}

	if !numeric {
		return CategoricalColumn(name, cells)
	}

	floats := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" {
			floats[i] = math.NaN()
			continue
		}
		v, _ := strconv.ParseFloat(cell, 64)
		floats[i] = v
	}
	return NumericColumn(name, floats)
}
