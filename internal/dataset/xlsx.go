package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of an Excel workbook as a dataset with a
// header row. The typed result is identical to loading the same content
// from CSV.
func LoadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("sheet %q is empty: missing header row", sheets[0])
	}

	header := rows[0]
	records := make([][]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return Table{}, fmt.Errorf("row %d has %d cells, want at most %d", i+1, len(row), len(header))
		}
		// GetRows trims trailing empty cells; restore them as missing.
		rec := make([]string, len(header))
		copy(rec, row)
		records[i] = rec
	}

	t, err := buildTable(header, records)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}
