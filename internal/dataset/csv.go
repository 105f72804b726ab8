package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a CSV dataset with a header row from path.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV content with a header row into a Table.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("dataset is empty: missing header row")
	}

	return buildTable(records[0], records[1:])
}
