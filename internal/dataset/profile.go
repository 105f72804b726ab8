package dataset

import "sort"

// ColumnProfile summarizes one column for cleaning decisions and dataset
// summaries.
type ColumnProfile struct {
	Name            string  `json:"name"`
	Kind            Kind    `json:"kind"`
	Missing         int     `json:"missing"`
	MissingFraction float64 `json:"missing_fraction"`
	Distinct        int     `json:"distinct"`
}

// Profile derives per-column metadata for every column of t.
func Profile(t Table) []ColumnProfile {
	n := t.NumRows()
	profiles := make([]ColumnProfile, 0, t.NumCols())

	for _, col := range t.Columns() {
		p := ColumnProfile{
			Name:    col.Name,
			Kind:    col.Kind,
			Missing: col.MissingCount(),
		}
		if n > 0 {
			p.MissingFraction = float64(p.Missing) / float64(n)
		}
		p.Distinct = distinctCount(col)
		profiles = append(profiles, p)
	}
	return profiles
}

// DistinctLabels returns the sorted distinct observed labels of a
// categorical column.
func DistinctLabels(c Column) []string {
	seen := make(map[string]bool)
	for _, label := range c.Labels {
		if label != "" {
			seen[label] = true
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func distinctCount(c Column) int {
	if c.Kind == KindNumeric {
		seen := make(map[float64]bool)
		for i, v := range c.Floats {
			if !c.IsMissing(i) {
				seen[v] = true
			}
		}
		return len(seen)
	}

	seen := make(map[string]bool)
	for _, label := range c.Labels {
		if label != "" {
			seen[label] = true
		}
	}
	return len(seen)
}
