// Package dataset defines the Table type that flows through the modeling
// pipeline and the loaders that build one from disk.
//
// # Table
//
// A Table is an ordered sequence of equally sized, uniquely named columns.
// A column is either numeric ([]float64 with math.NaN() marking missing
// cells) or categorical ([]string with "" marking missing cells). Tables
// are treated as immutable between pipeline stages: a stage that rewrites
// a column builds a new Table that shares every untouched column.
//
// # Loaders
//
// Two loaders produce identical Tables for identical content:
//
//   - LoadCSV / ReadCSV: CSV with a header row
//   - LoadXLSX: first sheet of an Excel workbook, header row first
//
// Column types are inferred: a column whose every observed cell parses as
// a float becomes numeric, anything else categorical. The cell values "",
// "NA" and "NaN" (after whitespace trimming) are read as missing.
//
// # Profiling
//
// Profile derives per-column metadata (kind, missing count, missing
// fraction, distinct count) that drives the cleaner and the dataset
// summary output.
package dataset
