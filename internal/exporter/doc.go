// Package exporter writes the evaluation artifacts of a pipeline run to
// CSV files.
//
// This package contains two components:
//
// CSVWriter: Core CSV writing with headers, optional append, and a UTF-8
// BOM for Excel compatibility. Relative paths resolve against the
// writer's base directory and missing directories are created.
//
// ReportExporter: Renders a run's model ranking to scores_<run>.csv and
// its per-model top features to importance_<run>.csv.
//
// Example usage:
//
//	exp := exporter.NewReportExporter("reports", logger)
//
//	scoresPath, err := exp.ExportScores(ctx, state.Ranking(), state.RunID())
//	if err != nil {
//		return err
//	}
//	importancePath, err := exp.ExportImportance(ctx, state.Importances(), state.RunID())
package exporter
