package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/evaluation"
)

// ReportExporter writes the evaluation artifacts of one pipeline run.
type ReportExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates an exporter writing under outputDir.
func NewReportExporter(outputDir string, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		writer: NewCSVWriter(outputDir, logger),
		logger: logger,
	}
}

// ExportScores writes the model ranking to scores_<runID>.csv and
// returns the written path. Failed models appear with an empty rank and
// their error message instead of metrics.
func (e *ReportExporter) ExportScores(ctx context.Context, ranking evaluation.Ranking, runID string) (string, error) {
	headers := []string{"rank", "model", "rmse", "mae", "r2", "error"}

	records := make([][]string, 0, len(ranking.Scores))
	for _, score := range ranking.Scores {
		if score.Err != nil {
			records = append(records, []string{"", score.Model, "", "", "", score.Err.Error()})
			continue
		}
		records = append(records, []string{
			formatInt(score.Rank),
			score.Model,
			formatFloat(score.RMSE),
			formatFloat(score.MAE),
			formatFloat(score.R2),
			"",
		})
	}

	name := fmt.Sprintf("scores_%s.csv", runID)
	if err := e.writer.WriteSimpleCSV(name, headers, records); err != nil {
		return "", fmt.Errorf("failed to write scores report: %w", err)
	}

	path := e.writer.resolvePath(name)
	e.logger.InfoContext(ctx, "scores exported",
		"path", path,
		"models", len(records),
	)
	return path, nil
}

// ExportImportance writes every model's top features to
// importance_<runID>.csv, models in name order, features in their
// ranked order, and returns the written path.
func (e *ReportExporter) ExportImportance(ctx context.Context, importances map[string][]evaluation.FeatureScore, runID string) (string, error) {
	headers := []string{"model", "rank", "feature", "score"}

	names := make([]string, 0, len(importances))
	for name := range importances {
		names = append(names, name)
	}
	sort.Strings(names)

	var records [][]string
	for _, name := range names {
		for i, fs := range importances[name] {
			records = append(records, []string{
				name,
				formatInt(i + 1),
				fs.Feature,
				formatFloat(fs.Score),
			})
		}
	}

	fileName := fmt.Sprintf("importance_%s.csv", runID)
	if err := e.writer.WriteSimpleCSV(fileName, headers, records); err != nil {
		return "", fmt.Errorf("failed to write importance report: %w", err)
	}

	path := e.writer.resolvePath(fileName)
	e.logger.InfoContext(ctx, "importance exported",
		"path", path,
		"models", len(names),
		"rows", len(records),
	)
	return path, nil
}
