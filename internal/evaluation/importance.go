package evaluation

import (
	"sort"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/model"
)

// FeatureScore is one design column's importance under a fitted model.
// Scores are model-specific magnitudes: absolute t-statistics for the
// linear model and accumulated SSE reduction for the tree ensembles.
type FeatureScore struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// TopFeatures returns the k highest-scoring features of m in descending
// score order, ties broken by feature name ascending. The result is
// shorter than k when the model has fewer features.
func TopFeatures(m model.FittedModel, k int) []FeatureScore {
	scores := m.FeatureImportance()
	out := make([]FeatureScore, 0, len(scores))
	for name, score := range scores {
		out = append(out, FeatureScore{Feature: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Feature < out[j].Feature
	})
	if k < 0 {
		k = 0
	}
	if k < len(out) {
		out = out[:k]
	}
	return out
}
