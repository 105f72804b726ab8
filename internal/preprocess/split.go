package preprocess

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/dataset"
	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// Split partitions t into disjoint training and evaluation tables using a
// seeded row permutation. round(trainFraction*n) rows go to training,
// clamped so both sides keep at least one row. The same seed, fraction,
// and table always produce the same partition.
func Split(t dataset.Table, trainFraction float64, seed int64) (train, eval dataset.Table, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return dataset.Table{}, dataset.Table{}, apperrors.NewConfigError(
			fmt.Sprintf("train_fraction must lie in (0, 1), got %g", trainFraction), nil)
	}

	n := t.NumRows()
	if n < 2 {
		return dataset.Table{}, dataset.Table{}, apperrors.NewConfigError(
			fmt.Sprintf("cannot split %d rows into two non-empty subsets", n), nil)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	k := int(math.Round(trainFraction * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}

	return t.SelectRows(perm[:k]), t.SelectRows(perm[k:]), nil
}
