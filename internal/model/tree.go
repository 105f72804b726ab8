package model

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeConfig bounds the growth of a single regression tree.
type treeConfig struct {
	maxDepth    int // 0 means unbounded
	minLeaf     int
	maxFeatures int // 0 means consider every feature at every node
}

// treeNode is one node of a fitted tree. value holds the mean target of
// the node's training rows and doubles as the leaf prediction.
type treeNode struct {
	isLeaf    bool
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

// regressionTree is a CART tree grown to minimize squared error.
// importance accumulates, per design column, the sum-of-squares reduction
// achieved by every split on that column.
type regressionTree struct {
	root       *treeNode
	importance []float64
}

// valueRow pairs a feature value with the training row it came from.
type valueRow struct {
	v   float64
	row int
}

// candidateSplit is the outcome of a best-split search at one node.
type candidateSplit struct {
	gain      float64
	feature   int
	threshold float64
	cut       int // left child takes the first cut rows of the sorted order
}

// fitTree grows a regression tree over the given rows of X, which may
// repeat (bootstrap samples do). rng drives the per-node feature
// subsample and may be nil when cfg.maxFeatures is zero.
func fitTree(X *mat.Dense, y []float64, rows []int, cfg treeConfig, rng *rand.Rand) *regressionTree {
	_, p := X.Dims()
	t := &regressionTree{importance: make([]float64, p)}
	t.root = t.grow(X, y, rows, 0, cfg, rng)
	return t
}

func (t *regressionTree) grow(X *mat.Dense, y []float64, rows []int, depth int, cfg treeConfig, rng *rand.Rand) *treeNode {
	node := &treeNode{value: meanAt(y, rows), isLeaf: true}
	if len(rows) < 2*cfg.minLeaf {
		return node
	}
	if cfg.maxDepth > 0 && depth >= cfg.maxDepth {
		return node
	}

	best := t.bestSplit(X, y, rows, cfg, rng)
	if best.feature < 0 {
		return node
	}
	t.importance[best.feature] += best.gain

	left, right := partitionRows(X, rows, best)
	node.isLeaf = false
	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.grow(X, y, left, depth+1, cfg, rng)
	node.right = t.grow(X, y, right, depth+1, cfg, rng)
	return node
}

// bestSplit scans every candidate feature in ascending column order and
// every threshold between distinct consecutive sorted values, keeping the
// split with the largest squared-error reduction. Ties keep the first
// candidate found, so the search is deterministic for a fixed rng state.
func (t *regressionTree) bestSplit(X *mat.Dense, y []float64, rows []int, cfg treeConfig, rng *rand.Rand) candidateSplit {
	best := candidateSplit{feature: -1}

	_, p := X.Dims()
	features := candidateFeatures(p, cfg.maxFeatures, rng)

	n := len(rows)
	totalSum, totalSq := sumsAt(y, rows)
	parentSSE := sseFrom(totalSum, totalSq, n)
	if parentSSE <= 0 {
		return best
	}

	vals := make([]valueRow, n)
	for _, f := range features {
		for i, r := range rows {
			vals[i] = valueRow{v: X.At(r, f), row: r}
		}
		sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

		leftSum, leftSq := 0.0, 0.0
		for s := 1; s < n; s++ {
			yv := y[vals[s-1].row]
			leftSum += yv
			leftSq += yv * yv

			if vals[s].v == vals[s-1].v {
				continue
			}
			if s < cfg.minLeaf || n-s < cfg.minLeaf {
				continue
			}

			leftSSE := sseFrom(leftSum, leftSq, s)
			rightSSE := sseFrom(totalSum-leftSum, totalSq-leftSq, n-s)
			gain := parentSSE - leftSSE - rightSSE
			if gain > best.gain {
				best = candidateSplit{
					gain:      gain,
					feature:   f,
					threshold: (vals[s-1].v + vals[s].v) / 2,
					cut:       s,
				}
			}
		}
	}
	return best
}

// partitionRows re-sorts the winning feature and cuts the sorted order at
// the position the gain was computed for, so the children match the
// search exactly even when feature values repeat.
func partitionRows(X *mat.Dense, rows []int, best candidateSplit) (left, right []int) {
	vals := make([]valueRow, len(rows))
	for i, r := range rows {
		vals[i] = valueRow{v: X.At(r, best.feature), row: r}
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	left = make([]int, best.cut)
	right = make([]int, len(rows)-best.cut)
	for i, vr := range vals[:best.cut] {
		left[i] = vr.row
	}
	for i, vr := range vals[best.cut:] {
		right[i] = vr.row
	}
	return left, right
}

// candidateFeatures returns the column indices to consider at one node,
// ascending. A positive maxFeatures below p samples that many columns
// without replacement.
func candidateFeatures(p, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= p || rng == nil {
		features := make([]int, p)
		for i := range features {
			features[i] = i
		}
		return features
	}

	features := rng.Perm(p)[:maxFeatures]
	sort.Ints(features)
	return features
}

func (t *regressionTree) predictRow(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func (t *regressionTree) predict(X *mat.Dense) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = t.predictRow(X.RawRowView(i))
	}
	return out
}

func sumsAt(y []float64, rows []int) (sum, sumsq float64) {
	for _, r := range rows {
		v := y[r]
		sum += v
		sumsq += v * v
	}
	return sum, sumsq
}

func meanAt(y []float64, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum, _ := sumsAt(y, rows)
	return sum / float64(len(rows))
}

// sseFrom recovers a sum of squared deviations from running sums. The
// subtraction can dip a hair below zero on nearly constant data; clamp so
// gains never go negative from rounding alone.
func sseFrom(sum, sumsq float64, n int) float64 {
	sse := sumsq - sum*sum/float64(n)
	if sse < 0 {
		return 0
	}
	return sse
}
