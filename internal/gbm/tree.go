// Package gbm implements gradient-boosted regression trees: a squared-error
// boosting loop over depth-limited regression trees with greedy
// variance-reduction splits. Fitting is deterministic for a given row order.
package gbm

import "sort"

// node is one node of a fitted regression tree. Leaves carry Value and
// have Feature == -1.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Left      *node   `json:"left,omitempty"`
	Right     *node   `json:"right,omitempty"`
}

func (n *node) isLeaf() bool {
	return n.Feature < 0
}

// tree is a single fitted regression tree.
type tree struct {
	Root *node `json:"root"`
}

// predict walks the tree for one row. Rows at the threshold go left.
func (t *tree) predict(row []float64) float64 {
	n := t.Root
	for !n.isLeaf() {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// treeBuilder grows regression trees and accumulates the squared-error
// reduction each feature's splits contribute, which becomes the ensemble's
// feature importance.
type treeBuilder struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	importance      []float64
}

// split is the best cut found for one node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func (b *treeBuilder) build(x [][]float64, y []float64, indices []int, depth int) *node {
	if depth >= b.maxDepth || len(indices) < b.minSamplesSplit {
		return leaf(y, indices)
	}

	best := b.bestSplit(x, y, indices)
	if best == nil {
		return leaf(y, indices)
	}

	b.importance[best.feature] += best.gain

	return &node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      b.build(x, y, best.left, depth+1),
		Right:     b.build(x, y, best.right, depth+1),
	}
}

// bestSplit scans every feature for the cut maximizing the squared-error
// reduction, using prefix sums over the column-sorted targets. Returns nil
// when no split improves on the parent node.
func (b *treeBuilder) bestSplit(x [][]float64, y []float64, indices []int) *split {
	n := len(indices)
	nFeatures := len(x[indices[0]])

	total := 0.0
	for _, i := range indices {
		total += y[i]
	}
	parentTerm := total * total / float64(n)

	var best *split
	sorted := make([]int, n)

	for f := 0; f < nFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, c int) bool {
			va, vc := x[sorted[a]][f], x[sorted[c]][f]
			if va == vc {
				return sorted[a] < sorted[c]
			}
			return va < vc
		})

		leftSum := 0.0
		for k := 1; k < n; k++ {
			leftSum += y[sorted[k-1]]

			prev, cur := x[sorted[k-1]][f], x[sorted[k]][f]
			if prev == cur {
				continue
			}
			if k < b.minSamplesLeaf || n-k < b.minSamplesLeaf {
				continue
			}

			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(n-k) - parentTerm
			if gain <= 1e-12 {
				continue
			}
			if best == nil || gain > best.gain {
				best = &split{
					feature:   f,
					threshold: (prev + cur) / 2,
					gain:      gain,
					left:      append([]int(nil), sorted[:k]...),
					right:     append([]int(nil), sorted[k:]...),
				}
			}
		}
	}

	return best
}

func leaf(y []float64, indices []int) *node {
	sum := 0.0
	for _, i := range indices {
		sum += y[i]
	}
	return &node{
		Feature: -1,
		Value:   sum / float64(len(indices)),
	}
}
