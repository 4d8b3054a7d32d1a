package model

// regressionTree is a binary tree over binned features. Internal nodes route
// a row left when its bin index is <= the split bin.
type regressionTree struct {
	nodes []treeNode
}

type treeNode struct {
	leaf     bool
	value    float64 // leaf prediction
	feature  int
	splitBin int
	left     int
	right    int
}

// growTree fits one regression tree to the residuals of the given samples
func growTree(binned [][]int, b *binner, residual []float64, samples []int, params BoostingParams) *regressionTree {
	t := &regressionTree{}
	t.grow(binned, b, residual, samples, 0, params)
	return t
}

// grow recursively splits samples, returning the index of the created node
func (t *regressionTree) grow(binned [][]int, b *binner, residual []float64, samples []int, depth int, params BoostingParams) int {
	var sum float64
	for _, i := range samples {
		sum += residual[i]
	}
	count := len(samples)

	makeLeaf := func() int {
		t.nodes = append(t.nodes, treeNode{leaf: true, value: sum / float64(count)})
		return len(t.nodes) - 1
	}

	if depth >= params.MaxDepth || count < 2*params.MinSamplesLeaf {
		return makeLeaf()
	}

	feature, splitBin, gain := bestSplit(binned, b, residual, samples, params.MinSamplesLeaf)
	if gain <= 0 {
		return makeLeaf()
	}

	var left, right []int
	for _, i := range samples {
		if binned[feature][i] <= splitBin {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	// Reserve this node's slot before growing children
	idx := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{feature: feature, splitBin: splitBin})

	leftIdx := t.grow(binned, b, residual, left, depth+1, params)
	rightIdx := t.grow(binned, b, residual, right, depth+1, params)
	t.nodes[idx].left = leftIdx
	t.nodes[idx].right = rightIdx

	return idx
}

// bestSplit scans every feature histogram for the split with the highest
// variance reduction. Returns a non-positive gain when no valid split exists.
func bestSplit(binned [][]int, b *binner, residual []float64, samples []int, minLeaf int) (feature, splitBin int, gain float64) {
	var totalSum float64
	for _, i := range samples {
		totalSum += residual[i]
	}
	totalCount := len(samples)
	baseScore := totalSum * totalSum / float64(totalCount)

	feature = -1
	gain = 0

	for j := range binned {
		bins := b.binCount(j)
		if bins < 2 {
			continue
		}

		counts := make([]int, bins)
		sums := make([]float64, bins)
		for _, i := range samples {
			bin := binned[j][i]
			counts[bin]++
			sums[bin] += residual[i]
		}

		leftCount := 0
		leftSum := 0.0
		for bin := 0; bin < bins-1; bin++ {
			leftCount += counts[bin]
			leftSum += sums[bin]

			rightCount := totalCount - leftCount
			if leftCount < minLeaf || rightCount < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			score := leftSum*leftSum/float64(leftCount) + rightSum*rightSum/float64(rightCount)
			if g := score - baseScore; g > gain {
				gain = g
				feature = j
				splitBin = bin
			}
		}
	}

	return feature, splitBin, gain
}

// predictBins returns the tree's prediction for a row of bin indices
func (t *regressionTree) predictBins(row []int) float64 {
	idx := 0
	for {
		node := t.nodes[idx]
		if node.leaf {
			return node.value
		}
		if row[node.feature] <= node.splitBin {
			idx = node.left
		} else {
			idx = node.right
		}
	}
}

// predictBinnedRow returns the prediction for row i of column-major binned data
func (t *regressionTree) predictBinnedRow(binned [][]int, i int) float64 {
	idx := 0
	for {
		node := t.nodes[idx]
		if node.leaf {
			return node.value
		}
		if binned[node.feature][i] <= node.splitBin {
			idx = node.left
		} else {
			idx = node.right
		}
	}
}
