package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// L2 regularization applied to leaf weights
const leafRegularization = 1.0

// GBTParams are the tunable hyperparameters of the boosted-tree
// classifier. The names and ranges follow the usual gradient boosting
// conventions so tuned values transfer to other implementations.
type GBTParams struct {
	MaxDepth        int     `json:"max_depth"`
	NumTrees        int     `json:"n_estimators"`
	LearningRate    float64 `json:"learning_rate"`
	Subsample       float64 `json:"subsample"`
	ColsampleByTree float64 `json:"colsample_bytree"`
}

// DefaultGBTParams returns a sensible starting configuration
func DefaultGBTParams() GBTParams {
	return GBTParams{
		MaxDepth:        3,
		NumTrees:        100,
		LearningRate:    0.1,
		Subsample:       1.0,
		ColsampleByTree: 1.0,
	}
}

// Validate checks the parameters for internal consistency
func (p GBTParams) Validate() error {
	if p.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", p.MaxDepth)
	}
	if p.NumTrees < 1 {
		return fmt.Errorf("need at least 1 tree, got %d", p.NumTrees)
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %g", p.LearningRate)
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		return fmt.Errorf("subsample must be in (0, 1], got %g", p.Subsample)
	}
	if p.ColsampleByTree <= 0 || p.ColsampleByTree > 1 {
		return fmt.Errorf("colsample_bytree must be in (0, 1], got %g", p.ColsampleByTree)
	}
	return nil
}

// GradientBoosting is a binary classifier trained by gradient boosting
// of depth-limited regression trees on the logistic loss.
type GradientBoosting struct {
	params    GBTParams
	seed      int64
	baseScore float64
	trees     []*treeNode
	nFeatures int
}

// NewGradientBoosting creates an untrained classifier
func NewGradientBoosting(params GBTParams, seed int64) *GradientBoosting {
	return &GradientBoosting{params: params, seed: seed}
}

// Fit trains the ensemble on a binary labeled (0/1) training set
func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if err := g.params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature and label counts differ: %d vs %d", len(X), len(y))
	}

	n := len(X)
	d := len(X[0])
	positives := 0
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("ragged feature matrix: row %d has width %d, expected %d", i, len(row), d)
		}
		switch y[i] {
		case 1:
			positives++
		case 0:
		default:
			return fmt.Errorf("labels must be 0 or 1, got %g at row %d", y[i], i)
		}
	}
	if positives == 0 || positives == n {
		return fmt.Errorf("training set needs both classes, got %d positives of %d", positives, n)
	}

	g.nFeatures = d
	base := float64(positives) / float64(n)
	g.baseScore = math.Log(base / (1 - base))
	g.trees = make([]*treeNode, 0, g.params.NumTrees)

	rng := rand.New(rand.NewSource(g.seed))

	// raw ensemble scores, updated tree by tree
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.baseScore
	}

	grad := make([]float64, n)
	hess := make([]float64, n)

	for m := 0; m < g.params.NumTrees; m++ {
		for i := range scores {
			p := sigmoid(scores[i])
			grad[i] = p - y[i]
			hess[i] = p * (1 - p)
		}

		rows := sampleRows(n, g.params.Subsample, rng)
		features := sampleFeatures(d, g.params.ColsampleByTree, rng)

		tree := buildTree(X, grad, hess, rows, features, g.params.MaxDepth)
		g.trees = append(g.trees, tree)

		for i, row := range X {
			scores[i] += g.params.LearningRate * tree.predict(row)
		}
	}

	return nil
}

// PredictProba returns the predicted probability of the positive class
// for each row.
func (g *GradientBoosting) PredictProba(X [][]float64) ([]float64, error) {
	if g.trees == nil {
		return nil, fmt.Errorf("model is not fitted")
	}

	probs := make([]float64, len(X))
	for i, row := range X {
		if len(row) != g.nFeatures {
			return nil, fmt.Errorf("row %d has width %d, expected %d", i, len(row), g.nFeatures)
		}
		score := g.baseScore
		for _, tree := range g.trees {
			score += g.params.LearningRate * tree.predict(row)
		}
		probs[i] = sigmoid(score)
	}
	return probs, nil
}

// Predict returns hard 0/1 labels at the 0.5 probability threshold
func (g *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	probs, err := g.PredictProba(X)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// sampleRows draws floor(fraction*n) row indices without replacement
func sampleRows(n int, fraction float64, rng *rand.Rand) []int {
	if fraction >= 1 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	count := int(fraction * float64(n))
	if count < 1 {
		count = 1
	}
	return rng.Perm(n)[:count]
}

// sampleFeatures draws a per-tree feature subset without replacement
func sampleFeatures(d int, fraction float64, rng *rand.Rand) []int {
	count := d
	if fraction < 1 {
		count = int(math.Round(fraction * float64(d)))
		if count < 1 {
			count = 1
		}
	}
	features := rng.Perm(d)[:count]
	sort.Ints(features)
	return features
}

// treeNode is a node of a regression tree fit to the loss gradients
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (t *treeNode) predict(row []float64) float64 {
	node := t
	for !node.leaf {
		if row[node.feature] < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// buildTree grows a depth-limited regression tree greedily maximizing
// the standard second-order gain criterion.
func buildTree(X [][]float64, grad, hess []float64, rows, features []int, depth int) *treeNode {
	var sumG, sumH float64
	for _, r := range rows {
		sumG += grad[r]
		sumH += hess[r]
	}

	leaf := &treeNode{leaf: true, value: -sumG / (sumH + leafRegularization)}
	if depth == 0 || len(rows) < 2 {
		return leaf
	}

	feature, threshold, gain := bestSplit(X, grad, hess, rows, features, sumG, sumH)
	if gain <= 0 {
		return leaf
	}

	var leftRows, rightRows []int
	for _, r := range rows {
		if X[r][feature] < threshold {
			leftRows = append(leftRows, r)
		} else {
			rightRows = append(rightRows, r)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(X, grad, hess, leftRows, features, depth-1),
		right:     buildTree(X, grad, hess, rightRows, features, depth-1),
	}
}

// bestSplit scans all candidate thresholds on the allowed features and
// returns the split with the highest gain, if any.
func bestSplit(X [][]float64, grad, hess []float64, rows, features []int, sumG, sumH float64) (int, float64, float64) {
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	parentScore := sumG * sumG / (sumH + leafRegularization)

	ordered := make([]int, len(rows))
	for _, f := range features {
		copy(ordered, rows)
		sort.Slice(ordered, func(i, j int) bool {
			return X[ordered[i]][f] < X[ordered[j]][f]
		})

		var leftG, leftH float64
		for i := 0; i < len(ordered)-1; i++ {
			r := ordered[i]
			leftG += grad[r]
			leftH += hess[r]

			cur, next := X[r][f], X[ordered[i+1]][f]
			if cur == next {
				continue
			}

			rightG := sumG - leftG
			rightH := sumH - leftH

			gain := leftG*leftG/(leftH+leafRegularization) +
				rightG*rightG/(rightH+leafRegularization) -
				parentScore

			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}
