package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableSet builds a noisy but clearly separable binary problem
func separableSet(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := rng.Float64()
		x1 := rng.Float64()
		noise := rng.NormFloat64() * 0.05
		X[i] = []float64{x0, x1}
		if x0+x1+noise > 1 {
			y[i] = 1
		}
	}
	return X, y
}

func fastParams() GBTParams {
	return GBTParams{
		MaxDepth:        3,
		NumTrees:        25,
		LearningRate:    0.2,
		Subsample:       1.0,
		ColsampleByTree: 1.0,
	}
}

func TestGBTParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GBTParams)
		wantErr bool
	}{
		{"defaults valid", func(p *GBTParams) {}, false},
		{"zero depth", func(p *GBTParams) { p.MaxDepth = 0 }, true},
		{"zero trees", func(p *GBTParams) { p.NumTrees = 0 }, true},
		{"zero learning rate", func(p *GBTParams) { p.LearningRate = 0 }, true},
		{"learning rate above one", func(p *GBTParams) { p.LearningRate = 1.5 }, true},
		{"zero subsample", func(p *GBTParams) { p.Subsample = 0 }, true},
		{"colsample above one", func(p *GBTParams) { p.ColsampleByTree = 1.1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultGBTParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGradientBoosting(t *testing.T) {
	t.Run("learns a separable problem", func(t *testing.T) {
		X, y := separableSet(400, 1)
		clf := NewGradientBoosting(fastParams(), 42)
		require.NoError(t, clf.Fit(X, y))

		testX, testY := separableSet(200, 2)
		probs, err := clf.PredictProba(testX)
		require.NoError(t, err)

		auc, err := AUC(probs, testY)
		require.NoError(t, err)
		assert.Greater(t, auc, 0.9, "held-out AUC")
	})

	t.Run("probabilities are in range", func(t *testing.T) {
		X, y := separableSet(200, 3)
		clf := NewGradientBoosting(fastParams(), 42)
		require.NoError(t, clf.Fit(X, y))

		probs, err := clf.PredictProba(X)
		require.NoError(t, err)
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	})

	t.Run("hard labels follow the 0.5 threshold", func(t *testing.T) {
		X, y := separableSet(200, 4)
		clf := NewGradientBoosting(fastParams(), 42)
		require.NoError(t, clf.Fit(X, y))

		probs, err := clf.PredictProba(X)
		require.NoError(t, err)
		labels, err := clf.Predict(X)
		require.NoError(t, err)

		for i := range labels {
			if probs[i] >= 0.5 {
				assert.Equal(t, 1.0, labels[i])
			} else {
				assert.Equal(t, 0.0, labels[i])
			}
		}
	})

	t.Run("subsampling still trains", func(t *testing.T) {
		X, y := separableSet(400, 5)
		params := fastParams()
		params.Subsample = 0.7
		params.ColsampleByTree = 0.5

		clf := NewGradientBoosting(params, 42)
		require.NoError(t, clf.Fit(X, y))

		probs, err := clf.PredictProba(X)
		require.NoError(t, err)
		auc, err := AUC(probs, y)
		require.NoError(t, err)
		assert.Greater(t, auc, 0.8)
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		X, y := separableSet(150, 6)
		params := fastParams()
		params.Subsample = 0.8

		clf1 := NewGradientBoosting(params, 9)
		require.NoError(t, clf1.Fit(X, y))
		p1, err := clf1.PredictProba(X)
		require.NoError(t, err)

		clf2 := NewGradientBoosting(params, 9)
		require.NoError(t, clf2.Fit(X, y))
		p2, err := clf2.PredictProba(X)
		require.NoError(t, err)

		assert.Equal(t, p1, p2)
	})

	t.Run("fit errors", func(t *testing.T) {
		clf := NewGradientBoosting(fastParams(), 42)

		assert.Error(t, clf.Fit(nil, nil))
		assert.Error(t, clf.Fit([][]float64{{1}}, []float64{1, 0}))
		assert.Error(t, clf.Fit([][]float64{{1}, {2, 3}}, []float64{1, 0}))
		assert.Error(t, clf.Fit([][]float64{{1}, {2}}, []float64{1, 2}))
		assert.Error(t, clf.Fit([][]float64{{1}, {2}}, []float64{1, 1}))

		bad := fastParams()
		bad.MaxDepth = 0
		assert.Error(t, NewGradientBoosting(bad, 42).Fit([][]float64{{1}, {2}}, []float64{1, 0}))
	})

	t.Run("predict before fit is an error", func(t *testing.T) {
		clf := NewGradientBoosting(fastParams(), 42)
		_, err := clf.PredictProba([][]float64{{1, 2}})
		assert.ErrorContains(t, err, "not fitted")
	})

	t.Run("predict width mismatch is an error", func(t *testing.T) {
		X, y := separableSet(100, 7)
		clf := NewGradientBoosting(fastParams(), 42)
		require.NoError(t, clf.Fit(X, y))

		_, err := clf.PredictProba([][]float64{{1}})
		assert.Error(t, err)
	})
}
