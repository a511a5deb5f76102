package model

import (
	"fmt"
	"math/rand"
)

// Downsample balances a binary training set by sampling the majority
// class (label != 1) down to majorityProportion times the size of the
// minority class (label == 1), without replacement.
//
// A proportion of 1 yields an equal number of positive and negative
// rows; 2 leaves the majority class twice as large as the minority.
// Minority rows come first in the returned set, followed by the sampled
// majority rows. Sampling is deterministic for a given seed.
func Downsample(X [][]float64, y []float64, majorityProportion float64, seed int64) ([][]float64, []float64, error) {
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("feature and label counts differ: %d vs %d", len(X), len(y))
	}
	if majorityProportion <= 0 {
		return nil, nil, fmt.Errorf("majority proportion must be positive, got %g", majorityProportion)
	}

	var minorityIdx, majorityIdx []int
	for i, label := range y {
		if label == 1 {
			minorityIdx = append(minorityIdx, i)
		} else {
			majorityIdx = append(majorityIdx, i)
		}
	}

	if len(minorityIdx) == 0 {
		return nil, nil, fmt.Errorf("no minority class samples (label 1)")
	}

	desired := int(float64(len(minorityIdx)) * majorityProportion)
	if desired > len(majorityIdx) {
		return nil, nil, fmt.Errorf("requested %d majority samples but only %d available", desired, len(majorityIdx))
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(majorityIdx))

	balancedX := make([][]float64, 0, len(minorityIdx)+desired)
	balancedY := make([]float64, 0, len(minorityIdx)+desired)

	for _, idx := range minorityIdx {
		balancedX = append(balancedX, X[idx])
		balancedY = append(balancedY, 1)
	}
	for _, p := range perm[:desired] {
		idx := majorityIdx[p]
		balancedX = append(balancedX, X[idx])
		balancedY = append(balancedY, y[idx])
	}

	return balancedX, balancedY, nil
}
