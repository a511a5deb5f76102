package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// StratifiedKFold splits sample indices into k folds that preserve the
// label distribution of y. The returned slices are the held-out test
// sets; the training set for fold i is everything else.
//
// Assignment shuffles each class independently and deals its members
// round-robin across folds, so folds are deterministic for a given seed.
func StratifiedKFold(y []float64, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if len(y) < k {
		return nil, fmt.Errorf("cannot split %d samples into %d folds", len(y), k)
	}

	byClass := make(map[float64][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	// iterate classes in a stable order
	classes := make([]float64, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)

	for _, label := range classes {
		indices := byClass[label]
		if len(indices) < k {
			return nil, fmt.Errorf("class %g has %d samples, fewer than %d folds", label, len(indices), k)
		}
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			folds[i%k] = append(folds[i%k], idx)
		}
	}

	for i := range folds {
		sort.Ints(folds[i])
	}

	return folds, nil
}

// trainIndices returns the complement of the given test fold
func trainIndices(n int, testFold []int) []int {
	inTest := make(map[int]bool, len(testFold))
	for _, idx := range testFold {
		inTest[idx] = true
	}
	train := make([]int, 0, n-len(testFold))
	for i := 0; i < n; i++ {
		if !inTest[i] {
			train = append(train, i)
		}
	}
	return train
}
