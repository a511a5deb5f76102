package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStratifiedKFold(t *testing.T) {
	labels := func(pos, neg int) []float64 {
		y := make([]float64, 0, pos+neg)
		for i := 0; i < pos; i++ {
			y = append(y, 1)
		}
		for i := 0; i < neg; i++ {
			y = append(y, 0)
		}
		return y
	}

	t.Run("folds partition all samples", func(t *testing.T) {
		y := labels(30, 90)

		folds, err := StratifiedKFold(y, 3, 42)
		require.NoError(t, err)
		require.Len(t, folds, 3)

		seen := make(map[int]int)
		for _, fold := range folds {
			for _, idx := range fold {
				seen[idx]++
			}
		}
		require.Len(t, seen, len(y))
		for idx, count := range seen {
			assert.Equal(t, 1, count, "index %d assigned %d times", idx, count)
		}
	})

	t.Run("class balance preserved per fold", func(t *testing.T) {
		y := labels(30, 90)

		folds, err := StratifiedKFold(y, 3, 42)
		require.NoError(t, err)

		for i, fold := range folds {
			positives := 0
			for _, idx := range fold {
				if y[idx] == 1 {
					positives++
				}
			}
			assert.Equal(t, 10, positives, "fold %d", i)
			assert.Len(t, fold, 40, "fold %d", i)
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		y := labels(10, 20)

		f1, err := StratifiedKFold(y, 2, 7)
		require.NoError(t, err)
		f2, err := StratifiedKFold(y, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, f1, f2)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := StratifiedKFold(labels(5, 5), 1, 42)
		assert.ErrorContains(t, err, "at least 2")

		_, err = StratifiedKFold(labels(1, 0), 2, 42)
		assert.Error(t, err)

		_, err = StratifiedKFold(labels(2, 10), 3, 42)
		assert.ErrorContains(t, err, "fewer than 3 folds")
	})
}

func TestTrainIndices(t *testing.T) {
	train := trainIndices(6, []int{1, 4})
	assert.Equal(t, []int{0, 2, 3, 5}, train)

	assert.Len(t, trainIndices(3, nil), 3)
}
