package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for binary labels (0/1)
// scored by predicted probabilities. Both classes must be present.
func AUC(scores, labels []float64) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("score and label counts differ: %d vs %d", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("cannot compute AUC on empty input")
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return scores[order[i]] < scores[order[j]]
	})

	sorted := make([]float64, len(scores))
	classes := make([]bool, len(scores))
	positives := 0
	for i, idx := range order {
		sorted[i] = scores[idx]
		classes[i] = labels[idx] == 1
		if classes[i] {
			positives++
		}
	}

	if positives == 0 || positives == len(scores) {
		return 0, fmt.Errorf("AUC requires both classes, got %d positives of %d", positives, len(scores))
	}

	tpr, fpr, _ := stat.ROC(nil, sorted, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
