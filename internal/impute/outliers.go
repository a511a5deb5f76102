package impute

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// madConsistency rescales the MAD to be comparable with a standard
// deviation under normality (Iglewicz and Hoaglin modified z-score).
const madConsistency = 0.6745

// DefaultMADThreshold is the conventional modified z-score cutoff
const DefaultMADThreshold = 3.5

// RemoveOutliersMAD drops rows whose value in the given column is an
// outlier under the median-absolute-deviation criterion: rows are kept
// when |0.6745 * (x - median) / MAD| < threshold. Rows with a missing
// value in the column are dropped, since their score is undefined.
//
// A zero MAD means the column is degenerate (more than half the values
// identical) and scoring is impossible; this is reported as an error.
func RemoveOutliersMAD(df dataframe.DataFrame, column string, threshold float64) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("invalid dataframe: %w", df.Err)
	}
	if threshold <= 0 {
		return dataframe.DataFrame{}, fmt.Errorf("threshold must be positive, got %g", threshold)
	}

	found := false
	for _, name := range df.Names() {
		if name == column {
			found = true
			break
		}
	}
	if !found {
		return dataframe.DataFrame{}, fmt.Errorf("missing column %q", column)
	}

	values := df.Col(column).Float()

	median := nanMedian(values)
	if math.IsNaN(median) {
		return dataframe.DataFrame{}, fmt.Errorf("column %q has no observed values", column)
	}

	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	mad := nanMedian(deviations)
	if mad == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("column %q has zero MAD, cannot score outliers", column)
	}

	keep := make([]int, 0, len(values))
	for i, v := range values {
		z := madConsistency * (v - median) / mad
		if math.Abs(z) < threshold {
			keep = append(keep, i)
		}
	}

	out := df.Subset(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("subset dataframe: %w", out.Err)
	}

	return out, nil
}

// nanMedian returns the median of the non-NaN values, or NaN when there
// are none. Even-length medians interpolate between the middle pair.
func nanMedian(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}

	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}
