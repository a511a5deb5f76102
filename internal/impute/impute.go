package impute

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Imputer fills missing values (NaN) in a single feature row. The row
// layout must match whatever the imputer was fitted on.
type Imputer interface {
	Transform(row []float64) ([]float64, error)
}

// MedianImputer fills missing values with per-column medians learned
// from a training matrix.
type MedianImputer struct {
	medians []float64
}

// Fit learns NaN-aware per-column medians from the given rows
func (m *MedianImputer) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("cannot fit imputer on empty data")
	}

	width := len(rows[0])
	m.medians = make([]float64, width)

	column := make([]float64, 0, len(rows))
	for j := 0; j < width; j++ {
		column = column[:0]
		for _, row := range rows {
			if len(row) != width {
				return fmt.Errorf("ragged input: row width %d, expected %d", len(row), width)
			}
			column = append(column, row[j])
		}
		med := nanMedian(column)
		if math.IsNaN(med) {
			return fmt.Errorf("column %d has no observed values", j)
		}
		m.medians[j] = med
	}

	return nil
}

// Transform returns a copy of row with NaNs replaced by fitted medians
func (m *MedianImputer) Transform(row []float64) ([]float64, error) {
	if m.medians == nil {
		return nil, fmt.Errorf("imputer is not fitted")
	}
	if len(row) != len(m.medians) {
		return nil, fmt.Errorf("row width %d does not match fitted width %d", len(row), len(m.medians))
	}

	out := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			out[i] = m.medians[i]
		} else {
			out[i] = v
		}
	}
	return out, nil
}

// FirstRowForwardFill imputes missing values in the first row of each
// group and forward-fills the remaining rows of that group.
//
// Rows are grouped by the groupCol value, preserving the frame's row
// order within each group. Only the first row per group goes through the
// imputer, and observed values are never overwritten; later rows receive
// the most recent non-missing value of their column. Columns named in
// meta (identifiers, hour offsets, window bounds) are left untouched.
//
// Feature columns are coerced to float; non-numeric cells become NaN and
// are treated as missing.
func FirstRowForwardFill(df dataframe.DataFrame, groupCol string, meta []string, imp Imputer) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("invalid dataframe: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return df, nil
	}

	skip := map[string]bool{groupCol: true}
	for _, m := range meta {
		skip[m] = true
	}

	var featureCols []string
	groupFound := false
	for _, name := range df.Names() {
		if name == groupCol {
			groupFound = true
		}
		if !skip[name] {
			featureCols = append(featureCols, name)
		}
	}
	if !groupFound {
		return dataframe.DataFrame{}, fmt.Errorf("missing group column %q", groupCol)
	}
	if len(featureCols) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no feature columns to impute")
	}

	// Column-major working copy of the feature values
	values := make(map[string][]float64, len(featureCols))
	for _, col := range featureCols {
		values[col] = df.Col(col).Float()
	}

	// Group row indices by key, keeping first-seen order
	keys := df.Col(groupCol).Records()
	groupRows := make(map[string][]int)
	var groupOrder []string
	for i, key := range keys {
		if _, ok := groupRows[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groupRows[key] = append(groupRows[key], i)
	}

	for _, key := range groupOrder {
		rows := groupRows[key]
		first := rows[0]

		row := make([]float64, len(featureCols))
		for j, col := range featureCols {
			row[j] = values[col][first]
		}

		imputed, err := imp.Transform(row)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("impute group %q: %w", key, err)
		}

		for j, col := range featureCols {
			if math.IsNaN(values[col][first]) {
				values[col][first] = imputed[j]
			}
		}

		// forward fill the rest of the group
		for _, col := range featureCols {
			last := values[col][first]
			for _, idx := range rows[1:] {
				if math.IsNaN(values[col][idx]) {
					values[col][idx] = last
				} else {
					last = values[col][idx]
				}
			}
		}
	}

	out := df
	for _, col := range featureCols {
		out = out.Mutate(series.New(values[col], series.Float, col))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("update column %q: %w", col, out.Err)
		}
	}

	return out, nil
}
