package impute

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func TestMedianImputer(t *testing.T) {
	t.Run("fit and transform", func(t *testing.T) {
		imp := &MedianImputer{}
		err := imp.Fit([][]float64{
			{80, 1.0},
			{100, 2.0},
			{90, 3.0},
		})
		require.NoError(t, err)

		out, err := imp.Transform([]float64{nan, 2.8})
		require.NoError(t, err)
		assert.Equal(t, []float64{90, 2.8}, out)
	})

	t.Run("fit ignores NaN values", func(t *testing.T) {
		imp := &MedianImputer{}
		require.NoError(t, imp.Fit([][]float64{{nan}, {10}, {20}}))

		out, err := imp.Transform([]float64{nan})
		require.NoError(t, err)
		assert.Equal(t, []float64{15}, out)
	})

	t.Run("unfitted transform is an error", func(t *testing.T) {
		imp := &MedianImputer{}
		_, err := imp.Transform([]float64{1})
		assert.ErrorContains(t, err, "not fitted")
	})

	t.Run("width mismatch is an error", func(t *testing.T) {
		imp := &MedianImputer{}
		require.NoError(t, imp.Fit([][]float64{{1, 2}}))
		_, err := imp.Transform([]float64{1})
		assert.Error(t, err)
	})

	t.Run("empty fit is an error", func(t *testing.T) {
		imp := &MedianImputer{}
		assert.Error(t, imp.Fit(nil))
	})

	t.Run("all-NaN column is an error", func(t *testing.T) {
		imp := &MedianImputer{}
		assert.Error(t, imp.Fit([][]float64{{nan}, {nan}}))
	})

	t.Run("ragged rows are an error", func(t *testing.T) {
		imp := &MedianImputer{}
		assert.Error(t, imp.Fit([][]float64{{1, 2}, {1}}))
	})
}

func hourlyFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{101, 101, 101, 102, 102}, series.Int, "PatientID"),
		series.New([]int{-72, -48, -24, -48, -24}, series.Int, "hr"),
		series.New([]float64{nan, nan, 95, 88, nan}, series.Float, "HeartRate"),
		series.New([]float64{1.5, nan, nan, nan, 2.5}, series.Float, "Lactate"),
	)
}

func TestFirstRowForwardFill(t *testing.T) {
	imp := &MedianImputer{}
	require.NoError(t, imp.Fit([][]float64{
		{80, 1.0},
		{90, 2.0},
		{100, 3.0},
	}))

	t.Run("imputes first row and fills forward per group", func(t *testing.T) {
		out, err := FirstRowForwardFill(hourlyFrame(), "PatientID", []string{"hr"}, imp)
		require.NoError(t, err)

		assert.Equal(t, []float64{90, 90, 95, 88, 88}, out.Col("HeartRate").Float())
		assert.Equal(t, []float64{1.5, 1.5, 1.5, 2.0, 2.5}, out.Col("Lactate").Float())

		// metadata untouched, row order preserved
		assert.Equal(t, []int{-72, -48, -24, -48, -24}, mustInts(t, out, "hr"))
	})

	t.Run("observed first-row values never overwritten", func(t *testing.T) {
		out, err := FirstRowForwardFill(hourlyFrame(), "PatientID", []string{"hr"}, imp)
		require.NoError(t, err)
		// patient 102 first HeartRate was observed as 88, median is 90
		assert.Equal(t, 88.0, out.Col("HeartRate").Float()[3])
	})

	t.Run("missing group column", func(t *testing.T) {
		_, err := FirstRowForwardFill(hourlyFrame(), "StayID", []string{"hr"}, imp)
		assert.ErrorContains(t, err, "StayID")
	})

	t.Run("no feature columns", func(t *testing.T) {
		df := dataframe.New(series.New([]int{1}, series.Int, "PatientID"))
		_, err := FirstRowForwardFill(df, "PatientID", nil, imp)
		assert.ErrorContains(t, err, "no feature columns")
	})

	t.Run("imputer failure propagates", func(t *testing.T) {
		_, err := FirstRowForwardFill(hourlyFrame(), "PatientID", []string{"hr"}, &MedianImputer{})
		assert.Error(t, err)
	})
}

func mustInts(t *testing.T, df dataframe.DataFrame, col string) []int {
	t.Helper()
	vals, err := df.Col(col).Int()
	require.NoError(t, err)
	return vals
}
