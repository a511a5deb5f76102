package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(
		"HeartRate,Lactate\n90,1.5\n95,\n88,2.0\n"),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	require.NoError(t, df.Err)
	return df
}

func TestColumnFloats(t *testing.T) {
	df := floatFrame(t)

	values, err := ColumnFloats(df, "Lactate")
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, 1.5, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.Equal(t, 2.0, values[2])

	_, err = ColumnFloats(df, "Creatinine")
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	df := floatFrame(t)

	t.Run("all columns", func(t *testing.T) {
		X, err := Matrix(df)
		require.NoError(t, err)
		require.Len(t, X, 3)
		assert.Equal(t, []float64{90, 1.5}, X[0])
	})

	t.Run("selected columns", func(t *testing.T) {
		X, err := Matrix(df, "HeartRate")
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{90}, {95}, {88}}, X)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Matrix(df, "Creatinine")
		assert.Error(t, err)
	})
}
