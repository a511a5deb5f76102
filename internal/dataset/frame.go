package dataset

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
)

// ReadFrame loads a CSV file into a gota dataframe with type detection
func ReadFrame(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	df := dataframe.ReadCSV(bufio.NewReader(file),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read dataframe: %w", df.Err)
	}

	return df, nil
}

// ColumnFloats returns a single column as float64 values, with NaN for
// missing entries.
func ColumnFloats(df dataframe.DataFrame, col string) ([]float64, error) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("column %q: %w", col, s.Err)
	}
	return s.Float(), nil
}

// Matrix converts the named columns into a row-major feature matrix.
// When no columns are named, every column in the frame is used.
func Matrix(df dataframe.DataFrame, cols ...string) ([][]float64, error) {
	if len(cols) == 0 {
		cols = df.Names()
	}

	columns := make([][]float64, len(cols))
	for j, col := range cols {
		values, err := ColumnFloats(df, col)
		if err != nil {
			return nil, err
		}
		columns[j] = values
	}

	X := make([][]float64, df.Nrow())
	for i := range X {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = columns[j][i]
		}
		X[i] = row
	}
	return X, nil
}

// WriteFrame persists a dataframe to a CSV file with a header row
func WriteFrame(df dataframe.DataFrame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	if err := df.WriteCSV(file, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("write dataframe: %w", err)
	}

	return nil
}
