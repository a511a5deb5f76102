package windows

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"vaprisk/internal/dataset"
)

// Dataframe column names for expanded windows. The window bound columns
// keep their historical names so downstream feature joins stay stable.
const (
	ColPatientID   = "PatientID"
	ColHr          = "hr"
	ColWindowBegin = "AdmTimeHourlyBegin"
	ColWindowEnd   = "AdmTimeHourlyFinal"
)

// ToDataFrame converts expanded windows into a gota dataframe with
// RFC3339 timestamp columns.
func ToDataFrame(ws []HourlyWindow) dataframe.DataFrame {
	ids := make([]int, len(ws))
	hrs := make([]int, len(ws))
	begins := make([]string, len(ws))
	ends := make([]string, len(ws))

	for i, w := range ws {
		ids[i] = w.PatientID
		hrs[i] = w.Hr
		begins[i] = w.Begin.Format(time.RFC3339)
		ends[i] = w.End.Format(time.RFC3339)
	}

	return dataframe.New(
		series.New(ids, series.Int, ColPatientID),
		series.New(hrs, series.Int, ColHr),
		series.New(begins, series.String, ColWindowBegin),
		series.New(ends, series.String, ColWindowEnd),
	)
}

// FromDataFrame converts a dataframe produced by ToDataFrame (or loaded
// from its CSV form) back into typed windows.
func FromDataFrame(df dataframe.DataFrame) ([]HourlyWindow, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid dataframe: %w", df.Err)
	}

	for _, col := range []string{ColPatientID, ColHr, ColWindowBegin, ColWindowEnd} {
		if !hasColumn(df, col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	n := df.Nrow()
	ws := make([]HourlyWindow, 0, n)

	ids := df.Col(ColPatientID)
	hrs := df.Col(ColHr)
	begins := df.Col(ColWindowBegin).Records()
	ends := df.Col(ColWindowEnd).Records()

	for i := 0; i < n; i++ {
		id, err := ids.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s: %w", i, ColPatientID, err)
		}
		hr, err := hrs.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s: %w", i, ColHr, err)
		}
		begin, err := dataset.ParseTime(begins[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s: %w", i, ColWindowBegin, err)
		}
		end, err := dataset.ParseTime(ends[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s: %w", i, ColWindowEnd, err)
		}

		ws = append(ws, HourlyWindow{PatientID: id, Hr: hr, Begin: begin, End: end})
	}

	return ws, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
