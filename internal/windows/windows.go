package windows

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"vaprisk/internal/dataset"
)

// ForwardSpan is the width of each rolling window produced by forward
// expansion. Backward expansion uses the caller-supplied interval both
// as step and width.
const ForwardSpan = 24 * time.Hour

// HourlyWindow is one time bucket of an expanded admission.
// Hr is the signed hour offset: negative offsets count back from the
// outcome date, non-negative offsets count forward from admission.
type HourlyWindow struct {
	PatientID int       `json:"patient_id"`
	Hr        int       `json:"hr"`
	Begin     time.Time `json:"begin"`
	End       time.Time `json:"end"`
}

// ExpandBackward generates fixed-size time windows walking backward from
// each admission's outcome date toward its admission time.
//
// For an admission with outcome O the generated offsets are
// -interval, -2*interval, ... down to the first multiple that reaches
// AdmTime. Window begin times are clipped up to AdmTime and end times
// are clipped down to DisTime, so every window lies within the stay.
// The end time is derived from the unclipped begin, which keeps the
// final (earliest) window at full width even when its begin is clipped.
//
// Every admission must carry an outcome date; backward expansion is a
// training-set transformation anchored on observed outcomes.
func ExpandBackward(admissions []dataset.Admission, hourInterval int) ([]HourlyWindow, error) {
	if hourInterval < 1 {
		return nil, fmt.Errorf("hour interval must be at least 1, got %d", hourInterval)
	}

	step := time.Duration(hourInterval) * time.Hour
	var result []HourlyWindow

	for _, adm := range admissions {
		if adm.Outcome == nil {
			return nil, fmt.Errorf("admission %d has no outcome date", adm.PatientID)
		}
		outcome := *adm.Outcome
		if outcome.Before(adm.AdmTime) {
			return nil, fmt.Errorf("admission %d: outcome %s precedes admission %s",
				adm.PatientID, outcome.Format(time.RFC3339), adm.AdmTime.Format(time.RFC3339))
		}

		intervals := int(outcome.Sub(adm.AdmTime)/step) + 1

		for k := 1; k <= intervals; k++ {
			hr := -k * hourInterval
			begin := outcome.Add(time.Duration(hr) * time.Hour)
			end := begin.Add(step)

			if begin.Before(adm.AdmTime) {
				begin = adm.AdmTime
			}
			if end.After(adm.DisTime) {
				end = adm.DisTime
			}

			result = append(result, HourlyWindow{
				PatientID: adm.PatientID,
				Hr:        hr,
				Begin:     begin,
				End:       end,
			})
		}
	}

	sortWindows(result)
	return result, nil
}

// ExpandForward generates rolling 24-hour windows advancing in one hour
// steps from admission until the outcome date. Admissions without an
// outcome are treated as still open and expanded up to now, which makes
// the transformation suitable for inference on live stays.
//
// Window end times are clipped down to the outcome date.
func ExpandForward(admissions []dataset.Admission, now time.Time) ([]HourlyWindow, error) {
	var result []HourlyWindow

	for _, adm := range admissions {
		outcome := now
		if adm.Outcome != nil {
			outcome = *adm.Outcome
		} else {
			slog.Debug("open stay expanded to current time", "patient_id", adm.PatientID)
		}
		if outcome.Before(adm.AdmTime) {
			return nil, fmt.Errorf("admission %d: outcome %s precedes admission %s",
				adm.PatientID, outcome.Format(time.RFC3339), adm.AdmTime.Format(time.RFC3339))
		}

		steps := int(outcome.Sub(adm.AdmTime)/time.Hour) + 1

		for hr := 0; hr < steps; hr++ {
			begin := adm.AdmTime.Add(time.Duration(hr) * time.Hour)
			end := begin.Add(ForwardSpan)
			if end.After(outcome) {
				end = outcome
			}

			result = append(result, HourlyWindow{
				PatientID: adm.PatientID,
				Hr:        hr,
				Begin:     begin,
				End:       end,
			})
		}
	}

	sortWindows(result)
	return result, nil
}

// sortWindows orders windows by patient then hour offset, ascending
func sortWindows(ws []HourlyWindow) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].PatientID != ws[j].PatientID {
			return ws[i].PatientID < ws[j].PatientID
		}
		return ws[i].Hr < ws[j].Hr
	})
}
