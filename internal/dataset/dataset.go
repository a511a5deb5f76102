package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Admission represents a single ICU admission episode.
// Outcome is the reference date windows are anchored to (for example the
// VAP diagnosis date); nil means the outcome never occurred or the stay
// is still open.
type Admission struct {
	PatientID int        `json:"patient_id"`
	AdmTime   time.Time  `json:"adm_time"`
	DisTime   time.Time  `json:"dis_time"`
	Outcome   *time.Time `json:"outcome,omitempty"`
}

// IsValid checks that an admission record is structurally usable
func (a Admission) IsValid() bool {
	return a.PatientID > 0 && !a.AdmTime.IsZero() && !a.DisTime.IsZero() &&
		!a.DisTime.Before(a.AdmTime)
}

// Stay returns the admission length
func (a Admission) Stay() time.Duration {
	return a.DisTime.Sub(a.AdmTime)
}

// Event represents a dated clinical event for a patient, such as a VAP
// diagnosis or the start or end of mechanical ventilation.
type Event struct {
	PatientID int       `json:"patient_id"`
	Time      time.Time `json:"time"`
}

// LoadAdmissions loads admission records from a CSV file.
// Required columns: PatientID, AdmTime, DisTime and the named outcome
// column. Rows that fail to parse are logged and skipped; an empty
// outcome cell yields a nil Outcome.
func LoadAdmissions(path, outcomeCol string) ([]Admission, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, "PatientID", "AdmTime", "DisTime", outcomeCol)
	if err != nil {
		return nil, err
	}

	var admissions []Admission
	for i, record := range records {
		adm, err := parseAdmissionRecord(record, idx, outcomeCol)
		if err != nil {
			slog.Warn("skipping unparseable admission record",
				"file", filepath.Base(path),
				"line", i+2,
				"error", err,
			)
			continue
		}
		admissions = append(admissions, adm)
	}

	return admissions, nil
}

// LoadEvents loads dated patient events from a CSV file with a
// PatientID column and the named timestamp column.
func LoadEvents(path, timeCol string) ([]Event, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, "PatientID", timeCol)
	if err != nil {
		return nil, err
	}

	var events []Event
	for i, record := range records {
		id, err := parseID(record[idx["PatientID"]])
		if err != nil {
			slog.Warn("skipping event record", "file", filepath.Base(path), "line", i+2, "error", err)
			continue
		}
		ts, err := ParseTime(record[idx[timeCol]])
		if err != nil {
			slog.Warn("skipping event record", "file", filepath.Base(path), "line", i+2, "error", err)
			continue
		}
		events = append(events, Event{PatientID: id, Time: ts})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].PatientID != events[j].PatientID {
			return events[i].PatientID < events[j].PatientID
		}
		return events[i].Time.Before(events[j].Time)
	})

	return events, nil
}

// readCSV reads all records from a CSV file and splits off the header row
func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV records: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty CSV file: %s", path)
	}
	if len(records) == 1 {
		return nil, nil, fmt.Errorf("CSV file contains only a header: %s", path)
	}

	return records[1:], records[0], nil
}

// columnIndex maps required column names to their positions in the header
func columnIndex(header []string, cols ...string) (map[string]int, error) {
	idx := make(map[string]int, len(cols))
	for _, col := range cols {
		found := -1
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("missing required column %q", col)
		}
		idx[col] = found
	}
	return idx, nil
}

func parseAdmissionRecord(record []string, idx map[string]int, outcomeCol string) (Admission, error) {
	id, err := parseID(record[idx["PatientID"]])
	if err != nil {
		return Admission{}, err
	}

	admTime, err := ParseTime(record[idx["AdmTime"]])
	if err != nil {
		return Admission{}, fmt.Errorf("parse AdmTime: %w", err)
	}

	disTime, err := ParseTime(record[idx["DisTime"]])
	if err != nil {
		return Admission{}, fmt.Errorf("parse DisTime: %w", err)
	}

	adm := Admission{PatientID: id, AdmTime: admTime, DisTime: disTime}

	if raw := strings.TrimSpace(record[idx[outcomeCol]]); raw != "" {
		outcome, err := ParseTime(raw)
		if err != nil {
			return Admission{}, fmt.Errorf("parse %s: %w", outcomeCol, err)
		}
		adm.Outcome = &outcome
	}

	return adm, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse PatientID: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("non-positive PatientID: %d", id)
	}
	return id, nil
}

// timeLayouts are the timestamp formats accepted in input files
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime attempts to parse a timestamp string in multiple formats
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", s)
}
