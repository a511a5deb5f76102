package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vaprisk/internal/model"
	"vaprisk/internal/windows"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	slog.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// windowHeaders are the CSV columns for expanded windows
var windowHeaders = []string{
	windows.ColPatientID,
	windows.ColHr,
	windows.ColWindowBegin,
	windows.ColWindowEnd,
}

// WriteWindowsCSV persists expanded hourly windows
func (w *CSVWriter) WriteWindowsCSV(ws []windows.HourlyWindow, path string) error {
	records := make([][]string, len(ws))
	for i, win := range ws {
		records[i] = []string{
			strconv.Itoa(win.PatientID),
			strconv.Itoa(win.Hr),
			win.Begin.Format(time.RFC3339),
			win.End.Format(time.RFC3339),
		}
	}

	return w.WriteCSV(path, WriteOptions{Headers: windowHeaders, Records: records})
}

// WriteTrialsCSV persists completed tuning trials, one row per trial.
// Parameter columns are taken from the first trial and kept in the
// given order for every row.
func (w *CSVWriter) WriteTrialsCSV(trials []model.TrialResult, paramNames []string, path string) error {
	if len(trials) == 0 {
		return fmt.Errorf("no trials to write")
	}

	headers := append([]string{"trial", "value"}, paramNames...)

	records := make([][]string, len(trials))
	for i, tr := range trials {
		record := make([]string, 0, len(headers))
		record = append(record,
			strconv.Itoa(tr.Number),
			strconv.FormatFloat(tr.Value, 'f', 6, 64),
		)
		for _, name := range paramNames {
			value, ok := tr.Params[name]
			if !ok {
				return fmt.Errorf("trial %d is missing parameter %q", tr.Number, name)
			}
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		records[i] = record
	}

	return w.WriteCSV(path, WriteOptions{Headers: headers, Records: records})
}
