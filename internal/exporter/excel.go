package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"vaprisk/internal/windows"
)

// windowsSheet is the sheet name used for expanded windows
const windowsSheet = "windows"

// WriteWindowsExcel persists expanded hourly windows to an xlsx file
// with a bold header row, for hand inspection by clinical staff.
func WriteWindowsExcel(ws []windows.HourlyWindow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(windowsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range windowHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(windowsSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(windowsSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for i, win := range ws {
		row := i + 2
		values := []interface{}{
			win.PatientID,
			win.Hr,
			win.Begin.Format(time.RFC3339),
			win.End.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("cell name row %d: %w", row, err)
			}
			if err := f.SetCellValue(windowsSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %q: %w", path, err)
	}

	return nil
}
