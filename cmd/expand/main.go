package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vaprisk/internal/config"
	"vaprisk/internal/dataset"
	"vaprisk/internal/exporter"
	"vaprisk/internal/infrastructure"
	"vaprisk/internal/windows"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	input := flag.String("input", "", "admissions CSV with PatientID, AdmTime, DisTime and the outcome column")
	outcomeCol := flag.String("outcome-col", "VAPTime", "name of the outcome timestamp column")
	out := flag.String("out", "", "output CSV path (defaults to <reports_dir>/windows.csv)")
	interval := flag.Int("interval", 0, "hour interval for backward expansion (defaults to config)")
	mode := flag.String("mode", "backward", "backward | forward")
	excel := flag.String("excel", "", "optional xlsx output path")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "missing required flag -input")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}
	if err := cfg.EnsureDirs(); err != nil {
		slog.Error("failed to create output directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if *interval <= 0 {
		*interval = cfg.Model.HourInterval
	}
	if *out == "" {
		*out = filepath.Join(cfg.Paths.ReportsDir, "windows.csv")
	}

	logger.Info("starting window expansion",
		slog.String("mode", *mode),
		slog.String("input", *input),
		slog.Int("interval_hours", *interval),
		slog.String("output", *out))

	admissions, err := dataset.LoadAdmissions(*input, *outcomeCol)
	if err != nil {
		logger.Error("failed to load admissions", "error", err)
		os.Exit(1)
	}

	quality := dataset.ValidateQuality(admissions)
	logger.Info("admission quality",
		slog.Int("total", quality.TotalAdmissions),
		slog.Int("valid", quality.ValidAdmissions),
		slog.Int("with_outcome", quality.WithOutcome),
		slog.Int("unique_patients", quality.UniquePatients),
		slog.Duration("mean_stay", quality.MeanStay))

	var expanded []windows.HourlyWindow
	switch *mode {
	case "backward":
		// Backward expansion is anchored on observed outcomes, so open
		// stays are dropped up front.
		withOutcome := make([]dataset.Admission, 0, len(admissions))
		for _, adm := range admissions {
			if adm.Outcome == nil {
				logger.Warn("skipping admission without outcome", slog.Int("patient_id", adm.PatientID))
				continue
			}
			withOutcome = append(withOutcome, adm)
		}
		expanded, err = windows.ExpandBackward(withOutcome, *interval)
	case "forward":
		expanded, err = windows.ExpandForward(admissions, time.Now().UTC())
	default:
		logger.Error("unknown mode", slog.String("mode", *mode))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("window expansion failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter()
	if err := writer.WriteWindowsCSV(expanded, *out); err != nil {
		logger.Error("failed to write windows CSV", "error", err)
		os.Exit(1)
	}

	if *excel != "" {
		if err := exporter.WriteWindowsExcel(expanded, *excel); err != nil {
			logger.Error("failed to write windows xlsx", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("window expansion complete",
		slog.Int("windows", len(expanded)),
		slog.String("output", *out))
}
