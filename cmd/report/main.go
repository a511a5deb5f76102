package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"vaprisk/internal/config"
	"vaprisk/internal/dataset"
	"vaprisk/internal/infrastructure"
	"vaprisk/internal/plot"
	"vaprisk/internal/windows"
)

const (
	timeCol = "time"
	probCol = "probability"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	probsPath := flag.String("probs", "", "scored windows CSV with PatientID, time and probability columns")
	eventsPath := flag.String("events", "", "optional events CSV with PatientID and the event timestamp column")
	eventCol := flag.String("event-col", "VAPTime", "name of the event timestamp column")
	patient := flag.Int("patient", 0, "patient to render")
	out := flag.String("out", "", "output HTML path (defaults to <charts_dir>/patient_<id>.html)")
	ventBegin := flag.String("vent-begin", "", "optional ventilation period start timestamp")
	ventEnd := flag.String("vent-end", "", "optional ventilation period end timestamp")
	flag.Parse()

	if *probsPath == "" || *patient <= 0 {
		fmt.Fprintln(os.Stderr, "missing required flags -probs and -patient")
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

	if *out == "" {
		*out = filepath.Join(cfg.Paths.ChartsDir, fmt.Sprintf("patient_%d.html", *patient))
	}

	logger.Info("rendering probability timeline",
		slog.Int("patient_id", *patient),
		slog.String("probs", *probsPath),
		slog.String("output", *out))

	points, err := loadPatientPoints(*probsPath, *patient)
	if err != nil {
		logger.Error("failed to load probabilities", "error", err)
		os.Exit(1)
	}

	opts := plot.TimelineOptions{}

	if *eventsPath != "" {
		events, err := dataset.LoadEvents(*eventsPath, *eventCol)
		if err != nil {
			logger.Error("failed to load events", "error", err)
			os.Exit(1)
		}
		for _, event := range events {
			if event.PatientID == *patient {
				opts.VAPEvents = append(opts.VAPEvents, event.Time)
			}
		}
		logger.Info("loaded patient events", slog.Int("count", len(opts.VAPEvents)))
	}

	if opts.VentBegin, err = parseOptionalTime(*ventBegin); err != nil {
		logger.Error("invalid -vent-begin", "error", err)
		os.Exit(1)
	}
	if opts.VentEnd, err = parseOptionalTime(*ventEnd); err != nil {
		logger.Error("invalid -vent-end", "error", err)
		os.Exit(1)
	}

	file, err := os.Create(*out)
	if err != nil {
		logger.Error("failed to create output file", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := plot.RenderPatientTimeline(file, *patient, points, opts); err != nil {
		logger.Error("failed to render timeline", "error", err)
		os.Exit(1)
	}

	logger.Info("timeline rendered",
		slog.Int("points", len(points)),
		slog.String("output", *out))
}

// loadPatientPoints reads the scored windows CSV and extracts one
// patient's (time, probability) series.
func loadPatientPoints(path string, patientID int) ([]plot.TimelinePoint, error) {
	df, err := dataset.ReadFrame(path)
	if err != nil {
		return nil, err
	}

	sub := df.Filter(dataframe.F{
		Colname:    windows.ColPatientID,
		Comparator: series.Eq,
		Comparando: patientID,
	})
	if sub.Err != nil {
		return nil, fmt.Errorf("filter patient %d: %w", patientID, sub.Err)
	}
	if sub.Nrow() == 0 {
		return nil, fmt.Errorf("no scored windows for patient %d", patientID)
	}

	times := sub.Col(timeCol)
	if times.Err != nil {
		return nil, fmt.Errorf("column %q: %w", timeCol, times.Err)
	}
	probs, err := dataset.ColumnFloats(sub, probCol)
	if err != nil {
		return nil, err
	}

	points := make([]plot.TimelinePoint, sub.Nrow())
	for i, raw := range times.Records() {
		ts, err := dataset.ParseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		points[i] = plot.TimelinePoint{Time: ts, Prob: probs[i]}
	}
	return points, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := dataset.ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
