package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"vaprisk/internal/config"
	"vaprisk/internal/dataset"
	"vaprisk/internal/exporter"
	"vaprisk/internal/infrastructure"
	"vaprisk/internal/model"
)

// gbtParamNames fixes the column order of the trials CSV.
var gbtParamNames = []string{
	"max_depth",
	"n_estimators",
	"learning_rate",
	"subsample",
	"colsample_bytree",
}

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	featuresPath := flag.String("features", "", "feature matrix CSV (one row per window, numeric columns)")
	labelsPath := flag.String("labels", "", "labels CSV with a single binary column")
	labelCol := flag.String("label-col", "label", "name of the label column")
	out := flag.String("out", "", "trials CSV path (defaults to <reports_dir>/trials.csv)")
	trials := flag.Int("trials", 0, "number of search trials (defaults to config)")
	folds := flag.Int("folds", 0, "cross-validation folds (defaults to config)")
	seed := flag.Int64("seed", 0, "random seed (defaults to config)")
	majorityProportion := flag.Float64("majority-proportion", 0, "majority class size relative to minority (defaults to config)")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent trial evaluations")
	flag.Parse()

	if *featuresPath == "" || *labelsPath == "" {
		fmt.Fprintln(os.Stderr, "missing required flags -features and -labels")
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

	if *trials <= 0 {
		*trials = cfg.Model.Trials
	}
	if *folds <= 0 {
		*folds = cfg.Model.Folds
	}
	if *seed == 0 {
		*seed = cfg.Model.Seed
	}
	if *majorityProportion <= 0 {
		*majorityProportion = cfg.Model.MajorityProportion
	}
	if *out == "" {
		*out = filepath.Join(cfg.Paths.ReportsDir, "trials.csv")
	}

	logger.Info("starting hyperparameter search",
		slog.String("features", *featuresPath),
		slog.String("labels", *labelsPath),
		slog.Int("trials", *trials),
		slog.Int("folds", *folds),
		slog.Int64("seed", *seed),
		slog.Float64("majority_proportion", *majorityProportion))

	featureFrame, err := dataset.ReadFrame(*featuresPath)
	if err != nil {
		logger.Error("failed to load features", "error", err)
		os.Exit(1)
	}
	X, err := dataset.Matrix(featureFrame)
	if err != nil {
		logger.Error("failed to build feature matrix", "error", err)
		os.Exit(1)
	}

	labelFrame, err := dataset.ReadFrame(*labelsPath)
	if err != nil {
		logger.Error("failed to load labels", "error", err)
		os.Exit(1)
	}
	y, err := dataset.ColumnFloats(labelFrame, *labelCol)
	if err != nil {
		logger.Error("failed to read label column", "error", err)
		os.Exit(1)
	}
	if len(X) != len(y) {
		logger.Error("feature and label row counts differ",
			slog.Int("features", len(X)),
			slog.Int("labels", len(y)))
		os.Exit(1)
	}

	X, y, err = model.Downsample(X, y, *majorityProportion, *seed)
	if err != nil {
		logger.Error("failed to downsample majority class", "error", err)
		os.Exit(1)
	}
	logger.Info("downsampled training set", slog.Int("rows", len(X)))

	testFolds, err := model.StratifiedKFold(y, *folds, *seed)
	if err != nil {
		logger.Error("failed to build cross-validation folds", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	study := model.NewStudy(model.WithSeed(*seed), model.WithWorkers(*workers))
	if err := study.Optimize(ctx, model.GBTObjective(ctx, X, y, testFolds, *seed), *trials); err != nil {
		logger.Error("hyperparameter search failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter()
	if err := writer.WriteTrialsCSV(study.Trials(), gbtParamNames, *out); err != nil {
		logger.Error("failed to write trials CSV", "error", err)
		os.Exit(1)
	}

	best, ok := study.BestTrial()
	if !ok {
		logger.Error("no completed trials")
		os.Exit(1)
	}
	logger.Info("hyperparameter search complete",
		slog.Int("trial", best.Number),
		slog.Float64("cv_auc", best.Value),
		slog.Any("params", best.Params),
		slog.String("output", *out))
}
