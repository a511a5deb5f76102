package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Objective evaluates one hyperparameter trial and returns the value to
// maximize, typically a cross-validated AUC.
type Objective func(*Trial) (float64, error)

// Trial draws hyperparameter values for a single objective evaluation.
// Every suggested value is recorded in Params under its name.
type Trial struct {
	Number int
	Params map[string]float64

	rng *rand.Rand
}

// SuggestFloat draws a value in [low, high]. A positive step restricts
// the draw to the grid low, low+step, low+2*step, ...
func (t *Trial) SuggestFloat(name string, low, high, step float64) float64 {
	var v float64
	if step > 0 {
		// small epsilon so ranges like [0.7, 1.0] with step 0.1 include the top
		n := int(math.Floor((high-low)/step+1e-9)) + 1
		v = low + float64(t.rng.Intn(n))*step
		if v > high {
			v = high
		}
	} else {
		v = low + t.rng.Float64()*(high-low)
	}
	t.Params[name] = v
	return v
}

// SuggestInt draws an integer in [low, high] on the grid defined by step
// (step <= 1 means every integer).
func (t *Trial) SuggestInt(name string, low, high, step int) int {
	if step < 1 {
		step = 1
	}
	n := (high-low)/step + 1
	v := low + t.rng.Intn(n)*step
	t.Params[name] = float64(v)
	return v
}

// TrialResult records the outcome of one completed trial
type TrialResult struct {
	Number int                `json:"number"`
	Value  float64            `json:"value"`
	Params map[string]float64 `json:"params"`
}

// Study runs a randomized hyperparameter search that maximizes an
// objective. Trials draw their values independently, so the search can
// fan out across workers; results are deterministic for a given seed
// regardless of worker count because each trial seeds its own generator.
type Study struct {
	ID string

	seed    int64
	workers int

	mu       sync.Mutex
	trials   []TrialResult
	failures int
}

// StudyOption configures a Study
type StudyOption func(*Study)

// WithSeed sets the base random seed for the search
func WithSeed(seed int64) StudyOption {
	return func(s *Study) { s.seed = seed }
}

// WithWorkers bounds the number of concurrently evaluated trials
func WithWorkers(n int) StudyOption {
	return func(s *Study) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewStudy creates a study with a fresh run ID
func NewStudy(opts ...StudyOption) *Study {
	s := &Study{
		ID:      uuid.NewString(),
		seed:    42,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Optimize evaluates the objective for nTrials sampled parameter sets.
// Failed trials are logged and skipped; the study errors out only when
// the context is cancelled or every trial failed.
func (s *Study) Optimize(ctx context.Context, objective Objective, nTrials int) error {
	if nTrials < 1 {
		return fmt.Errorf("need at least 1 trial, got %d", nTrials)
	}

	logger := slog.Default()
	logger.InfoContext(ctx, "starting hyperparameter search",
		"study_id", s.ID,
		"trials", nTrials,
		"workers", s.workers,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := 0; i < nTrials; i++ {
		trial := &Trial{
			Number: i,
			Params: make(map[string]float64),
			rng:    rand.New(rand.NewSource(s.seed + int64(i))),
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			value, err := objective(trial)
			if err != nil {
				logger.WarnContext(ctx, "trial failed",
					"study_id", s.ID,
					"trial", trial.Number,
					"error", err,
				)
				s.mu.Lock()
				s.failures++
				s.mu.Unlock()
				return nil
			}

			s.mu.Lock()
			s.trials = append(s.trials, TrialResult{
				Number: trial.Number,
				Value:  value,
				Params: trial.Params,
			})
			s.mu.Unlock()

			logger.DebugContext(ctx, "trial completed",
				"study_id", s.ID,
				"trial", trial.Number,
				"value", value,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("hyperparameter search aborted: %w", err)
	}

	if len(s.trials) == 0 {
		return fmt.Errorf("all %d trials failed", nTrials)
	}

	best, _ := s.BestTrial()
	logger.InfoContext(ctx, "hyperparameter search completed",
		"study_id", s.ID,
		"completed", len(s.trials),
		"failed", s.failures,
		"best_value", best.Value,
		"best_params", best.Params,
	)

	return nil
}

// BestTrial returns the completed trial with the highest value
func (s *Study) BestTrial() (TrialResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.trials) == 0 {
		return TrialResult{}, false
	}
	best := s.trials[0]
	for _, tr := range s.trials[1:] {
		if tr.Value > best.Value {
			best = tr
		}
	}
	return best, true
}

// Trials returns all completed trials ordered by trial number
func (s *Study) Trials() []TrialResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TrialResult, len(s.trials))
	copy(out, s.trials)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// CrossValAUC trains the boosted-tree classifier on each train split and
// returns the mean AUC over the held-out folds.
func CrossValAUC(ctx context.Context, X [][]float64, y []float64, folds [][]int, params GBTParams, seed int64) (float64, error) {
	if len(folds) < 2 {
		return 0, fmt.Errorf("need at least 2 folds, got %d", len(folds))
	}

	aucs := make([]float64, 0, len(folds))

	for f, testFold := range folds {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("cross-validation cancelled: %w", ctx.Err())
		default:
		}

		train := trainIndices(len(X), testFold)

		trainX := make([][]float64, len(train))
		trainY := make([]float64, len(train))
		for i, idx := range train {
			trainX[i] = X[idx]
			trainY[i] = y[idx]
		}

		testX := make([][]float64, len(testFold))
		testY := make([]float64, len(testFold))
		for i, idx := range testFold {
			testX[i] = X[idx]
			testY[i] = y[idx]
		}

		clf := NewGradientBoosting(params, seed+int64(f))
		if err := clf.Fit(trainX, trainY); err != nil {
			return 0, fmt.Errorf("fold %d: fit: %w", f, err)
		}

		probs, err := clf.PredictProba(testX)
		if err != nil {
			return 0, fmt.Errorf("fold %d: predict: %w", f, err)
		}

		auc, err := AUC(probs, testY)
		if err != nil {
			return 0, fmt.Errorf("fold %d: score: %w", f, err)
		}
		aucs = append(aucs, auc)
	}

	return stat.Mean(aucs, nil), nil
}

// GBTObjective builds the standard tuning objective: suggest boosted-tree
// hyperparameters and score them by cross-validated AUC.
func GBTObjective(ctx context.Context, X [][]float64, y []float64, folds [][]int, seed int64) Objective {
	return func(trial *Trial) (float64, error) {
		params := GBTParams{
			MaxDepth:        trial.SuggestInt("max_depth", 3, 7, 1),
			NumTrees:        trial.SuggestInt("n_estimators", 100, 500, 50),
			LearningRate:    trial.SuggestFloat("learning_rate", 0.01, 0.3, 0),
			Subsample:       trial.SuggestFloat("subsample", 0.7, 1.0, 0.1),
			ColsampleByTree: trial.SuggestFloat("colsample_bytree", 0.7, 1.0, 0.1),
		}
		return CrossValAUC(ctx, X, y, folds, params, seed)
	}
}
