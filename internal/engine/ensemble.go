package engine

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/logging"
)

// EnsembleResult summarizes one member of an ensemble run.
type EnsembleResult struct {
	Seed    int64              `json:"seed"`
	Frames  int                `json:"frames"`
	Digest  uint64             `json:"digest"`
	Metrics map[string]float64 `json:"metrics"`
}

// Ensemble runs one configuration over consecutive seeds, one headless
// scene per seed.
type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart int64
	log       *zap.Logger
}

// NewEnsemble starts seeds at seedStart. Seed 0 is skipped since it would
// pick a seed from the clock.
func NewEnsemble(cfg config.Config, numRuns int, seedStart int64, log *zap.Logger) *Ensemble {
	if seedStart == 0 {
		seedStart = 1
	}
	return &Ensemble{cfg: cfg, numRuns: max(numRuns, 0), seedStart: seedStart, log: logging.OrNop(log)}
}

// Run steps every member for frames frames, at most GOMAXPROCS at a time.
// Results are ordered by seed. The first failing member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, frames int) ([]EnsembleResult, error) {
	results := make([]EnsembleResult, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = memberSeed(e.seedStart, i)

			sc, err := New(&cfg, nil, e.log.With(zap.Int64("seed", cfg.Seed)))
			if err != nil {
				return err
			}
			defer sc.Close()

			var last *Frame
			if err := sc.Run(ctx, frames, func(f *Frame) error {
				last = f
				return nil
			}); err != nil {
				return err
			}

			r := EnsembleResult{Seed: cfg.Seed, Metrics: sc.Metrics()}
			if last != nil {
				r.Frames = int(last.Index) + 1
				r.Digest = last.Digest()
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// memberSeed is the i-th seed counting up from start with 0 left out, so
// every member of a run that crosses zero still gets a distinct seed.
func memberSeed(start int64, i int) int64 {
	seed := start + int64(i)
	if start < 0 && seed >= 0 {
		seed++
	}
	return seed
}
