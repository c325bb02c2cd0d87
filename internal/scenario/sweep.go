package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/logging"
	"github.com/san-kum/neonscene/internal/scene"
)

// Sweep varies one tunable across [Min, Max] in Steps evenly spaced points.
type Sweep struct {
	Param  string
	Min    float64
	Max    float64
	Steps  int
	Frames int
}

// SweepPoint is one sweep run.
type SweepPoint struct {
	Value   float64
	Digest  uint64
	Peak    float64
	Metrics map[string]float64
}

// RunSweep runs a fresh scene per point, every one with cfg's seed, so
// points differ only in the swept value. Seed 0 picks one clock seed for
// the whole sweep.
func RunSweep(ctx context.Context, cfg config.Config, sw Sweep, log *zap.Logger) ([]SweepPoint, error) {
	log = logging.OrNop(log)
	if sw.Steps < 1 || sw.Frames < 1 {
		return nil, fmt.Errorf("scenario: sweep needs at least one step and one frame: %w", scene.ErrParameterBounds)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	step := 0.0
	if sw.Steps > 1 {
		step = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	results := make([]SweepPoint, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		v := sw.Min + float64(i)*step

		sc, err := engine.New(&cfg, nil, log)
		if err != nil {
			return nil, err
		}
		if err := sc.Tune(sw.Param, v); err != nil {
			sc.Close()
			return nil, err
		}

		var last *engine.Frame
		peak := 0.0
		err = sc.Run(ctx, sw.Frames, func(f *engine.Frame) error {
			last = f
			peak = max(peak, f.Stats.KineticEnergy)
			return nil
		})
		metrics := sc.Metrics()
		sc.Close()
		if err != nil {
			return nil, err
		}

		results = append(results, SweepPoint{
			Value:   v,
			Digest:  last.Digest(),
			Peak:    peak,
			Metrics: metrics,
		})
		log.Debug("sweep point", zap.String("param", sw.Param), zap.Float64("value", v), zap.Float64("peak", peak))
	}
	return results, nil
}
