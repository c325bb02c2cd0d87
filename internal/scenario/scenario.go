// Package scenario scripts headless scene runs: timed pointer, activation
// and tuning events loaded from YAML, and sweeps over a single tunable.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/logging"
	"github.com/san-kum/neonscene/internal/scene"
)

var ErrEmptyScenario = errors.New("scenario: no events and no duration")

// frame times are products of the frame index and dt
const timeEpsilon = 1e-9

// Scenario is a scripted run. Duration 0 runs until one frame past the
// last event.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Duration    float64 `yaml:"duration"`
	Events      []Event `yaml:"events"`
}

// Event fires on the first frame whose time is at or after At. Fields left
// empty do nothing.
type Event struct {
	At       float64            `yaml:"at"`
	Pointer  *scene.Pointer     `yaml:"pointer,omitempty"`
	Activate bool               `yaml:"activate,omitempty"`
	Tune     map[string]float64 `yaml:"tune,omitempty"`
	Label    string             `yaml:"label,omitempty"`
}

// Load loads a scenario from a YAML file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and checks a scenario. Events are ordered by time.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if s.Duration < 0 || math.IsNaN(s.Duration) {
		return nil, fmt.Errorf("scenario: duration %v: %w", s.Duration, scene.ErrParameterBounds)
	}
	for i, ev := range s.Events {
		if ev.At < 0 || math.IsNaN(ev.At) {
			return nil, fmt.Errorf("scenario: event %d at %v: %w", i, ev.At, scene.ErrParameterBounds)
		}
	}
	if len(s.Events) == 0 && s.Duration == 0 {
		return nil, ErrEmptyScenario
	}
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].At < s.Events[j].At })
	return &s, nil
}

// Frames is the number of frames the scenario runs at fps.
func (s *Scenario) Frames(fps float64) int {
	end := s.Duration
	if end == 0 && len(s.Events) > 0 {
		end = s.Events[len(s.Events)-1].At
	}
	return int(math.Floor(end*fps+timeEpsilon)) + 1
}

// Result summarizes a played scenario.
type Result struct {
	Frames  int
	Events  int
	Hits    int
	Digest  uint64
	Metrics map[string]float64
}

// Play drives sc through s on a fixed clock at the scene's frame rate. A
// tune event with an unknown name or a bad value stops the run.
func Play(ctx context.Context, sc *engine.Scene, s *Scenario, log *zap.Logger) (*Result, error) {
	log = logging.OrNop(log).With(zap.String("scenario", s.Name))
	clock := engine.NewClock(sc.Config().FrameRate)
	n := s.Frames(sc.Config().FrameRate)

	res := &Result{}
	next := 0
	var last *engine.Frame
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tick := clock.Next()
		for ; next < len(s.Events) && s.Events[next].At <= tick.Elapsed+timeEpsilon; next++ {
			hit, err := apply(sc, s.Events[next])
			if err != nil {
				return nil, fmt.Errorf("scenario: event %d: %w", next, err)
			}
			res.Events++
			if hit {
				res.Hits++
			}
		}

		f := sc.Step(tick)
		if f == nil {
			return nil, scene.ErrClosed
		}
		last = f
		res.Frames++
	}

	res.Digest = last.Digest()
	res.Metrics = sc.Metrics()
	log.Info("scenario finished",
		zap.Int("frames", res.Frames),
		zap.Int("events", res.Events),
		zap.Int("hits", res.Hits),
	)
	return res, nil
}

func apply(sc *engine.Scene, ev Event) (bool, error) {
	if ev.Pointer != nil {
		sc.Pointer().Set(*ev.Pointer)
	}
	if ev.Label != "" {
		sc.SetLabel(ev.Label)
	}
	names := make([]string, 0, len(ev.Tune))
	for name := range ev.Tune {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := sc.Tune(name, ev.Tune[name]); err != nil {
			return false, err
		}
	}
	if ev.Activate {
		_, hit := sc.Activate(sc.Pointer().State())
		return hit, nil
	}
	return false, nil
}
