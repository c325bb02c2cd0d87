package engine

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/fog"
	"github.com/san-kum/neonscene/internal/forcefield"
	"github.com/san-kum/neonscene/internal/grid"
	"github.com/san-kum/neonscene/internal/label"
	"github.com/san-kum/neonscene/internal/logging"
	"github.com/san-kum/neonscene/internal/metrics"
	"github.com/san-kum/neonscene/internal/particles"
	"github.com/san-kum/neonscene/internal/placement"
	"github.com/san-kum/neonscene/internal/pointer"
	"github.com/san-kum/neonscene/internal/scene"
	"github.com/san-kum/neonscene/internal/streaks"
)

// Observer sees every frame after it is computed. It runs under the scene
// lock and must not call back into the scene.
type Observer interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }

type Scene struct {
	mu  sync.Mutex
	cfg config.Config
	log *zap.Logger
	rng *rand.Rand

	pointer   *pointer.Tracker
	layout    placement.Result
	field     *forcefield.Simulator
	fog       *fog.Controller
	grid      *grid.Deformer
	particles *particles.Streamer
	label     *label.Controller
	streaks   *streaks.Field
	camera    scene.Camera

	metrics   []metrics.Metric
	energy    *metrics.KineticEnergy
	observers []Observer

	onActivate func()
	frame      Frame
	frames     uint64
	closed     atomic.Bool
}

// New validates cfg and builds every component. A nil rng seeds from
// cfg.Seed, or from the clock when the seed is 0.
func New(cfg *config.Config, rng *rand.Rand, log *zap.Logger) (*Scene, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	s := &Scene{
		cfg:     *cfg,
		log:     logging.OrNop(log),
		rng:     rng,
		pointer: pointer.NewTracker(),
		camera:  scene.DefaultCamera(cfg.Compact, 0),
		metrics: metrics.Standard(),
	}
	for _, m := range s.metrics {
		if e, ok := m.(*metrics.KineticEnergy); ok {
			s.energy = e
		}
	}

	s.placeElements(cfg.ElementCount())

	s.fog = fog.NewController(fog.DefaultLayers(), cfg.FogIntensity, cfg.FogSpeed)
	s.grid = grid.NewDeformer(grid.DefaultParams(cfg.Compact))
	s.buildParticles(cfg.ParticleCount())

	lp := label.DefaultParams()
	lp.Text = cfg.Label
	s.label = label.NewController(lp)
	s.streaks = streaks.New(streaks.DefaultParams(), rand.New(rand.NewSource(rng.Int63())))

	s.log.Debug("scene built",
		zap.Bool("compact", cfg.Compact),
		zap.Int("elements", s.field.Len()),
		zap.Int("particles", s.particles.Len()),
	)
	return s, nil
}

func (s *Scene) placeElements(n int) {
	pp := placement.DefaultParams()
	pp.MaxAttempts = s.cfg.Placement.MaxAttempts
	pp.MarginFactor = s.cfg.Placement.MarginFactor

	placer := placement.New(pp, rand.New(rand.NewSource(s.rng.Int63())))
	pc := s.cfg.Placement
	s.layout = placer.Place(n, pc.BoundsX, pc.BoundsY, pc.ForegroundProbability, pc.Exclusion)
	if short := s.layout.Shortfall(); short > 0 {
		s.log.Warn("placement shortfall",
			zap.Int("requested", s.layout.Requested),
			zap.Int("placed", len(s.layout.Elements)),
			zap.Int("attempts", s.layout.Attempts),
		)
	}

	fp := forcefield.DefaultParams(s.cfg.Compact)
	fp.VortexStrength = s.cfg.VortexStrength
	s.field = forcefield.New(s.layout.Elements, fp)
}

func (s *Scene) buildParticles(n int) {
	pp := particles.DefaultParams(s.cfg.Compact)
	pp.Count = n
	s.particles = particles.NewStreamer(pp, rand.New(rand.NewSource(s.rng.Int63())))
}

// Pointer is the shared tracker. Writers may call it from any goroutine.
func (s *Scene) Pointer() *pointer.Tracker { return s.pointer }

// Config is a snapshot of the live configuration, setters included.
func (s *Scene) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Layout is the placement result the force field was seeded with.
func (s *Scene) Layout() placement.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.layout
	r.Elements = slices.Clone(r.Elements)
	return r
}

func (s *Scene) Metrics() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return metrics.Snapshot(s.metrics)
}

// EnergyHistory copies the recent kinetic energy window, oldest first.
func (s *Scene) EnergyHistory() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.energy.History()...)
}

func (s *Scene) AddMetric(m metrics.Metric) {
	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
}

func (s *Scene) AddObserver(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// OnActivate registers the handler fired when an activation hits an element.
func (s *Scene) OnActivate(fn func()) {
	s.mu.Lock()
	s.onActivate = fn
	s.mu.Unlock()
}

// SetViewport updates the camera aspect used for activation picking.
func (s *Scene) SetViewport(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if !s.lockOpen() {
		return
	}
	s.camera.Aspect = w / h
	s.mu.Unlock()
}

// Step advances every component to tick and returns the frame. The frame's
// buffers are reused by the next Step. It returns nil after Close.
func (s *Scene) Step(tick scene.Tick) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step(tick)
}

// StepCopy is Step followed by Clone under the same lock, for frames handed
// to another goroutine while setters may run.
func (s *Scene) StepCopy(tick scene.Tick) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step(tick).Clone()
}

func (s *Scene) step(tick scene.Tick) *Frame {
	if s.closed.Load() {
		return nil
	}
	if tick.Delta < 0 || tick.Delta != tick.Delta {
		tick.Delta = 0
	}

	p := s.pointer.State()
	t := tick.Elapsed

	f := &s.frame
	f.Index = s.frames
	f.Time = t
	f.Delta = tick.Delta
	f.Pointer = p
	f.Elements = s.field.Step(tick, p)
	f.Fog = s.fog.Step(t, p)
	f.Grid = s.grid.Step(t, p)
	f.Particles = s.particles.Step(t, tick.Delta)
	f.Streaks = s.streaks.Step(t)
	f.Label = s.label.Step(t, p)

	alpha := 0.0
	for _, l := range f.Fog {
		alpha += l.Center.Alpha
	}
	if len(f.Fog) > 0 {
		alpha /= float64(len(f.Fog))
	}
	f.Stats = Stats{
		KineticEnergy: s.field.KineticEnergy(),
		FogAlpha:      alpha,
		Recycled:      s.particles.Recycled(),
	}
	s.frames++

	smp := metrics.Sample{
		Time:          t,
		Delta:         tick.Delta,
		KineticEnergy: f.Stats.KineticEnergy,
		FogAlpha:      f.Stats.FogAlpha,
		Recycled:      f.Stats.Recycled,
	}
	for _, m := range s.metrics {
		m.Observe(smp)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

// Run steps the scene n times on a fixed clock without waiting between
// frames. fn sees each frame and may stop the run by returning an error.
func (s *Scene) Run(ctx context.Context, n int, fn func(*Frame) error) error {
	clock := NewClock(s.cfg.FrameRate)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		f := s.Step(clock.Next())
		if f == nil {
			return scene.ErrClosed
		}
		if fn != nil {
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Activate hit-tests p against the elements of the last frame and fires the
// activation handler on a hit.
func (s *Scene) Activate(p scene.Pointer) (int, bool) {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return -1, false
	}
	id, ok := s.field.Pick(s.camera, p)
	fn := s.onActivate
	s.mu.Unlock()

	if ok {
		s.log.Debug("element activated", zap.Int("id", id))
		if fn != nil {
			fn()
		}
	}
	return id, ok
}

// Tune sets a named tunable. Out-of-range values are rejected with an error
// wrapping scene.ErrParameterBounds.
func (s *Scene) Tune(name string, v float64) error {
	if s.closed.Load() {
		return scene.ErrClosed
	}
	var err error
	switch name {
	case "fog_intensity":
		if err = scene.CheckRange(name, v, 0, fog.MaxIntensity); err == nil {
			s.SetFogIntensity(v)
		}
	case "fog_speed":
		if err = scene.CheckRange(name, v, 0, fog.MaxSpeed); err == nil {
			s.SetFogSpeed(v)
		}
	case "vortex_strength":
		if err = scene.CheckRange(name, v, 0, forcefield.MaxVortexStrength); err == nil {
			s.SetVortexStrength(v)
		}
	case "elements":
		if err = scene.CheckRange(name, v, 0, config.MaxElements); err == nil {
			s.SetElementCount(int(v))
		}
	case "particles":
		if err = scene.CheckRange(name, v, 0, config.MaxParticles); err == nil {
			s.SetParticleCount(int(v))
		}
	default:
		return fmt.Errorf("unknown tunable %q", name)
	}
	return err
}

// SetFogIntensity clamps to [0, 1.8].
func (s *Scene) SetFogIntensity(v float64) {
	if !s.lockOpen() {
		return
	}
	s.fog.SetIntensity(v)
	s.cfg.FogIntensity = s.fog.Intensity()
	s.mu.Unlock()
}

// SetFogSpeed clamps to [0, 2].
func (s *Scene) SetFogSpeed(v float64) {
	if !s.lockOpen() {
		return
	}
	s.fog.SetSpeed(v)
	s.cfg.FogSpeed = s.fog.Speed()
	s.mu.Unlock()
}

// SetVortexStrength clamps to [0, 3].
func (s *Scene) SetVortexStrength(v float64) {
	if !s.lockOpen() {
		return
	}
	s.field.SetVortexStrength(v)
	s.cfg.VortexStrength = s.field.VortexStrength()
	s.mu.Unlock()
}

// SetElementCount re-places the elements. Motion state restarts from rest.
// A negative n restores the layout default.
func (s *Scene) SetElementCount(n int) {
	if !s.lockOpen() {
		return
	}
	defer s.mu.Unlock()
	s.cfg.Elements = max(n, config.AutoCount)
	s.placeElements(s.cfg.ElementCount())
}

// SetParticleCount rebuilds the particle pool. A negative n restores the
// layout default.
func (s *Scene) SetParticleCount(n int) {
	if !s.lockOpen() {
		return
	}
	defer s.mu.Unlock()
	s.cfg.Particles = max(n, config.AutoCount)
	s.buildParticles(s.cfg.ParticleCount())
}

func (s *Scene) SetLabel(text string) {
	if !s.lockOpen() {
		return
	}
	s.label.SetText(text)
	s.cfg.Label = s.label.Text()
	s.mu.Unlock()
}

// Tunables reports the current tunable values.
func (s *Scene) Tunables() (fogIntensity, fogSpeed, vortex float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fog.Intensity(), s.fog.Speed(), s.field.VortexStrength()
}

// Close detaches the pointer and stops frame stepping. It is safe to call
// more than once.
func (s *Scene) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.pointer.Detach()
	s.mu.Lock()
	frames := s.frames
	s.mu.Unlock()
	s.log.Info("scene closed", zap.Uint64("frames", frames))
	return nil
}

func (s *Scene) Closed() bool { return s.closed.Load() }

// lockOpen takes s.mu unless the scene is closed. Writes after Close are
// dropped.
func (s *Scene) lockOpen() bool {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return false
	}
	return true
}
