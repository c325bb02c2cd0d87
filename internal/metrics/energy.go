package metrics

// KineticEnergy tracks the summed squared element speed and keeps a sliding
// window of recent values for plotting.
type KineticEnergy struct {
	name    string
	window  int
	history []float64
	last    float64
	peak    float64
}

func NewKineticEnergy(window int) *KineticEnergy {
	if window < 1 {
		window = 1
	}
	return &KineticEnergy{
		name:    "kinetic_energy",
		window:  window,
		history: make([]float64, 0, window),
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s Sample) {
	e.last = s.KineticEnergy
	if s.KineticEnergy > e.peak {
		e.peak = s.KineticEnergy
	}
	if len(e.history) == e.window {
		copy(e.history, e.history[1:])
		e.history = e.history[:e.window-1]
	}
	e.history = append(e.history, s.KineticEnergy)
}

func (e *KineticEnergy) Value() float64 { return e.last }

func (e *KineticEnergy) Peak() float64 { return e.peak }

// History returns the window oldest first. The slice is owned by the metric.
func (e *KineticEnergy) History() []float64 { return e.history }

func (e *KineticEnergy) Reset() {
	e.history = e.history[:0]
	e.last = 0
	e.peak = 0
}

// FogAlpha is the running mean of the per-frame fog alpha.
type FogAlpha struct {
	name    string
	total   float64
	samples int
}

func NewFogAlpha() *FogAlpha { return &FogAlpha{name: "fog_alpha"} }

func (f *FogAlpha) Name() string { return f.name }

func (f *FogAlpha) Observe(s Sample) {
	f.total += s.FogAlpha
	f.samples++
}

func (f *FogAlpha) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.total / float64(f.samples)
}

func (f *FogAlpha) Reset() {
	f.total = 0
	f.samples = 0
}
