package metrics

// Settle is the fraction of frames where the elements were effectively at
// rest, kinetic energy below threshold.
type Settle struct {
	name      string
	threshold float64
	resting   int
	samples   int
}

func NewSettle(threshold float64) *Settle {
	return &Settle{
		name:      "settled",
		threshold: threshold,
	}
}

func (s *Settle) Name() string {
	return s.name
}

func (s *Settle) Observe(smp Sample) {
	s.samples++
	if smp.KineticEnergy < s.threshold {
		s.resting++
	}
}

func (s *Settle) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.resting) / float64(s.samples)
}

func (s *Settle) Reset() {
	s.resting = 0
	s.samples = 0
}

// RecycleRate is particle slots reset per second of scene time.
type RecycleRate struct {
	name     string
	recycled int
	elapsed  float64
}

func NewRecycleRate() *RecycleRate { return &RecycleRate{name: "recycle_rate"} }

func (r *RecycleRate) Name() string { return r.name }

func (r *RecycleRate) Observe(s Sample) {
	r.recycled += s.Recycled
	if s.Delta > 0 {
		r.elapsed += s.Delta
	}
}

func (r *RecycleRate) Value() float64 {
	if r.elapsed == 0 {
		return 0
	}
	return float64(r.recycled) / r.elapsed
}

func (r *RecycleRate) Total() int { return r.recycled }

func (r *RecycleRate) Reset() {
	r.recycled = 0
	r.elapsed = 0
}
