// Package particles drifts a fixed pool of dust particles toward the viewer
// and recycles each one to the far end of the stream once it passes the
// near threshold.
package particles

import (
	"math"
	"math/rand"

	"github.com/san-kum/neonscene/internal/scene"
)

type Params struct {
	Count    int
	SpreadX  float64
	SpreadY  float64
	SpawnZ   scene.Range // initial depth
	RespawnZ scene.Range // depth after recycling
	RecycleZ float64     // particles past this depth are recycled
	Speed    scene.Range
	DriftY   float64
	SwayAmp  float64
	SwayRate float64
}

func DefaultParams(compact bool) Params {
	p := Params{
		Count:    180,
		SpreadX:  8,
		SpreadY:  5,
		SpawnZ:   scene.Range{Min: -8, Max: -3},
		RespawnZ: scene.Range{Min: -12, Max: -8},
		RecycleZ: -2.5,
		Speed:    scene.Range{Min: 0.6, Max: 2.0},
		DriftY:   0.08,
		SwayAmp:  0.03,
		SwayRate: 1.1,
	}
	if compact {
		p.Count = 90
	}
	return p
}

// Streamer is a fixed-capacity recycling pool. Slot identity is permanent;
// nothing is allocated after NewStreamer.
type Streamer struct {
	params    Params
	rng       *rand.Rand
	positions []scene.Vec3
	speeds    []float64
	phases    []float64
	recycled  int
}

func NewStreamer(p Params, rng *rand.Rand) *Streamer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	n := max(p.Count, 0)
	s := &Streamer{
		params:    p,
		rng:       rng,
		positions: make([]scene.Vec3, n),
		speeds:    make([]float64, n),
		phases:    make([]float64, n),
	}
	for i := range s.positions {
		s.positions[i] = scene.Vec3{
			X: (rng.Float64() - 0.5) * p.SpreadX,
			Y: (rng.Float64() - 0.5) * p.SpreadY,
			Z: p.SpawnZ.Lerp(rng.Float64()),
		}
		s.speeds[i] = p.Speed.Lerp(rng.Float64())
		s.phases[i] = float64(i) * 2.399963 // golden angle spreads sway phases
	}
	return s
}

func (s *Streamer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.positions)
}

// Bounds is the depth interval every particle occupies after a Step.
func (s *Streamer) Bounds() scene.Range {
	if s == nil {
		return scene.Range{}
	}
	lo := math.Min(s.params.RespawnZ.Min, s.params.SpawnZ.Min)
	return scene.Range{Min: lo, Max: s.params.RecycleZ}
}

// Recycled reports how many slots were reset during the last Step.
func (s *Streamer) Recycled() int {
	if s == nil {
		return 0
	}
	return s.recycled
}

// Speed is the depth velocity of particle i, or 0 when i is out of range.
func (s *Streamer) Speed(i int) float64 {
	if s == nil || i < 0 || i >= len(s.speeds) {
		return 0
	}
	return s.speeds[i]
}

// Step advances every particle by dt. The returned slice is the pool itself.
func (s *Streamer) Step(t, dt float64) []scene.Vec3 {
	if s == nil || len(s.positions) == 0 {
		return nil
	}
	if dt < 0 || dt != dt {
		dt = 0
	}
	p := &s.params
	s.recycled = 0
	for i := range s.positions {
		pos := &s.positions[i]
		pos.Z += s.speeds[i] * dt
		pos.Y += (p.DriftY + p.SwayAmp*math.Sin(t*p.SwayRate+s.phases[i])) * dt

		if pos.Z > p.RecycleZ {
			pos.X = (s.rng.Float64() - 0.5) * p.SpreadX
			pos.Y = (s.rng.Float64() - 0.5) * p.SpreadY
			pos.Z = p.RespawnZ.Lerp(s.rng.Float64())
			s.speeds[i] = p.Speed.Lerp(s.rng.Float64())
			s.recycled++
		}
	}
	return s.positions
}
