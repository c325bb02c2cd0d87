// Package streaks flickers a handful of thin additive light streaks inside
// the fog band.
package streaks

import (
	"math"
	"math/rand"

	"github.com/san-kum/neonscene/internal/scene"
)

const (
	DefaultCount = 10
	Width        = 0.06
	Color        = "#9afcff"
)

type Params struct {
	Count     int
	SpreadX   float64
	SpreadY   float64
	Depth     scene.Range
	Length    scene.Range
	MaxTilt   float64
	TimeScale float64
	Gain      float64
	Cutoff    float64
	Jitter    float64
	Opacity   float64
}

func DefaultParams() Params {
	return Params{
		Count:     DefaultCount,
		SpreadX:   5,
		SpreadY:   3,
		Depth:     scene.Range{Min: -2.1, Max: -1.4},
		Length:    scene.Range{Min: 0.8, Max: 2.0},
		MaxTilt:   0.2,
		TimeScale: 2.5,
		Gain:      1.3,
		Cutoff:    0.3,
		Jitter:    0.1,
		Opacity:   0.9,
	}
}

// Streak is the fixed layout of one streak plus its per-frame output.
type Streak struct {
	Position scene.Vec3 `json:"position"`
	Tilt     float64    `json:"tilt"`
	Length   float64    `json:"length"`
	Phase    float64    `json:"-"`
	Flicker  float64    `json:"flicker"`
	Opacity  float64    `json:"opacity"`
	ScaleY   float64    `json:"scaleY"`
}

type Field struct {
	params  Params
	rng     *rand.Rand
	streaks []Streak
}

func New(p Params, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Field{params: p, rng: rng, streaks: make([]Streak, max(p.Count, 0))}
	for i := range f.streaks {
		f.streaks[i] = Streak{
			Position: scene.Vec3{
				X: (rng.Float64() - 0.5) * p.SpreadX,
				Y: (rng.Float64() - 0.5) * p.SpreadY,
				Z: p.Depth.Lerp(rng.Float64()),
			},
			Phase:  rng.Float64() * 2 * math.Pi,
			Length: p.Length.Lerp(rng.Float64()),
			Tilt:   (rng.Float64()*2 - 1) * p.MaxTilt,
		}
	}
	return f
}

func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.streaks)
}

// Flicker is the noiseless flicker envelope at elapsed time t.
func (f *Field) Flicker(t, phase float64) float64 {
	return math.Max(0, math.Sin(t*f.params.TimeScale+phase)*f.params.Gain-f.params.Cutoff)
}

// Step recomputes flicker for every streak. The returned slice is reused.
func (f *Field) Step(t float64) []Streak {
	if f == nil || len(f.streaks) == 0 {
		return nil
	}
	for i := range f.streaks {
		s := &f.streaks[i]
		s.Flicker = f.Flicker(t, s.Phase) + f.rng.Float64()*f.params.Jitter
		s.Opacity = s.Flicker * f.params.Opacity
		s.ScaleY = s.Length * (0.4 + 0.6*s.Flicker)
	}
	return f.streaks
}
