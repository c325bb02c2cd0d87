// Package placement lays out scene elements by bounded rejection sampling.
package placement

import (
	"math/rand"

	"github.com/san-kum/neonscene/internal/scene"
)

const (
	DefaultMaxAttempts      = 9000
	DefaultExclusionRetries = 40
	DefaultMarginFactor     = 1.2
)

// DefaultHueBands are disjoint hue ranges in degrees: violet, indigo, azure, teal.
var DefaultHueBands = []scene.Range{
	{Min: 280, Max: 320},
	{Min: 250, Max: 280},
	{Min: 200, Max: 230},
	{Min: 170, Max: 195},
}

// Params tunes the sampler. Bounds, count and exclusion area are passed to
// Place per call.
type Params struct {
	MaxAttempts      int
	ExclusionRetries int
	MarginFactor     float64
	Radius           scene.Range
	ForegroundDepth  scene.Range
	BackgroundDepth  scene.Range
	HueBands         []scene.Range
	Saturation       scene.Range
	Lightness        scene.Range
	FloatSpeed       scene.Range
	HueShiftSpeed    scene.Range
}

func DefaultParams() Params {
	return Params{
		MaxAttempts:      DefaultMaxAttempts,
		ExclusionRetries: DefaultExclusionRetries,
		MarginFactor:     DefaultMarginFactor,
		Radius:           scene.Range{Min: 0.22, Max: 0.54},
		ForegroundDepth:  scene.Range{Min: 0.4, Max: 0.4},
		BackgroundDepth:  scene.Range{Min: -3.6, Max: -1.4},
		HueBands:         DefaultHueBands,
		Saturation:       scene.Range{Min: 70, Max: 95},
		Lightness:        scene.Range{Min: 45, Max: 70},
		FloatSpeed:       scene.Range{Min: 0.4, Max: 0.8},
		HueShiftSpeed:    scene.Range{Min: 0.4, Max: 1.2},
	}
}

// Result is a finished layout. Running out of attempts is not an error:
// Elements may hold fewer than Requested.
type Result struct {
	Elements  []scene.Element
	Requested int
	Attempts  int
}

// Shortfall is the number of requested elements that could not be placed.
func (r Result) Shortfall() int {
	if d := r.Requested - len(r.Elements); d > 0 {
		return d
	}
	return 0
}

type Placer struct {
	params Params
	rng    *rand.Rand
}

func New(p Params, rng *rand.Rand) *Placer {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.ExclusionRetries < 0 {
		p.ExclusionRetries = 0
	}
	if p.MarginFactor <= 0 {
		p.MarginFactor = DefaultMarginFactor
	}
	if len(p.HueBands) == 0 {
		p.HueBands = DefaultHueBands
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Placer{params: p, rng: rng}
}

// Place samples up to n elements with x in [-boundsX/2, boundsX/2] and y in
// [-boundsY/2, boundsY/2]. Foreground candidates must clear the exclusion
// rectangle grown by their radius; every accepted pair keeps a distance of
// at least (r_i+r_j) times the margin factor.
func (p *Placer) Place(n int, boundsX, boundsY, foregroundProbability float64, exclusion scene.Rect) Result {
	res := Result{Requested: max(n, 0), Elements: make([]scene.Element, 0, max(n, 0))}
	if n <= 0 {
		return res
	}

	for len(res.Elements) < n && res.Attempts < p.params.MaxAttempts {
		res.Attempts++

		radius := p.params.Radius.Lerp(p.rng.Float64())
		front := p.rng.Float64() < foregroundProbability
		x, y := p.sampleXY(boundsX, boundsY)

		var z float64
		if front {
			z = p.params.ForegroundDepth.Lerp(p.rng.Float64())
			for guard := 0; exclusion.Blocks(x, y, radius) && guard < p.params.ExclusionRetries; guard++ {
				x, y = p.sampleXY(boundsX, boundsY)
			}
			if exclusion.Blocks(x, y, radius) {
				continue
			}
		} else {
			z = p.params.BackgroundDepth.Lerp(p.rng.Float64())
		}

		pos := scene.Vec3{X: x, Y: y, Z: z}
		if !p.clear(res.Elements, pos, radius) {
			continue
		}

		res.Elements = append(res.Elements, p.paint(len(res.Elements), pos, radius, front))
	}
	return res
}

func (p *Placer) sampleXY(boundsX, boundsY float64) (float64, float64) {
	return (p.rng.Float64() - 0.5) * boundsX, (p.rng.Float64() - 0.5) * boundsY
}

func (p *Placer) clear(accepted []scene.Element, pos scene.Vec3, radius float64) bool {
	for _, e := range accepted {
		if scene.Distance(e.Base, pos) < (e.Radius+radius)*p.params.MarginFactor {
			return false
		}
	}
	return true
}

func (p *Placer) paint(id int, pos scene.Vec3, radius float64, front bool) scene.Element {
	band := p.params.HueBands[p.rng.Intn(len(p.params.HueBands))]
	e := scene.Element{
		ID:            id,
		Band:          scene.Background,
		Base:          pos,
		Radius:        radius,
		HueRange:      band,
		Hue:           band.Lerp(p.rng.Float64()),
		Saturation:    p.params.Saturation.Lerp(p.rng.Float64()),
		Lightness:     p.params.Lightness.Lerp(p.rng.Float64()),
		FloatSpeed:    p.params.FloatSpeed.Lerp(p.rng.Float64()),
		HueShiftSpeed: p.params.HueShiftSpeed.Lerp(p.rng.Float64()),
	}
	if front {
		e.Band = scene.Foreground
	}
	return e
}

// Verify reports the first pair or exclusion violation in a layout, or
// ok=true when the layout is consistent.
func Verify(elems []scene.Element, margin float64, exclusion scene.Rect) (i, j int, ok bool) {
	for a := range elems {
		if elems[a].Band == scene.Foreground && exclusion.Blocks(elems[a].Base.X, elems[a].Base.Y, elems[a].Radius) {
			return a, a, false
		}
		for b := a + 1; b < len(elems); b++ {
			if scene.Distance(elems[a].Base, elems[b].Base) < (elems[a].Radius+elems[b].Radius)*margin {
				return a, b, false
			}
		}
	}
	return -1, -1, true
}
