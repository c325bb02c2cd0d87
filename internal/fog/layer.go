// Package fog drives the translucent noise layers behind the scene.
package fog

import (
	"math"

	"github.com/san-kum/neonscene/internal/noise"
	"github.com/san-kum/neonscene/internal/scene"
)

const (
	// sample coordinates span uv*4 across a layer
	uvScale = 4.0

	driftX   = 0.05
	driftY   = 0.03
	hueDrift = 0.05
	fieldSat = 0.8
	fieldLum = 0.6
	centerUV = 0.5

	MaxIntensity = 1.8
	MaxSpeed     = 2.0
)

// Layer is an immutable noise layer description.
type Layer struct {
	Depth       float64    `yaml:"depth" json:"depth"`
	Scale       scene.Vec3 `yaml:"scale" json:"scale"`
	BaseOpacity float64    `yaml:"base_opacity" json:"base_opacity"`
	HueShift    float64    `yaml:"hue_shift" json:"hue_shift"`
	Warp        float64    `yaml:"warp" json:"warp"`
	Speed       float64    `yaml:"speed" json:"speed"`
	Offset      float64    `yaml:"offset" json:"offset"`
	Intensity   float64    `yaml:"intensity" json:"intensity"`
}

// DefaultLayers returns the back, middle and front layers.
func DefaultLayers() []Layer {
	return []Layer{
		{Depth: -2.0, Scale: scene.Vec3{X: 15, Y: 10, Z: 1}, BaseOpacity: 0.18, HueShift: 0.15, Warp: 0.08, Speed: 0.2, Offset: 0, Intensity: 1},
		{Depth: -1.6, Scale: scene.Vec3{X: 14, Y: 10, Z: 1}, BaseOpacity: 0.24, HueShift: 0.25, Warp: 0.18, Speed: 0.28, Offset: 7.3, Intensity: 1},
		{Depth: -1.2, Scale: scene.Vec3{X: 16, Y: 12, Z: 1}, BaseOpacity: 0.32, HueShift: 0.35, Warp: 0.3, Speed: 0.35, Offset: 13.1, Intensity: 1},
	}
}

// Uniforms are the per-frame inputs a rasterizer needs to evaluate the layer.
type Uniforms struct {
	Time  float64    `json:"time"`
	Warp  scene.Vec2 `json:"warp"`
	Drift scene.Vec2 `json:"drift"`
}

// Sample is the field evaluated at one coordinate.
type Sample struct {
	Field float64   `json:"field"`
	Alpha float64   `json:"alpha"`
	Hue   float64   `json:"hue"` // [0,1)
	Color scene.HSL `json:"color"`
}

// uniforms computes the advected layer time and sample offsets.
func (l Layer) uniforms(t, speedMul float64, p scene.Pointer) Uniforms {
	tl := t*l.Speed*speedMul + l.Offset
	return Uniforms{
		Time:  tl,
		Warp:  scene.Vec2{X: p.X * l.Warp, Y: p.Y * l.Warp},
		Drift: scene.Vec2{X: tl * driftX, Y: tl * driftY},
	}
}

// sample evaluates the layer at uv in [0,1]^2 for precomputed uniforms.
func (l Layer) sample(u Uniforms, uv scene.Vec2, intensity float64) Sample {
	x := uv.X*uvScale + u.Warp.X + u.Drift.X
	y := uv.Y*uvScale + u.Warp.Y + u.Drift.Y
	f := noise.Warped(x, y, u.Time)

	hue := math.Mod(l.HueShift*0.5+f*0.4+u.Time*hueDrift, 1)
	if hue < 0 {
		hue++
	}
	return Sample{
		Field: f,
		Alpha: f * l.BaseOpacity * l.Intensity * intensity,
		Hue:   hue,
		Color: scene.HSL{H: hue * 360, S: fieldSat, L: fieldLum},
	}
}
