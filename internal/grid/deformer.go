// Package grid bends a wireframe plane toward the pointer.
package grid

import (
	"math"

	"github.com/san-kum/neonscene/internal/scene"
)

type Params struct {
	Width, Height float64
	SegmentsX     int
	SegmentsY     int
	Depth         float64
	TargetScale   scene.Vec2
	BendRadius    float64
	MaxOffset     float64
	WaveAmplitude float64
	WaveRate      float64
	WaveFrequency float64
	BaseTilt      float64
	TiltX, TiltY  float64
}

func DefaultParams(compact bool) Params {
	p := Params{
		Width: 6, Height: 3.2,
		SegmentsX: 40, SegmentsY: 20,
		Depth:         -0.7,
		TargetScale:   scene.Vec2{X: 3, Y: 1.6},
		BendRadius:    2.4,
		MaxOffset:     0.4,
		WaveAmplitude: 0.06,
		WaveRate:      1.3,
		WaveFrequency: 2.0,
		BaseTilt:      -0.35,
		TiltX:         0.08,
		TiltY:         0.12,
	}
	if compact {
		p.SegmentsX, p.SegmentsY = 20, 10
		p.BendRadius = 2.0
		p.MaxOffset = 0.25
	}
	return p
}

// Frame is the deformed mesh for one frame. Vertices aliases the
// deformer's live buffer and is overwritten by the next Step.
type Frame struct {
	Vertices []scene.Vec3 `json:"vertices"`
	Rotation scene.Vec2   `json:"rotation"`
	Position scene.Vec3   `json:"position"`
}

// Deformer caches the flat mesh once and writes displaced copies into a
// live buffer each frame.
type Deformer struct {
	params Params
	cols   int
	base   []scene.Vec3
	live   []scene.Vec3
}

// NewDeformer builds a plane of (SegmentsX+1)*(SegmentsY+1) vertices in
// row-major order, top row first, centered on the origin in local space.
func NewDeformer(p Params) *Deformer {
	sx, sy := max(p.SegmentsX, 0), max(p.SegmentsY, 0)
	d := &Deformer{params: p}
	if sx == 0 || sy == 0 {
		return d
	}
	d.cols = sx + 1
	d.base = make([]scene.Vec3, 0, (sx+1)*(sy+1))
	for iy := 0; iy <= sy; iy++ {
		y := p.Height/2 - float64(iy)*p.Height/float64(sy)
		for ix := 0; ix <= sx; ix++ {
			x := -p.Width/2 + float64(ix)*p.Width/float64(sx)
			d.base = append(d.base, scene.Vec3{X: x, Y: y})
		}
	}
	d.live = make([]scene.Vec3, len(d.base))
	copy(d.live, d.base)
	return d
}

func (d *Deformer) Columns() int { return d.cols }

// Base returns a copy of the cached flat mesh.
func (d *Deformer) Base() []scene.Vec3 {
	if d == nil {
		return nil
	}
	return append([]scene.Vec3(nil), d.base...)
}

// Step displaces every vertex along z by the pointer influence and a
// traveling wave scaled by the same influence.
func (d *Deformer) Step(t float64, p scene.Pointer) Frame {
	if d == nil || len(d.base) == 0 {
		return Frame{}
	}
	pp := &d.params
	target := scene.Vec2{X: p.X * pp.TargetScale.X, Y: p.Y * pp.TargetScale.Y}

	for i, b := range d.base {
		influence := Influence(b.XY(), target, pp.BendRadius)
		wave := math.Sin(t*pp.WaveRate+(b.X+b.Y)*pp.WaveFrequency) * pp.WaveAmplitude * influence
		d.live[i] = scene.Vec3{X: b.X, Y: b.Y, Z: b.Z + influence*pp.MaxOffset + wave}
	}

	return Frame{
		Vertices: d.live,
		Rotation: scene.Vec2{X: pp.BaseTilt + p.Y*pp.TiltX, Y: p.X * pp.TiltY},
		Position: scene.Vec3{Z: pp.Depth},
	}
}

// Influence is the linear falloff max(0, 1 - |v-target|/radius).
func Influence(v, target scene.Vec2, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Max(0, 1-v.Sub(target).Length()/radius)
}
