package engine

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/san-kum/neonscene/internal/fog"
	"github.com/san-kum/neonscene/internal/forcefield"
	"github.com/san-kum/neonscene/internal/grid"
	"github.com/san-kum/neonscene/internal/label"
	"github.com/san-kum/neonscene/internal/scene"
	"github.com/san-kum/neonscene/internal/streaks"
)

// Stats are the scalar summaries computed alongside each frame.
type Stats struct {
	KineticEnergy float64 `json:"kineticEnergy"`
	FogAlpha      float64 `json:"fogAlpha"`
	Recycled      int     `json:"recycled"`
}

// Frame is everything a rasterizer needs to draw one tick.
type Frame struct {
	Index     uint64                 `json:"index"`
	Time      float64                `json:"time"`
	Delta     float64                `json:"delta"`
	Pointer   scene.Pointer          `json:"pointer"`
	Elements  []forcefield.Transform `json:"elements"`
	Fog       []fog.Frame            `json:"fog"`
	Grid      grid.Frame             `json:"grid"`
	Particles []scene.Vec3           `json:"particles"`
	Streaks   []streaks.Streak       `json:"streaks"`
	Label     label.State            `json:"label"`
	Stats     Stats                  `json:"stats"`
}

// Clone deep-copies every buffer the frame shares with its scene.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	c.Elements = append([]forcefield.Transform(nil), f.Elements...)
	c.Fog = append([]fog.Frame(nil), f.Fog...)
	c.Grid.Vertices = append([]scene.Vec3(nil), f.Grid.Vertices...)
	c.Particles = append([]scene.Vec3(nil), f.Particles...)
	c.Streaks = append([]streaks.Streak(nil), f.Streaks...)
	return &c
}

// Digest hashes the frame's geometry and colors. Two scenes built from the
// same seed and driven by the same ticks and pointer produce equal digests.
func (f *Frame) Digest() uint64 {
	if f == nil {
		return 0
	}
	h := digester{d: xxhash.New()}
	h.float(f.Time)
	h.float(f.Pointer.X, f.Pointer.Y)
	for _, e := range f.Elements {
		h.vec(e.Position)
		h.vec(e.Rotation)
		h.float(e.Radius, e.Color.H, e.Color.S, e.Color.L)
	}
	for _, l := range f.Fog {
		h.float(l.Uniforms.Time, l.Center.Alpha, l.Center.Hue)
	}
	for _, v := range f.Grid.Vertices {
		h.vec(v)
	}
	h.float(f.Grid.Rotation.X, f.Grid.Rotation.Y)
	for _, p := range f.Particles {
		h.vec(p)
	}
	for _, s := range f.Streaks {
		h.float(s.Opacity, s.ScaleY)
	}
	h.float(f.Label.GlowWidth, f.Label.GlowOpacity, f.Label.Hue, f.Label.Rotation.X, f.Label.Rotation.Y)
	return h.d.Sum64()
}

type digester struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *digester) float(vs ...float64) {
	for _, v := range vs {
		binary.LittleEndian.PutUint64(h.buf[:], math.Float64bits(v))
		_, _ = h.d.Write(h.buf[:])
	}
}

func (h *digester) vec(v scene.Vec3) { h.float(v.X, v.Y, v.Z) }
