package grid

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/neonscene/internal/scene"
)

func TestNewDeformer_Layout(t *testing.T) {
	tests := []struct {
		name    string
		compact bool
		count   int
	}{
		{"desktop", false, 41 * 21},
		{"compact", true, 21 * 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeformer(DefaultParams(tt.compact))
			base := d.Base()
			if len(base) != tt.count {
				t.Fatalf("expected %d vertices, got %d", tt.count, len(base))
			}
			if base[0] != (scene.Vec3{X: -3, Y: 1.6}) {
				t.Errorf("expected top-left first, got %v", base[0])
			}
			last := base[len(base)-1]
			if math.Abs(last.X-3) > 1e-12 || math.Abs(last.Y+1.6) > 1e-12 {
				t.Errorf("expected bottom-right last, got %v", last)
			}
		})
	}
}

func TestDeformer_StepKeepsBase(t *testing.T) {
	g := NewWithT(t)
	d := NewDeformer(DefaultParams(false))
	before := d.Base()

	for i := 0; i < 30; i++ {
		d.Step(float64(i)/60, scene.Pointer{X: 0.3, Y: -0.4})
	}

	g.Expect(d.Base()).To(Equal(before))
}

func TestDeformer_Displacement(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams(false)
	d := NewDeformer(p)

	const tm = 2.5
	ptr := scene.Pointer{X: 0.2, Y: 0.5}
	f := d.Step(tm, ptr)
	target := scene.Vec2{X: 0.6, Y: 0.8}

	g.Expect(f.Vertices).To(HaveLen(len(d.Base())))
	for i, b := range d.Base() {
		inf := math.Max(0, 1-math.Hypot(b.X-target.X, b.Y-target.Y)/p.BendRadius)
		want := inf*p.MaxOffset + math.Sin(tm*1.3+(b.X+b.Y)*2)*0.06*inf
		g.Expect(f.Vertices[i].X).To(Equal(b.X))
		g.Expect(f.Vertices[i].Y).To(Equal(b.Y))
		g.Expect(f.Vertices[i].Z).To(BeNumerically("~", want, 1e-12))
		g.Expect(f.Vertices[i].Z).To(BeNumerically("<=", p.MaxOffset+p.WaveAmplitude))
	}
	g.Expect(f.Rotation.X).To(BeNumerically("~", -0.35+0.5*0.08, 1e-12))
	g.Expect(f.Rotation.Y).To(BeNumerically("~", 0.2*0.12, 1e-12))
	g.Expect(f.Position.Z).To(Equal(-0.7))
}

func TestDeformer_FarVerticesStayFlat(t *testing.T) {
	d := NewDeformer(DefaultParams(false))
	f := d.Step(1, scene.Pointer{X: 1, Y: 1})

	// target (3, 1.6): the bottom-left corner is farther than the bend radius
	corner := f.Vertices[len(f.Vertices)-d.Columns()]
	if corner.Z != 0 {
		t.Errorf("expected flat far corner, got z=%v", corner.Z)
	}
}

func TestInfluence(t *testing.T) {
	tests := []struct {
		v, target scene.Vec2
		radius    float64
		want      float64
	}{
		{scene.Vec2{}, scene.Vec2{}, 2, 1},
		{scene.Vec2{X: 1}, scene.Vec2{}, 2, 0.5},
		{scene.Vec2{X: 3}, scene.Vec2{}, 2, 0},
		{scene.Vec2{}, scene.Vec2{}, 0, 0},
	}
	for _, tt := range tests {
		if got := Influence(tt.v, tt.target, tt.radius); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Influence(%v, %v, %v) = %v, want %v", tt.v, tt.target, tt.radius, got, tt.want)
		}
	}
}

func TestDeformer_EmptyMesh(t *testing.T) {
	p := DefaultParams(false)
	p.SegmentsX = 0
	d := NewDeformer(p)
	if f := d.Step(1, scene.Pointer{}); f.Vertices != nil {
		t.Errorf("expected empty frame, got %d vertices", len(f.Vertices))
	}
	var nilDeformer *Deformer
	if f := nilDeformer.Step(1, scene.Pointer{}); f.Vertices != nil {
		t.Error("expected nil deformer to be a no-op")
	}
}
