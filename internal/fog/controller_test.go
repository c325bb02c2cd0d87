package fog

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/neonscene/internal/noise"
	"github.com/san-kum/neonscene/internal/scene"
)

func TestEvaluate_FrozenLayerIsBitIdentical(t *testing.T) {
	l := DefaultLayers()[1]
	l.Speed = 0
	p := scene.Pointer{X: 0.3, Y: -0.2}
	uv := scene.Vec2{X: 0.25, Y: 0.75}

	a := Evaluate(l, 5.0, 1, 1, p, uv)
	b := Evaluate(l, 5.0, 1, 1, p, uv)
	if math.Float64bits(a.Field) != math.Float64bits(b.Field) || math.Float64bits(a.Alpha) != math.Float64bits(b.Alpha) {
		t.Errorf("expected bit-identical samples, got %+v and %+v", a, b)
	}

	later := Evaluate(l, 50.0, 1, 1, p, uv)
	if later.Field != a.Field {
		t.Errorf("speed 0 layer changed with time: %v vs %v", a.Field, later.Field)
	}
}

func TestEvaluate_Formula(t *testing.T) {
	g := NewWithT(t)
	l := Layer{BaseOpacity: 0.5, HueShift: 0.2, Warp: 0.1, Speed: 0.3, Offset: 2, Intensity: 1}
	p := scene.Pointer{X: 1, Y: -1}
	uv := scene.Vec2{X: 0.5, Y: 0.5}

	s := Evaluate(l, 10, 1, 1.5, p, uv)

	tl := 10*0.3 + 2.0
	x := 2 + 0.1 + tl*0.05
	y := 2 - 0.1 + tl*0.03
	f := noise.Warped(x, y, tl)

	g.Expect(s.Field).To(BeNumerically("~", f, 1e-12))
	g.Expect(s.Alpha).To(BeNumerically("~", f*0.5*1.5, 1e-12))
	g.Expect(s.Hue).To(BeNumerically("~", math.Mod(0.1+f*0.4+tl*0.05, 1), 1e-12))
	g.Expect(s.Color.S).To(Equal(0.8))
	g.Expect(s.Color.L).To(Equal(0.6))
}

func TestController_ClampsTunables(t *testing.T) {
	c := NewController(DefaultLayers(), 5, -1)
	if c.Intensity() != MaxIntensity {
		t.Errorf("expected intensity clamped to %v, got %v", MaxIntensity, c.Intensity())
	}
	if c.Speed() != 0 {
		t.Errorf("expected speed clamped to 0, got %v", c.Speed())
	}
	c.SetSpeed(3)
	if c.Speed() != MaxSpeed {
		t.Errorf("expected speed clamped to %v, got %v", MaxSpeed, c.Speed())
	}
}

func TestController_Step(t *testing.T) {
	g := NewWithT(t)
	c := NewController(DefaultLayers(), 1, 1)
	frames := c.Step(3.5, scene.Pointer{X: 0.5})

	g.Expect(frames).To(HaveLen(3))
	for i, f := range frames {
		g.Expect(f.Depth).To(Equal(DefaultLayers()[i].Depth))
		g.Expect(f.Center.Alpha).To(BeNumerically(">=", 0))
		g.Expect(f.Center.Alpha).To(BeNumerically("<=", DefaultLayers()[i].BaseOpacity))
		g.Expect(f.Center.Hue).To(BeNumerically(">=", 0))
		g.Expect(f.Center.Hue).To(BeNumerically("<", 1))
		g.Expect(c.Sample(i, scene.Vec2{X: 0.5, Y: 0.5})).To(Equal(f.Center))
	}
}

func TestController_ZeroIntensityIsTransparent(t *testing.T) {
	c := NewController(DefaultLayers(), 0, 1)
	for _, f := range c.Step(1, scene.Pointer{}) {
		if f.Center.Alpha != 0 {
			t.Errorf("expected zero alpha, got %v", f.Center.Alpha)
		}
	}
}

func TestController_SampleGrid(t *testing.T) {
	g := NewWithT(t)
	c := NewController(DefaultLayers(), 1, 1)
	c.Step(2, scene.Pointer{})

	buf := c.SampleGrid(nil, 8, 4)
	g.Expect(buf).To(HaveLen(32))
	for _, v := range buf {
		g.Expect(v).To(BeNumerically(">=", 0))
		g.Expect(v).To(BeNumerically("<", 0.18+0.24+0.32))
	}

	reused := c.SampleGrid(buf, 4, 4)
	g.Expect(reused).To(HaveLen(16))
	g.Expect(c.SampleGrid(buf, 0, 4)).To(BeEmpty())
}

func TestController_NilAndOutOfRange(t *testing.T) {
	var c *Controller
	if c.Step(1, scene.Pointer{}) != nil {
		t.Error("expected nil frames from nil controller")
	}
	live := NewController(DefaultLayers(), 1, 1)
	if live.Sample(9, scene.Vec2{}) != (Sample{}) {
		t.Error("expected zero sample for unknown layer")
	}
}
