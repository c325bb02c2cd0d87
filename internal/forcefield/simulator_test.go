package forcefield

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/neonscene/internal/placement"
	"github.com/san-kum/neonscene/internal/scene"
)

const frameDt = 1.0 / 60

func element(id int, x, y, z float64) scene.Element {
	return scene.Element{
		ID: id, Base: scene.Vec3{X: x, Y: y, Z: z}, Radius: 0.3,
		Hue: 300, Saturation: 80, Lightness: 50, FloatSpeed: 0.5, HueShiftSpeed: 1,
	}
}

func run(s *Simulator, frames int, p scene.Pointer, start int) {
	for i := 0; i < frames; i++ {
		f := start + i
		s.Step(scene.Tick{Elapsed: float64(f) * frameDt, Delta: frameDt}, p)
	}
}

func TestSimulator_DampsToRest(t *testing.T) {
	elems := []scene.Element{
		element(0, 3.5, 2.0, -3.0),
		element(1, -3.8, -2.2, -2.5),
		element(2, 3.2, -2.4, 0.4),
	}
	s := New(elems, DefaultParams(false))
	for i := range elems {
		s.Kick(i, scene.Vec3{X: 0.4, Y: -0.3, Z: 0.2})
	}

	run(s, 1000, scene.Pointer{}, 0)

	for i := range elems {
		if v := s.Velocity(i).Length(); v >= 1e-4 {
			t.Errorf("element %d: expected velocity < 1e-4, got %g", i, v)
		}
	}
}

func TestSimulator_PlacedLayoutSettles(t *testing.T) {
	res := placement.New(placement.DefaultParams(), rand.New(rand.NewSource(3))).
		Place(40, 4.4, 2.6, 0.18, scene.Rect{W: 2.4, H: 0.9})
	s := New(res.Elements, DefaultParams(false))

	run(s, 120, scene.Pointer{X: 0.8, Y: 0.6}, 0)
	run(s, 1000, scene.Pointer{}, 120)

	// bob amplitude stays under 0.06, so these never re-enter the field
	reach := DefaultParams(false).InfluenceRadius + 0.1
	for i, e := range res.Elements {
		if scene.Distance(e.Base, scene.Vec3{}) < reach {
			continue
		}
		if v := s.Velocity(e.ID).Length(); v >= 1e-4 {
			t.Errorf("element %d outside influence: expected velocity < 1e-4, got %g", i, v)
		}
	}
}

func TestSimulator_Repulsion(t *testing.T) {
	g := NewWithT(t)
	s := New([]scene.Element{element(0, 1.0, 0, 0)}, DefaultParams(false))

	out := s.Step(scene.Tick{Elapsed: 0, Delta: frameDt}, scene.Pointer{X: 0.4, Y: 0})

	// anchor at t=0: (1.03, 0, 0), mouse (0.8, 0, 0)
	d := 1.03 - 0.8
	want := d / d * (1.8 - d) * 0.06 * 0.88
	g.Expect(out[0].Velocity.X).To(BeNumerically("~", want, 1e-12))
	g.Expect(out[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))
	g.Expect(out[0].Position.X).To(BeNumerically("~", 1.03+want, 1e-12))
}

func TestSimulator_PointerAtCenterOfElementIsIgnored(t *testing.T) {
	e := element(0, -0.03, 0, 0)
	s := New([]scene.Element{e}, DefaultParams(false))

	// anchor at t=0 is exactly the origin, which is where the pointer maps
	out := s.Step(scene.Tick{}, scene.Pointer{})
	if out[0].Velocity != (scene.Vec3{}) {
		t.Errorf("expected no force inside epsilon, got %v", out[0].Velocity)
	}
}

func TestSimulator_Vortex(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams(false)
	p.VortexStrength = 1
	s := New([]scene.Element{element(0, 3.97, 0, -3)}, p)

	// anchor (4, 0, -3): radial (-1, 0), tangential (0, -1); pointer far away
	out := s.Step(scene.Tick{}, scene.Pointer{X: -1, Y: -1})

	k := 0.02
	l := 4 + vortexEps
	g.Expect(out[0].Velocity.X).To(BeNumerically("~", -4/l*k*0.88, 1e-12))
	g.Expect(out[0].Velocity.Y).To(BeNumerically("~", -4/l*k*0.7*0.88, 1e-12))
	g.Expect(out[0].Velocity.Z).To(Equal(0.0))
}

func TestSimulator_VortexClamp(t *testing.T) {
	s := New(nil, DefaultParams(false))
	s.SetVortexStrength(10)
	if s.VortexStrength() != MaxVortexStrength {
		t.Errorf("expected %v, got %v", MaxVortexStrength, s.VortexStrength())
	}
	s.SetVortexStrength(-1)
	if s.VortexStrength() != 0 {
		t.Errorf("expected 0, got %v", s.VortexStrength())
	}
}

func TestSimulator_HueAndSpin(t *testing.T) {
	g := NewWithT(t)
	s := New([]scene.Element{element(0, 3, 2, -3)}, DefaultParams(false))

	var out []Transform
	for i := 0; i < 10; i++ {
		out = s.Step(scene.Tick{Elapsed: 4}, scene.Pointer{X: -1, Y: -1})
	}

	g.Expect(out[0].Color.H).To(BeNumerically("~", math.Mod(300+4*1*30, 360), 1e-9))
	g.Expect(out[0].Color.S).To(BeNumerically("~", 0.8, 1e-12))
	g.Expect(out[0].Emissive.L).To(BeNumerically("~", 0.7, 1e-12))
	g.Expect(out[0].Rotation.X).To(BeNumerically("~", 0.06, 1e-12))
	g.Expect(out[0].Rotation.Y).To(BeNumerically("~", 0.1, 1e-12))
}

func TestSimulator_EmptyAndNil(t *testing.T) {
	if out := New(nil, DefaultParams(true)).Step(scene.Tick{}, scene.Pointer{}); out != nil {
		t.Errorf("expected nil output for empty simulator, got %v", out)
	}
	var s *Simulator
	if s.Step(scene.Tick{}, scene.Pointer{}) != nil || s.Len() != 0 || s.KineticEnergy() != 0 {
		t.Error("expected nil simulator to be a no-op")
	}
	if _, ok := s.Pick(scene.DefaultCamera(false, 1), scene.Pointer{}); ok {
		t.Error("expected nil simulator to pick nothing")
	}
}

func TestSimulator_Pick(t *testing.T) {
	elems := []scene.Element{
		element(0, -0.03, 0, -2),
		element(1, -0.03, 0, 0.4),
		element(2, 2.97, 1.5, -1),
	}
	s := New(elems, DefaultParams(false))
	s.Step(scene.Tick{}, scene.Pointer{X: 1, Y: -1})

	cam := scene.DefaultCamera(false, 1)
	id, ok := s.Pick(cam, scene.Pointer{})
	if !ok || id != 1 {
		t.Errorf("expected front element 1, got %d (ok=%v)", id, ok)
	}

	if _, ok := s.Pick(cam, scene.Pointer{X: -0.9, Y: -0.9}); ok {
		t.Error("expected empty corner to pick nothing")
	}
}
