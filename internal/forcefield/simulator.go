package forcefield

import (
	"math"

	"github.com/san-kum/neonscene/internal/scene"
)

// Transform is one element's output for a frame.
type Transform struct {
	ID       int        `json:"id"`
	Position scene.Vec3 `json:"position"`
	Rotation scene.Vec3 `json:"rotation"`
	Velocity scene.Vec3 `json:"velocity"`
	Radius   float64    `json:"radius"`
	Color    scene.HSL  `json:"color"`
	Emissive scene.HSL  `json:"emissive"`
}

// Simulator owns the per-element motion state, addressed by element ID.
type Simulator struct {
	params   Params
	elements []scene.Element
	velocity []scene.Vec3
	rotation []scene.Vec3
	out      []Transform
}

func New(elements []scene.Element, p Params) *Simulator {
	n := len(elements)
	s := &Simulator{
		params:   p,
		elements: append([]scene.Element(nil), elements...),
		velocity: make([]scene.Vec3, n),
		rotation: make([]scene.Vec3, n),
		out:      make([]Transform, n),
	}
	s.SetVortexStrength(p.VortexStrength)
	return s
}

func (s *Simulator) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elements)
}

func (s *Simulator) Elements() []scene.Element { return s.elements }

func (s *Simulator) VortexStrength() float64 { return s.params.VortexStrength }

// SetVortexStrength clamps to [0, 3].
func (s *Simulator) SetVortexStrength(v float64) {
	if v != v || v < 0 {
		v = 0
	}
	s.params.VortexStrength = math.Min(v, MaxVortexStrength)
}

// Velocity returns the persistent velocity of element id.
func (s *Simulator) Velocity(id int) scene.Vec3 {
	if s == nil || id < 0 || id >= len(s.velocity) {
		return scene.Vec3{}
	}
	return s.velocity[id]
}

// Kick adds dv to the velocity of element id.
func (s *Simulator) Kick(id int, dv scene.Vec3) {
	if s != nil && id >= 0 && id < len(s.velocity) {
		s.velocity[id] = s.velocity[id].Add(dv)
	}
}

// KineticEnergy is the sum of squared velocity magnitudes.
func (s *Simulator) KineticEnergy() float64 {
	if s == nil {
		return 0
	}
	e := 0.0
	for _, v := range s.velocity {
		e += v.X*v.X + v.Y*v.Y + v.Z*v.Z
	}
	return e
}

// Step advances every element by one frame. The returned slice is reused.
func (s *Simulator) Step(tick scene.Tick, p scene.Pointer) []Transform {
	if s == nil || len(s.elements) == 0 {
		return nil
	}
	mouse := scene.Vec3{X: p.X * s.params.PointerScale.X, Y: p.Y * s.params.PointerScale.Y}
	scene.ParallelFor(len(s.elements), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s.out[i] = s.advance(i, tick.Elapsed, mouse)
		}
	})
	return s.out
}

// Anchor is the idle-oscillation position of element i at time t.
func (s *Simulator) Anchor(i int, t float64) scene.Vec3 {
	e := &s.elements[i]
	return scene.Vec3{
		X: e.Base.X + math.Cos(t*e.FloatSpeed*s.params.BobXRate)*s.params.BobX,
		Y: e.Base.Y + math.Sin(t*e.FloatSpeed)*s.params.BobY,
		Z: e.Base.Z,
	}
}

func (s *Simulator) advance(i int, t float64, mouse scene.Vec3) Transform {
	e := &s.elements[i]
	p := &s.params
	v := s.velocity[i]
	base := s.Anchor(i, t)

	d := base.Sub(mouse)
	if dist := d.Length(); dist < p.InfluenceRadius && dist > epsilon {
		v = v.Add(d.Scale((p.InfluenceRadius - dist) * p.Strength / dist))
	}

	if p.VortexStrength > 0 {
		rx, ry := -base.X, -base.Y
		l := math.Hypot(rx, ry) + vortexEps
		rx, ry = rx/l, ry/l
		tx, ty := -ry, rx
		k := p.VortexStrength * p.VortexScale
		v.X += rx*k + tx*k*p.VortexTangential
		v.Y += ry*k + ty*k*p.VortexTangential
	}

	v = v.Scale(p.Damping)
	s.velocity[i] = v

	rot := s.rotation[i].Add(p.Spin)
	s.rotation[i] = rot

	hue := scene.WrapHue(e.Hue + t*e.HueShiftSpeed*p.HueRate)
	sat, lum := e.Saturation/100, e.Lightness/100
	return Transform{
		ID:       e.ID,
		Position: base.Add(v),
		Rotation: rot,
		Velocity: v,
		Radius:   e.Radius,
		Color:    scene.HSL{H: hue, S: sat, L: lum},
		Emissive: scene.HSL{H: hue, S: sat, L: math.Min(lum+p.EmissiveLift, 1)},
	}
}
