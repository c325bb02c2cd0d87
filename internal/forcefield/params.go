package forcefield

import "github.com/san-kum/neonscene/internal/scene"

const (
	MaxVortexStrength = 3.0

	epsilon   = 0.001
	vortexEps = 0.0001
	minChunk  = 32
)

type Params struct {
	// PointerScale maps the normalized pointer into element space.
	PointerScale    scene.Vec2
	InfluenceRadius float64
	Strength        float64

	VortexStrength   float64
	VortexScale      float64
	VortexTangential float64

	Damping float64

	BobX, BobY float64
	BobXRate   float64

	Spin scene.Vec3

	HueRate      float64
	EmissiveLift float64
}

// DefaultParams returns the desktop tuning, or the compact tuning for small
// viewports.
func DefaultParams(compact bool) Params {
	p := Params{
		PointerScale:     scene.Vec2{X: 2.0, Y: 1.5},
		InfluenceRadius:  1.8,
		Strength:         0.06,
		VortexStrength:   0,
		VortexScale:      0.02,
		VortexTangential: 0.7,
		Damping:          0.88,
		BobX:             0.03,
		BobY:             0.05,
		BobXRate:         0.6,
		Spin:             scene.Vec3{X: 0.006, Y: 0.01},
		HueRate:          30,
		EmissiveLift:     0.2,
	}
	if compact {
		p.InfluenceRadius = 1.4
		p.Strength = 0.045
		p.BobXRate = 0.5
	}
	return p
}
