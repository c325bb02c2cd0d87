// Package scene provides the shared primitives of the background scene.
//
// Every component of the scene exchanges values through the types defined
// here:
//
//   - [Vec2], [Vec3]: plain value vectors
//   - [Pointer]: normalized pointer position in [-1,1]x[-1,1]
//   - [Element]: one placed sphere and its immutable color parameters
//   - [Rect]: origin-centered exclusion rectangle
//   - [Tick]: elapsed and delta time for one frame
//   - [HSL]: hue/saturation/lightness color with hex conversion
//
// # Example
//
//	res := placement.New(placement.DefaultParams(), rng).Place(40, 4.4, 2.6, 0.18, scene.Rect{W: 2.4, H: 0.9})
//	sim := forcefield.New(res.Elements, forcefield.DefaultParams(false))
//	out := sim.Step(scene.Tick{Elapsed: 1, Delta: 1.0 / 60}, scene.Pointer{})
//
// # Thread Safety
//
// Values are immutable once built. Components that own mutable state are
// NOT safe for concurrent Step calls; the frame loop is the single caller.
package scene
