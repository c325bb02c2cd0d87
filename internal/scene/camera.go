package scene

import "math"

// Camera is a perspective camera on the +z axis looking at the origin.
type Camera struct {
	Z      float64 // distance from the origin
	FOV    float64 // vertical field of view, degrees
	Aspect float64 // width / height
}

// DefaultCamera matches the desktop (fov 50) or compact (fov 55) framing.
func DefaultCamera(compact bool, aspect float64) Camera {
	fov := 50.0
	if compact {
		fov = 55
	}
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	return Camera{Z: 5, FOV: fov, Aspect: aspect}
}

// Project maps a world point to normalized device coordinates in the same
// convention as Pointer. scale converts a world length at that depth into
// NDC y-units. ok is false behind the camera.
func (c Camera) Project(p Vec3) (ndc Vec2, scale float64, ok bool) {
	d := c.Z - p.Z
	if d <= 1e-6 {
		return Vec2{}, 0, false
	}
	h := d * math.Tan(c.FOV*math.Pi/360)
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return Vec2{X: p.X / (h * aspect), Y: p.Y / h}, 1 / h, true
}
