package forcefield

import "github.com/san-kum/neonscene/internal/scene"

// Pick returns the ID of the nearest element whose projected disc contains
// the pointer, using the transforms of the last Step.
func (s *Simulator) Pick(cam scene.Camera, p scene.Pointer) (int, bool) {
	if s == nil {
		return -1, false
	}
	best, bestZ := -1, 0.0
	for _, tr := range s.out {
		if tr.Radius <= 0 {
			continue
		}
		ndc, scale, ok := cam.Project(tr.Position)
		if !ok {
			continue
		}
		r := tr.Radius * scale
		dx := (p.X - ndc.X) * cam.Aspect
		dy := p.Y - ndc.Y
		if dx*dx+dy*dy > r*r {
			continue
		}
		if best < 0 || tr.Position.Z > bestZ {
			best, bestZ = tr.ID, tr.Position.Z
		}
	}
	return best, best >= 0
}
