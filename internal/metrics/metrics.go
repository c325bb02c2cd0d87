// Package metrics accumulates per-frame scene statistics.
package metrics

// Sample is what every metric sees once per frame.
type Sample struct {
	Time          float64
	Delta         float64
	KineticEnergy float64
	FogAlpha      float64 // mean center alpha across fog layers
	Recycled      int     // particle slots reset this frame
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns the metrics a scene carries by default.
func Standard() []Metric {
	return []Metric{
		NewKineticEnergy(120),
		NewFogAlpha(),
		NewRecycleRate(),
		NewSettle(1e-6),
	}
}

// Snapshot collects metric values by name.
func Snapshot(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
