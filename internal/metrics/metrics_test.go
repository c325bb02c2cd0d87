package metrics

import (
	"math"
	"testing"
)

func TestKineticEnergy_Window(t *testing.T) {
	m := NewKineticEnergy(3)
	for i := 1; i <= 5; i++ {
		m.Observe(Sample{KineticEnergy: float64(i)})
	}
	hist := m.History()
	want := []float64{3, 4, 5}
	if len(hist) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(hist))
	}
	for i := range want {
		if hist[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], hist[i])
		}
	}
	if m.Value() != 5 || m.Peak() != 5 {
		t.Errorf("expected last and peak 5, got %v and %v", m.Value(), m.Peak())
	}

	m.Reset()
	if len(m.History()) != 0 || m.Value() != 0 {
		t.Error("expected reset to clear state")
	}
}

func TestFogAlpha_Mean(t *testing.T) {
	m := NewFogAlpha()
	if m.Value() != 0 {
		t.Errorf("expected 0 before samples, got %v", m.Value())
	}
	for _, a := range []float64{0.2, 0.4, 0.6} {
		m.Observe(Sample{FogAlpha: a})
	}
	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("expected 0.4, got %v", m.Value())
	}
}

func TestRecycleRate(t *testing.T) {
	m := NewRecycleRate()
	for i := 0; i < 60; i++ {
		m.Observe(Sample{Delta: 1.0 / 60, Recycled: 2})
	}
	m.Observe(Sample{Delta: -1, Recycled: 0})
	if math.Abs(m.Value()-120) > 1e-9 {
		t.Errorf("expected 120 per second, got %v", m.Value())
	}
	if m.Total() != 120 {
		t.Errorf("expected 120 total, got %d", m.Total())
	}
}

func TestSettle(t *testing.T) {
	m := NewSettle(0.01)
	for _, ke := range []float64{1, 0.5, 0.001, 0} {
		m.Observe(Sample{KineticEnergy: ke})
	}
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}
}

func TestSnapshot(t *testing.T) {
	ms := Standard()
	for _, m := range ms {
		m.Observe(Sample{Delta: 0.5, KineticEnergy: 2, FogAlpha: 0.3, Recycled: 1})
	}
	snap := Snapshot(ms)
	tests := map[string]float64{
		"kinetic_energy": 2,
		"fog_alpha":      0.3,
		"recycle_rate":   2,
		"settled":        0,
	}
	for name, want := range tests {
		if got, ok := snap[name]; !ok || math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
}
