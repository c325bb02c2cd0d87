package noise

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestHash_Range(t *testing.T) {
	for x := -50.0; x <= 50; x += 1.0 {
		for y := -50.0; y <= 50; y += 3.0 {
			h := Hash(x, y)
			if h < 0 || h >= 1 {
				t.Fatalf("Hash(%v, %v) = %v, outside [0,1)", x, y, h)
			}
		}
	}
}

func TestHash_Pure(t *testing.T) {
	a := Hash(12, -7)
	b := Hash(12, -7)
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Errorf("expected identical bits, got %v and %v", a, b)
	}
	if Hash(12, -7) == Hash(13, -7) {
		t.Error("expected neighbouring lattice points to differ")
	}
}

func TestValue_MatchesLattice(t *testing.T) {
	g := NewWithT(t)
	for _, p := range [][2]float64{{0, 0}, {3, 4}, {-2, 5}} {
		g.Expect(Value(p[0], p[1])).To(BeNumerically("~", Hash(p[0], p[1]), 1e-12))
	}
}

func TestValue_Continuity(t *testing.T) {
	const step = 1e-4
	for x := -3.0; x < 3; x += 0.173 {
		for y := -3.0; y < 3; y += 0.291 {
			d := math.Abs(Value(x+step, y) - Value(x, y))
			if d > 0.01 {
				t.Fatalf("jump of %v at (%v, %v)", d, x, y)
			}
			d = math.Abs(Value(x, y+step) - Value(x, y))
			if d > 0.01 {
				t.Fatalf("jump of %v at (%v, %v)", d, x, y)
			}
		}
	}
}

func TestValue_ContinuousAcrossCellEdge(t *testing.T) {
	left := Value(2-1e-9, 0.5)
	right := Value(2, 0.5)
	if math.Abs(left-right) > 1e-6 {
		t.Errorf("discontinuity at cell edge: %v vs %v", left, right)
	}
}

func TestFBM_Range(t *testing.T) {
	g := NewWithT(t)
	for x := -10.0; x < 10; x += 0.37 {
		for y := -10.0; y < 10; y += 0.53 {
			f := FBM(x, y)
			g.Expect(f).To(BeNumerically(">=", 0))
			g.Expect(f).To(BeNumerically("<", MaxFBM()))
		}
	}
}

func TestFBMOctaves(t *testing.T) {
	g := NewWithT(t)
	g.Expect(FBMOctaves(1.3, 2.7, 0)).To(Equal(0.0))
	g.Expect(FBMOctaves(1.3, 2.7, 1)).To(BeNumerically("~", 0.5*Value(1.3, 2.7), 1e-15))
	g.Expect(FBMOctaves(1.3, 2.7, Octaves)).To(Equal(FBM(1.3, 2.7)))
}

func TestWarped_Deterministic(t *testing.T) {
	a := Warped(1.25, 3.5, 5.0)
	b := Warped(1.25, 3.5, 5.0)
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Errorf("expected bit-identical output, got %v and %v", a, b)
	}
	if a < 0 || a >= MaxFBM() {
		t.Errorf("warped value %v outside FBM range", a)
	}
}
