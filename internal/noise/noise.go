// Package noise implements deterministic 2D value noise and its fractal sums.
//
// Every function is pure: identical inputs give bit-identical outputs, and
// time enters only as a coordinate offset supplied by the caller.
package noise

import "math"

// Octaves is the number of layers summed by FBM.
const Octaves = 4

// Hash returns a pseudo-random value in [0, 1) for a lattice point.
func Hash(x, y float64) float64 {
	return fract(math.Sin(x*127.1+y*311.7) * 43758.5453123)
}

// Value is smoothly interpolated lattice noise in [0, 1).
func Value(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	a := Hash(ix, iy)
	b := Hash(ix+1, iy)
	c := Hash(ix, iy+1)
	d := Hash(ix+1, iy+1)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	return a + (b-a)*ux + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

// FBM sums Octaves layers of Value, halving amplitude and doubling
// frequency per layer. The result lies in [0, 1-2^-Octaves).
func FBM(x, y float64) float64 {
	return FBMOctaves(x, y, Octaves)
}

// FBMOctaves is FBM with an explicit octave count.
func FBMOctaves(x, y float64, octaves int) float64 {
	sum, amp, freq := 0.0, 0.5, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * Value(x*freq, y*freq)
		amp *= 0.5
		freq *= 2
	}
	return sum
}

// Warped feeds FBM back into its own sample point, with t advecting the
// inner field.
func Warped(x, y, t float64) float64 {
	w := FBM(x*0.5+t*0.2, y*0.5+t*0.2)
	return FBM(x+w, y+w)
}

// MaxFBM is the supremum of FBM.
func MaxFBM() float64 { return 1 - math.Pow(0.5, Octaves) }

func fract(v float64) float64 { return v - math.Floor(v) }
