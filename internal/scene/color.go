package scene

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a color with H in degrees [0,360) and S, L in [0,1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// WrapHue folds any angle into [0, 360).
func WrapHue(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func (c HSL) Color() colorful.Color {
	return colorful.Hsl(WrapHue(c.H), clamp01(c.S), clamp01(c.L)).Clamped()
}

func (c HSL) Hex() string { return c.Color().Hex() }

func (c HSL) RGB255() (uint8, uint8, uint8) { return c.Color().RGB255() }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
