// Package label drives the glowing title text: its outline glow breathes over
// time and swells as the pointer approaches the center, while the whole group
// tilts toward the pointer.
package label

import (
	"math"

	"github.com/san-kum/neonscene/internal/scene"
)

const DefaultText = "neonscene"

type Params struct {
	Text             string
	PointerScale     scene.Vec2
	MaxInfluence     float64
	BreatheRate      float64
	GlowBase         float64
	GlowBreathe      float64
	GlowInfluence    float64
	OpacityBase      float64
	OpacityBreathe   float64
	OpacityInfluence float64
	HueRate          float64 // degrees per second
	Saturation       float64
	GlowLightness    float64
	MainLightness    float64
	Tilt             float64
	BobRate          float64
	BobAmplitude     float64
}

func DefaultParams() Params {
	return Params{
		Text:             DefaultText,
		PointerScale:     scene.Vec2{X: 1.5, Y: 1.0},
		MaxInfluence:     1.4,
		BreatheRate:      0.8,
		GlowBase:         0.06,
		GlowBreathe:      0.02,
		GlowInfluence:    0.06,
		OpacityBase:      0.6,
		OpacityBreathe:   0.2,
		OpacityInfluence: 0.35,
		HueRate:          8,
		Saturation:       0.85,
		GlowLightness:    0.6,
		MainLightness:    0.92,
		Tilt:             0.35,
		BobRate:          0.7,
		BobAmplitude:     0.03,
	}
}

// State is the label's output for one frame.
type State struct {
	Text        string     `json:"text"`
	Influence   float64    `json:"influence"`
	Breathe     float64    `json:"breathe"`
	GlowWidth   float64    `json:"glowWidth"`
	GlowOpacity float64    `json:"glowOpacity"`
	Hue         float64    `json:"hue"`
	GlowColor   scene.HSL  `json:"glowColor"`
	MainColor   scene.HSL  `json:"mainColor"`
	Rotation    scene.Vec2 `json:"rotation"`
	OffsetY     float64    `json:"offsetY"`
}

type Controller struct {
	params Params
}

func NewController(p Params) *Controller {
	if p.Text == "" {
		p.Text = DefaultText
	}
	return &Controller{params: p}
}

func (c *Controller) Text() string { return c.params.Text }

func (c *Controller) SetText(s string) {
	if s != "" {
		c.params.Text = s
	}
}

// Influence is 1 with the pointer over the label center and falls linearly
// to 0 at MaxInfluence in the scaled pointer space.
func (c *Controller) Influence(p scene.Pointer) float64 {
	d := scene.Vec2{X: p.X * c.params.PointerScale.X, Y: p.Y * c.params.PointerScale.Y}.Length()
	return math.Max(0, 1-d/c.params.MaxInfluence)
}

func (c *Controller) Step(t float64, p scene.Pointer) State {
	if c == nil {
		return State{}
	}
	prm := &c.params
	infl := c.Influence(p)
	breathe := math.Sin(t*prm.BreatheRate)*0.5 + 0.5
	hue := scene.WrapHue(t * prm.HueRate)

	return State{
		Text:        prm.Text,
		Influence:   infl,
		Breathe:     breathe,
		GlowWidth:   prm.GlowBase + breathe*prm.GlowBreathe + infl*prm.GlowInfluence,
		GlowOpacity: prm.OpacityBase + breathe*prm.OpacityBreathe + infl*prm.OpacityInfluence,
		Hue:         hue,
		GlowColor:   scene.HSL{H: hue, S: prm.Saturation, L: prm.GlowLightness},
		MainColor:   scene.HSL{H: hue, S: prm.Saturation, L: prm.MainLightness},
		Rotation:    scene.Vec2{X: p.Y * prm.Tilt, Y: -p.X * prm.Tilt},
		OffsetY:     math.Sin(t*prm.BobRate) * prm.BobAmplitude,
	}
}
