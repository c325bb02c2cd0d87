package fog

import (
	"github.com/san-kum/neonscene/internal/scene"
)

// Frame is one layer's output for one frame.
type Frame struct {
	Depth    float64  `json:"depth"`
	Uniforms Uniforms `json:"uniforms"`
	Center   Sample   `json:"center"`
}

// Controller evaluates every layer once per frame. Intensity and speed are
// global multipliers shared by all layers.
type Controller struct {
	layers    []Layer
	intensity float64
	speed     float64
	uniforms  []Uniforms
	frames    []Frame
}

func NewController(layers []Layer, intensity, speed float64) *Controller {
	c := &Controller{
		layers:   append([]Layer(nil), layers...),
		uniforms: make([]Uniforms, len(layers)),
		frames:   make([]Frame, len(layers)),
	}
	c.SetIntensity(intensity)
	c.SetSpeed(speed)
	return c
}

func (c *Controller) Layers() []Layer { return c.layers }

func (c *Controller) Intensity() float64 { return c.intensity }
func (c *Controller) Speed() float64     { return c.speed }

// SetIntensity clamps to [0, 1.8].
func (c *Controller) SetIntensity(v float64) { c.intensity = clamp(v, 0, MaxIntensity) }

// SetSpeed clamps to [0, 2].
func (c *Controller) SetSpeed(v float64) { c.speed = clamp(v, 0, MaxSpeed) }

// Step advances every layer to time t with pointer p. The returned slice is
// reused across calls.
func (c *Controller) Step(t float64, p scene.Pointer) []Frame {
	if c == nil {
		return nil
	}
	center := scene.Vec2{X: centerUV, Y: centerUV}
	for i, l := range c.layers {
		u := l.uniforms(t, c.speed, p)
		c.uniforms[i] = u
		c.frames[i] = Frame{Depth: l.Depth, Uniforms: u, Center: l.sample(u, center, c.intensity)}
	}
	return c.frames
}

// Sample evaluates layer i at uv using the uniforms of the last Step.
func (c *Controller) Sample(i int, uv scene.Vec2) Sample {
	if c == nil || i < 0 || i >= len(c.layers) {
		return Sample{}
	}
	return c.layers[i].sample(c.uniforms[i], uv, c.intensity)
}

// SampleGrid fills dst (row-major, w*h) with the alpha-weighted composite
// of all layers over the unit square, for CPU previews.
func (c *Controller) SampleGrid(dst []float64, w, h int) []float64 {
	if c == nil || w <= 0 || h <= 0 {
		return dst[:0]
	}
	if cap(dst) < w*h {
		dst = make([]float64, w*h)
	}
	dst = dst[:w*h]
	for row := 0; row < h; row++ {
		v := 1 - (float64(row)+0.5)/float64(h)
		for col := 0; col < w; col++ {
			uv := scene.Vec2{X: (float64(col) + 0.5) / float64(w), Y: v}
			sum := 0.0
			for i := range c.layers {
				sum += c.layers[i].sample(c.uniforms[i], uv, c.intensity).Alpha
			}
			dst[row*w+col] = sum
		}
	}
	return dst
}

// Evaluate is the stateless form of Step+Sample for a single layer.
func Evaluate(l Layer, t, speedMul, intensity float64, p scene.Pointer, uv scene.Vec2) Sample {
	return l.sample(l.uniforms(t, speedMul, p), uv, intensity)
}

func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
