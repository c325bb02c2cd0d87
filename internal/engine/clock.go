package engine

import "github.com/san-kum/neonscene/internal/scene"

// Clock produces fixed-step ticks. Elapsed is derived from the frame count
// so long runs do not accumulate rounding drift.
type Clock struct {
	dt    float64
	frame uint64
}

func NewClock(frameRate float64) *Clock {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Clock{dt: 1 / frameRate}
}

func (c *Clock) Dt() float64 { return c.dt }

func (c *Clock) Frame() uint64 { return c.frame }

// Next returns the tick for the current frame and advances the clock.
func (c *Clock) Next() scene.Tick {
	t := scene.Tick{Elapsed: float64(c.frame) * c.dt, Delta: c.dt}
	c.frame++
	return t
}

func (c *Clock) Reset() { c.frame = 0 }
