// Package pointer normalizes raw pointer input into the shared scene pointer.
package pointer

import (
	"math"
	"sync/atomic"

	"github.com/san-kum/neonscene/internal/scene"
)

// Tracker holds the latest normalized pointer position. X and Y are stored
// as independent scalars: writers never block, the last write wins, and a
// reader may observe X from one event and Y from the next.
type Tracker struct {
	x, y     atomic.Uint64
	detached atomic.Bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Move records a pointer event given in pixels (or terminal cells) against
// a viewport of w by h. Events against an empty viewport are dropped.
func (t *Tracker) Move(px, py, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	t.Set(Normalize(px, py, w, h))
}

// Set stores an already normalized position, clamped to [-1, 1].
func (t *Tracker) Set(p scene.Pointer) {
	if t == nil || t.detached.Load() {
		return
	}
	t.x.Store(math.Float64bits(clamp(p.X)))
	t.y.Store(math.Float64bits(clamp(p.Y)))
}

// State returns the pointer as seen at a frame boundary.
func (t *Tracker) State() scene.Pointer {
	if t == nil {
		return scene.Pointer{}
	}
	return scene.Pointer{
		X: math.Float64frombits(t.x.Load()),
		Y: math.Float64frombits(t.y.Load()),
	}
}

// Detach stops accepting writes. It is called together with frame loop
// teardown so no late input event can touch a closed scene.
func (t *Tracker) Detach() {
	if t != nil {
		t.detached.Store(true)
	}
}

func (t *Tracker) Detached() bool { return t == nil || t.detached.Load() }

// Normalize maps viewport coordinates (origin top-left, y down) onto
// [-1,1]x[-1,1] with y up.
func Normalize(px, py, w, h float64) scene.Pointer {
	return scene.Pointer{
		X: clamp(2*px/w - 1),
		Y: clamp(-(2*py/h - 1)),
	}
}

func clamp(v float64) float64 {
	if v != v {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
