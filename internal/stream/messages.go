package stream

import (
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/scene"
)

// Client message types.
const (
	TypeViewport   = "viewport"    // width, height in pixels
	TypePointer    = "pointer"     // x, y in pixels of the last viewport
	TypePointerNDC = "pointer_ndc" // x, y already in [-1, 1]
	TypeActivate   = "activate"
	TypeTune       = "tune" // name, value
)

// Server message types.
const (
	TypeHello     = "hello"
	TypeFrame     = "frame"
	TypeActivated = "activated"
	TypeError     = "error"
)

type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Name   string  `json:"name,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

func (m ClientMessage) Pointer() scene.Pointer { return scene.Pointer{X: m.X, Y: m.Y} }

type ServerMessage struct {
	Type      string        `json:"type"`
	Session   string        `json:"session,omitempty"`
	Compact   bool          `json:"compact,omitempty"`
	FrameRate float64       `json:"frameRate,omitempty"`
	Frame     *engine.Frame `json:"frame,omitempty"`
	Error     string        `json:"error,omitempty"`
}
