// Package export writes frames and runs to JSON, SVG and run directories.
package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
)

// Recording is a captured run: the configuration it ran with and the frames
// it produced.
type Recording struct {
	RunID     string             `json:"runId"`
	Created   time.Time          `json:"created"`
	Seed      int64              `json:"seed"`
	Compact   bool               `json:"compact"`
	FrameRate float64            `json:"frameRate"`
	Frames    []*engine.Frame    `json:"frames"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func NewRecording(cfg config.Config, frames []*engine.Frame, metrics map[string]float64) *Recording {
	return &Recording{
		RunID:     uuid.NewString(),
		Created:   time.Now().UTC(),
		Seed:      cfg.Seed,
		Compact:   cfg.Compact,
		FrameRate: cfg.FrameRate,
		Frames:    frames,
		Metrics:   metrics,
	}
}

func WriteJSON(w io.Writer, rec *Recording) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rec)
}

// ExportJSON writes rec to path, or to stdout when path is "-".
func ExportJSON(path string, rec *Recording) error {
	if path == "-" {
		return WriteJSON(os.Stdout, rec)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, rec)
}

func ReadJSON(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
