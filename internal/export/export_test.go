package export

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/logging"
	"github.com/san-kum/neonscene/internal/scene"
)

func testFrames(t *testing.T, n int) (config.Config, []*engine.Frame) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 3
	cfg.Label = "a<b"
	sc, err := engine.New(cfg, nil, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	clock := engine.NewClock(cfg.FrameRate)
	frames := make([]*engine.Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, sc.Step(clock.Next()).Clone())
	}
	return *cfg, frames
}

func TestFrameToSVG(t *testing.T) {
	_, frames := testFrames(t, 2)
	f := frames[1]
	svg := FrameToSVG(f, scene.DefaultCamera(false, 16.0/9.0), 640, 360)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	circles := strings.Count(svg, "<circle")
	if want := len(f.Elements) + len(f.Particles); circles != want {
		t.Errorf("expected %d circles, got %d", want, circles)
	}
	if rows := strings.Count(svg, "<polyline"); rows != 21 {
		t.Errorf("expected 21 grid rows, got %d", rows)
	}
	if lines := strings.Count(svg, "<line"); lines != len(f.Streaks) {
		t.Errorf("expected %d streaks, got %d", len(f.Streaks), lines)
	}
	if !strings.Contains(svg, ">a&lt;b</text>") {
		t.Error("expected escaped label text")
	}
}

func TestFrameToSVG_Empty(t *testing.T) {
	if FrameToSVG(nil, scene.DefaultCamera(false, 1), 10, 10) != "" {
		t.Error("expected empty output for nil frame")
	}
	if FrameToSVG(&engine.Frame{}, scene.DefaultCamera(false, 1), 0, 10) != "" {
		t.Error("expected empty output for zero width")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	svg := SeriesToSVG([]float64{0, 1, 0.5}, 100, 50, "#fff")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %q", svg)
	}
}

func TestRotate(t *testing.T) {
	v := rotate(scene.Vec3{X: 1, Y: 1}, scene.Vec2{X: math.Pi / 2})
	if math.Abs(v.Y) > 1e-12 || math.Abs(v.Z-1) > 1e-12 || v.X != 1 {
		t.Errorf("expected (1, 0, 1), got %+v", v)
	}
}

func TestRecordingJSON(t *testing.T) {
	cfg, frames := testFrames(t, 3)
	rec := NewRecording(cfg, frames, map[string]float64{"fog_alpha": 0.2})
	if _, err := uuid.Parse(rec.RunID); err != nil {
		t.Fatalf("expected uuid run id, got %q", rec.RunID)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rec); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.RunID != rec.RunID || got.Seed != 3 || len(got.Frames) != 3 {
		t.Fatalf("unexpected recording %+v", got)
	}
	for i := range frames {
		if got.Frames[i].Digest() != frames[i].Digest() {
			t.Errorf("frame %d: digest changed through json", i)
		}
	}
}

func TestStore(t *testing.T) {
	st := NewStore(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	rows := []StatRow{
		{Time: 0, Stats: engine.Stats{KineticEnergy: 0.5, FogAlpha: 0.25, Recycled: 0}},
		{Time: 1.0 / 60, Stats: engine.Stats{KineticEnergy: 0.125, FogAlpha: 0.3, Recycled: 4}},
	}
	older, err := st.Save(RunMetadata{Seed: 1, Timestamp: time.Now().Add(-time.Hour)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	id, err := st.Save(RunMetadata{Seed: 2, Frames: 2}, rows)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != id || runs[1].ID != older {
		t.Fatalf("expected newest first, got %+v", runs)
	}

	got, err := st.LoadStats(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Stats != rows[1].Stats {
		t.Errorf("expected %+v, got %+v", rows, got)
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	runs, err := NewStore(t.TempDir() + "/missing").List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}
