package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/logging"
)

func TestMenu_PickPreset(t *testing.T) {
	m := newMenu(9, "retro", logging.Nop())
	if !strings.Contains(m.View(), "default") {
		t.Fatal("expected preset list in the menu view")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(key("down"))
	next, _ = next.Update(key("j"))
	mm := next.(menu)
	if mm.cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", mm.cursor)
	}

	next, cmd := mm.Update(key("enter"))
	mm = next.(menu)
	if mm.sc == nil {
		t.Fatalf("expected a scene after selection, err=%v", mm.err)
	}
	t.Cleanup(func() { _ = mm.sc.Close() })
	if cmd == nil {
		t.Error("expected the preview to start ticking")
	}

	want := config.ListPresets()[2]
	cfg, _ := config.GetPreset(want)
	if got := mm.sc.Config(); got.Compact != cfg.Compact || got.FrameRate != cfg.FrameRate || got.Seed != 9 {
		t.Errorf("expected preset %s with seed 9, got %+v", want, got)
	}
	if mm.live.theme.Name != "retro" {
		t.Errorf("expected retro theme, got %s", mm.live.theme.Name)
	}
	if mm.live.canvas.Width != 120-statsWidth-2*canvasPadX-2 {
		t.Errorf("expected preview sized to the terminal, got width %d", mm.live.canvas.Width)
	}

	next, _ = mm.Update(TickMsg{})
	if next.(menu).live.frame == nil {
		t.Error("expected ticks to reach the preview")
	}
}

func TestMenu_Quit(t *testing.T) {
	m := newMenu(1, "", logging.Nop())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}
