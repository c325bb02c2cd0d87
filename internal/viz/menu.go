package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
)

var presetInfo = map[string]string{
	"default": "desktop layout",
	"calm":    "slow thin fog",
	"storm":   "dense fog, strong vortex",
	"mobile":  "compact layout at 30 fps",
	"dense":   "twice the elements",
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// menu picks a preset, then hands the terminal to a live preview.
type menu struct {
	presets []string
	cursor  int
	seed    int64
	theme   string
	log     *zap.Logger

	sc   *engine.Scene
	live Model
	err  error

	width, height int
}

func newMenu(seed int64, theme string, log *zap.Logger) menu {
	return menu{presets: config.ListPresets(), seed: seed, theme: theme, log: log}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.sc != nil {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	cfg, err := config.GetPreset(m.presets[m.cursor])
	if err != nil {
		m.err = err
		return m, nil
	}
	cfg.Seed = m.seed
	sc, err := engine.New(cfg, nil, m.log)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.sc = sc
	m.live = NewModel(sc).WithTheme(m.theme)
	if m.width > 0 {
		m.live.resize(m.width, m.height)
	}
	return m, m.live.Init()
}

func (m menu) View() string {
	if m.sc != nil {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("NEONSCENE") + "\n    " + menuSub.Render("animated background engine") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusPaused.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuSub.Render(" navigate  ") + menuKey.Render("enter") + menuSub.Render(" select  ") + menuKey.Render("q") + menuSub.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the preset picker and then the live preview. The scene is
// closed when the program exits.
func RunMenu(seed int64, theme string, log *zap.Logger) error {
	p := tea.NewProgram(newMenu(seed, theme, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if mm, ok := final.(menu); ok && mm.sc != nil {
		_ = mm.sc.Close()
	}
	return err
}
