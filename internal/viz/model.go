package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/fog"
	"github.com/san-kum/neonscene/internal/forcefield"
	"github.com/san-kum/neonscene/internal/scene"
)

const (
	width      = 80
	height     = 24
	statsWidth = 46

	canvasPadX = 2
	canvasPadY = 1

	pointerStep = 0.1
)

type TickMsg time.Time

type pointerMode int

const (
	pointerMouse pointerMode = iota
	pointerKeys
)

// activations is shared between copies of the Model so the scene's
// activation handler can reach the live value.
type activations struct{ count int }

// Model drives a Scene from the bubbletea event loop and draws each frame
// onto a Braille canvas.
type Model struct {
	sc       *engine.Scene
	clock    *engine.Clock
	frameDur time.Duration
	canvas   *Canvas
	renderer *Renderer
	theme    Theme
	frame    *engine.Frame

	running  bool
	showHelp bool
	hits     *activations

	mode       pointerMode
	target     scene.Pointer
	springX    harmonica.Spring
	springY    harmonica.Spring
	px, vx     float64
	py, vy     float64
	gauges     [3]progress.Model
	termWidth  int
	termHeight int
}

// NewModel wraps sc for interactive preview. The Model does not own sc;
// the caller closes it after the program exits.
func NewModel(sc *engine.Scene) Model {
	cfg := sc.Config()
	fps := cfg.FrameRate
	if fps <= 0 {
		fps = config.DefaultFrameRate
	}

	canvas := NewCanvas(width-statsWidth/2, height)
	m := Model{
		sc:       sc,
		clock:    engine.NewClock(fps),
		frameDur: time.Duration(float64(time.Second) / fps),
		canvas:   canvas,
		renderer: NewRenderer(canvas, cfg.Compact),
		theme:    ThemeNeon,
		running:  true,
		hits:     &activations{},
		springX:  harmonica.NewSpring(harmonica.FPS(int(fps)), 6.0, 0.8),
		springY:  harmonica.NewSpring(harmonica.FPS(int(fps)), 6.0, 0.8),
	}
	for i := range m.gauges {
		m.gauges[i] = progress.New(
			progress.WithScaledGradient("#00FFFF", "#FF00FF"),
			progress.WithoutPercentage(),
			progress.WithWidth(20),
		)
	}
	hits := m.hits
	sc.OnActivate(func() { hits.count++ })
	m.syncViewport()
	return m
}

// WithTheme switches to the named theme, falling back to neon.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameDur, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fi, fs, vs := m.sc.Tunables()
	cfg := m.sc.Config()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "f":
		m.sc.SetFogIntensity(fi - 0.1)
	case "F":
		m.sc.SetFogIntensity(fi + 0.1)
	case "s":
		m.sc.SetFogSpeed(fs - 0.1)
	case "S":
		m.sc.SetFogSpeed(fs + 0.1)
	case "v":
		m.sc.SetVortexStrength(vs - 0.25)
	case "V":
		m.sc.SetVortexStrength(vs + 0.25)
	case "e":
		m.sc.SetElementCount(max(cfg.ElementCount()-4, 1))
	case "E":
		m.sc.SetElementCount(min(cfg.ElementCount()+4, config.MaxElements))
	case "p":
		m.sc.SetParticleCount(max(cfg.ParticleCount()-30, 1))
	case "P":
		m.sc.SetParticleCount(min(cfg.ParticleCount()+30, config.MaxParticles))
	case "up", "k":
		m.nudge(0, pointerStep)
	case "down", "j":
		m.nudge(0, -pointerStep)
	case "left", "h":
		m.nudge(-pointerStep, 0)
	case "right", "l":
		m.nudge(pointerStep, 0)
	case "enter":
		m.sc.Activate(m.sc.Pointer().State())
	}
	return m, nil
}

// nudge moves the keyboard pointer target. The visible pointer follows it
// through a spring on each tick.
func (m *Model) nudge(dx, dy float64) {
	if m.mode != pointerKeys {
		cur := m.sc.Pointer().State()
		m.mode = pointerKeys
		m.target = cur
		m.px, m.py, m.vx, m.vy = cur.X, cur.Y, 0, 0
	}
	m.target.X = clamp(m.target.X+dx, -1, 1)
	m.target.Y = clamp(m.target.Y+dy, -1, 1)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	m.mode = pointerMouse
	m.sc.Pointer().Move(float64(col)+0.5, float64(row)+0.5, float64(m.canvas.Width), float64(m.canvas.Height))

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.sc.Activate(m.sc.Pointer().State())
	}
}

func (m *Model) resize(w, h int) {
	m.termWidth, m.termHeight = w, h
	cw := max(w-statsWidth-2*canvasPadX-2, 20)
	ch := max(h-2*canvasPadY, 10)
	m.canvas = NewCanvas(cw, ch)
	m.renderer.Resize(m.canvas)
	m.syncViewport()
}

func (m *Model) syncViewport() {
	w, h := m.canvas.Dots()
	m.sc.SetViewport(float64(w), float64(h))
}

// step advances the scene by one frame.
func (m *Model) step() {
	if m.mode == pointerKeys {
		m.px, m.vx = m.springX.Update(m.px, m.vx, m.target.X)
		m.py, m.vy = m.springY.Update(m.py, m.vy, m.target.Y)
		m.sc.Pointer().Set(scene.Pointer{X: m.px, Y: m.py})
	}
	if f := m.sc.Step(m.clock.Next()); f != nil {
		m.frame = f
	}
}

// Overlay reports whether the activation overlay is showing. Each hit on an
// element toggles it.
func (m Model) Overlay() bool { return m.hits.count%2 == 1 }

// View renders the TUI interface.
func (m Model) View() string {
	m.renderer.Draw(m.frame, m.theme)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	cfg := m.sc.Config()
	s.WriteString(GradientText("NEONSCENE", string(m.theme.Secondary), string(m.theme.Primary)) + "\n")
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if hist := m.sc.EnergyHistory(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	t, p := 0.0, m.sc.Pointer().State()
	var stats engine.Stats
	if m.frame != nil {
		t, stats = m.frame.Time, m.frame.Stats
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Pointer") + valueStyle.Render(fmt.Sprintf("%+.2f %+.2f", p.X, p.Y)) + "\n")
	s.WriteString(labelStyle.Render("Elements") + valueStyle.Render(fmt.Sprintf("%d", len(m.sc.Layout().Elements))) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", cfg.ParticleCount())) + "\n")
	s.WriteString(labelStyle.Render("Fog alpha") + valueStyle.Render(fmt.Sprintf("%.3f", stats.FogAlpha)) + "\n")

	fi, fs, vs := m.sc.Tunables()
	s.WriteString("\nTUNABLES\n")
	s.WriteString(m.gauge(0, "Fog [f/F]", fi, fog.MaxIntensity))
	s.WriteString(m.gauge(1, "Speed [s/S]", fs, fog.MaxSpeed))
	s.WriteString(m.gauge(2, "Vortex [v/V]", vs, forcefield.MaxVortexStrength))

	s.WriteString(helpStyle.Render("\n" + Separator(36) + "\nSP:Pause Q:Quit T:Theme ?:Help\n←↑↓→:Pointer ⏎/click:Activate"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.Overlay() {
		label := "activated"
		if m.frame != nil {
			label = m.frame.Label.Text + " · activated"
		}
		mainView = overlayStyle.Render(label) + "\n" + mainView
	}
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  Q        - Quit                     ║
║  f / F    - Fog intensity -/+        ║
║  s / S    - Fog speed -/+            ║
║  v / V    - Vortex strength -/+      ║
║  e / E    - Elements -/+             ║
║  p / P    - Particles -/+            ║
║  Arrows   - Move the pointer         ║
║  Enter    - Activate under pointer   ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) gauge(i int, name string, v, maxV float64) string {
	return labelStyle.Render(name) + " " + m.gauges[i].ViewAs(v/maxV) + valueStyle.Render(fmt.Sprintf(" %.2f", v)) + "\n"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Run starts the preview on the alternate screen with mouse motion
// reporting enabled.
func Run(sc *engine.Scene, theme string) error {
	p := tea.NewProgram(NewModel(sc).WithTheme(theme), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
