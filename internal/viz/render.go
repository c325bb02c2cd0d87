package viz

import (
	"math"
	"sort"

	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/scene"
	"github.com/san-kum/neonscene/internal/streaks"
)

// minStreakOpacity hides streaks too faint to read as lines in Braille.
const minStreakOpacity = 0.35

// Renderer projects frames onto a Canvas.
type Renderer struct {
	canvas *Canvas
	cam    scene.Camera
	order  []int
}

func NewRenderer(c *Canvas, compact bool) *Renderer {
	w, h := c.Dots()
	return &Renderer{canvas: c, cam: scene.DefaultCamera(compact, float64(w)/float64(h))}
}

// Camera is the projection used for drawing, with the aspect of the canvas.
func (r *Renderer) Camera() scene.Camera { return r.cam }

// Resize swaps in a new canvas and updates the camera aspect.
func (r *Renderer) Resize(c *Canvas) {
	r.canvas = c
	w, h := c.Dots()
	r.cam.Aspect = float64(w) / float64(h)
}

// Draw clears the canvas and paints f back to front.
func (r *Renderer) Draw(f *engine.Frame, th Theme) {
	c := r.canvas
	c.Clear()
	if f == nil {
		return
	}

	r.drawGrid(f, th)

	for _, s := range f.Streaks {
		if s.Opacity >= minStreakOpacity {
			r.drawStreak(s, th)
		}
	}

	r.order = r.order[:0]
	for i := range f.Elements {
		r.order = append(r.order, i)
	}
	sort.SliceStable(r.order, func(a, b int) bool {
		return f.Elements[r.order[a]].Position.Z < f.Elements[r.order[b]].Position.Z
	})

	labelDrawn := false
	for _, i := range r.order {
		e := f.Elements[i]
		if !labelDrawn && e.Position.Z > 0 {
			r.drawParticles(f.Particles, th)
			r.drawLabel(f, th)
			labelDrawn = true
		}
		x, y, scale, ok := r.project(e.Position)
		if !ok {
			continue
		}
		c.DrawDisc(x, y, int(math.Round(e.Radius*scale)), th.color(e.Color.Hex()))
	}
	if !labelDrawn {
		r.drawParticles(f.Particles, th)
		r.drawLabel(f, th)
	}
}

// project maps a world point to canvas sub-pixels. scale converts world
// lengths at that depth into sub-pixels.
func (r *Renderer) project(p scene.Vec3) (int, int, float64, bool) {
	ndc, s, ok := r.cam.Project(p)
	if !ok {
		return 0, 0, 0, false
	}
	w, h := r.canvas.Dots()
	x := (ndc.X + 1) / 2 * float64(w)
	y := (1 - ndc.Y) / 2 * float64(h)
	return int(x), int(y), s * float64(h) / 2, true
}

func (r *Renderer) drawGrid(f *engine.Frame, th Theme) {
	verts := f.Grid.Vertices
	cols := gridColumns(verts)
	if cols == 0 {
		return
	}
	rows := len(verts) / cols
	at := func(i int) (int, int, bool) {
		v := rotate(verts[i], f.Grid.Rotation).Add(f.Grid.Position)
		x, y, _, ok := r.project(v)
		return x, y, ok
	}
	color := th.color(th.Grid)
	// every other row and column keeps the mesh legible at Braille density
	for row := 0; row < rows; row += 2 {
		for col := 0; col+1 < cols; col++ {
			r.segment(at, row*cols+col, row*cols+col+1, color)
		}
	}
	for col := 0; col < cols; col += 2 {
		for row := 0; row+1 < rows; row++ {
			r.segment(at, row*cols+col, (row+1)*cols+col, color)
		}
	}
}

func (r *Renderer) segment(at func(int) (int, int, bool), a, b int, color string) {
	x0, y0, ok0 := at(a)
	x1, y1, ok1 := at(b)
	if ok0 && ok1 {
		r.canvas.DrawLine(x0, y0, x1, y1, color)
	}
}

func (r *Renderer) drawStreak(s streaks.Streak, th Theme) {
	half := s.ScaleY / 2
	dx, dy := -math.Sin(s.Tilt)*half, math.Cos(s.Tilt)*half
	x0, y0, _, ok0 := r.project(s.Position.Add(scene.Vec3{X: -dx, Y: -dy}))
	x1, y1, _, ok1 := r.project(s.Position.Add(scene.Vec3{X: dx, Y: dy}))
	if ok0 && ok1 {
		r.canvas.DrawLine(x0, y0, x1, y1, th.color(streaks.Color))
	}
}

func (r *Renderer) drawParticles(pts []scene.Vec3, th Theme) {
	color := th.color(th.Particle)
	for _, p := range pts {
		if x, y, _, ok := r.project(p); ok {
			r.canvas.Set(x, y, color)
		}
	}
}

func (r *Renderer) drawLabel(f *engine.Frame, th Theme) {
	text := []rune(f.Label.Text)
	if len(text) == 0 {
		return
	}
	_, y, _, ok := r.project(scene.Vec3{Y: f.Label.OffsetY})
	if !ok {
		return
	}
	row := y / 4
	col := (r.canvas.Width - len(text)) / 2
	r.canvas.Text(col, row, string(text), th.color(f.Label.MainColor.Hex()))
}

// gridColumns counts the vertices of the top row.
func gridColumns(verts []scene.Vec3) int {
	if len(verts) < 2 {
		return 0
	}
	for i, v := range verts {
		if v.Y != verts[0].Y {
			return i
		}
	}
	return len(verts)
}

// rotate applies the x then y rotation in radians.
func rotate(p scene.Vec3, rot scene.Vec2) scene.Vec3 {
	cx, sx := math.Cos(rot.X), math.Sin(rot.X)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(rot.Y), math.Sin(rot.Y)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}
