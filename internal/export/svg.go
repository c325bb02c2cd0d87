package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/scene"
	"github.com/san-kum/neonscene/internal/streaks"
)

const (
	background = "#05010d"
	labelSize  = 0.9 // world units
)

// FrameToSVG renders a frame through cam onto a width x height image,
// drawing back to front: fog, grid, streaks, background elements, label,
// particles, foreground elements.
func FrameToSVG(f *engine.Frame, cam scene.Camera, width, height int) string {
	if f == nil || width <= 0 || height <= 0 {
		return ""
	}
	pr := projector{cam: cam, w: float64(width), h: float64(height)}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for _, l := range f.Fog {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3f"/>
`, l.Center.Color.Hex(), clamp01(l.Center.Alpha)))
	}

	if cols := gridColumns(f); cols > 0 {
		sb.WriteString(`<g fill="none" stroke="#00eaff" stroke-opacity="0.35" stroke-width="0.8">
`)
		for start := 0; start+cols <= len(f.Grid.Vertices); start += cols {
			row := f.Grid.Vertices[start : start+cols]
			pr.polyline(&sb, row, func(v scene.Vec3) scene.Vec3 {
				return rotate(v, f.Grid.Rotation).Add(f.Grid.Position)
			})
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-linecap="round">
`, streaks.Color))
	for _, s := range f.Streaks {
		pr.streak(&sb, s)
	}
	sb.WriteString("</g>\n")

	order := make([]int, len(f.Elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Elements[order[a]].Position.Z < f.Elements[order[b]].Position.Z
	})

	labelDrawn := false
	for _, i := range order {
		e := f.Elements[i]
		if !labelDrawn && e.Position.Z > 0 {
			pr.label(&sb, f)
			pr.particles(&sb, f.Particles)
			labelDrawn = true
		}
		ndc, scale, ok := cam.Project(e.Position)
		if !ok {
			continue
		}
		x, y := pr.pixel(ndc)
		r := e.Radius * scale * pr.h / 2
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>
`, x, y, r, e.Color.Hex(), e.Emissive.Hex(), math.Max(r*0.08, 0.5)))
	}
	if !labelDrawn {
		pr.label(&sb, f)
		pr.particles(&sb, f.Particles)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values left to right as a single stroked path.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

type projector struct {
	cam  scene.Camera
	w, h float64
}

func (p projector) pixel(ndc scene.Vec2) (float64, float64) {
	return (ndc.X + 1) / 2 * p.w, (1 - ndc.Y) / 2 * p.h
}

func (p projector) polyline(sb *strings.Builder, pts []scene.Vec3, xf func(scene.Vec3) scene.Vec3) {
	sb.WriteString(`<polyline points="`)
	for i, v := range pts {
		ndc, _, ok := p.cam.Project(xf(v))
		if !ok {
			continue
		}
		x, y := p.pixel(ndc)
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")
}

func (p projector) streak(sb *strings.Builder, s streaks.Streak) {
	half := s.ScaleY / 2
	dx, dy := -math.Sin(s.Tilt)*half, math.Cos(s.Tilt)*half
	a, _, okA := p.cam.Project(s.Position.Add(scene.Vec3{X: -dx, Y: -dy}))
	b, scale, okB := p.cam.Project(s.Position.Add(scene.Vec3{X: dx, Y: dy}))
	if !okA || !okB {
		return
	}
	x1, y1 := p.pixel(a)
	x2, y2 := p.pixel(b)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f" stroke-opacity="%.3f"/>
`, x1, y1, x2, y2, math.Max(streaks.Width*scale*p.h/2, 0.5), clamp01(s.Opacity)))
}

func (p projector) label(sb *strings.Builder, f *engine.Frame) {
	if f.Label.Text == "" {
		return
	}
	ndc, scale, ok := p.cam.Project(scene.Vec3{Y: f.Label.OffsetY})
	if !ok {
		return
	}
	x, y := p.pixel(ndc)
	size := labelSize * scale * p.h / 2
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.1f" font-family="monospace" text-anchor="middle" dominant-baseline="middle" fill="%s" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f" paint-order="stroke">%s</text>
`, x, y, size, f.Label.MainColor.Hex(), f.Label.GlowColor.Hex(),
		f.Label.GlowWidth*scale*p.h/2, clamp01(f.Label.GlowOpacity), escape(f.Label.Text)))
}

func (p projector) particles(sb *strings.Builder, pts []scene.Vec3) {
	if len(pts) == 0 {
		return
	}
	sb.WriteString(`<g fill="#ff4fd8" fill-opacity="0.8">
`)
	for _, v := range pts {
		ndc, scale, ok := p.cam.Project(v)
		if !ok {
			continue
		}
		x, y := p.pixel(ndc)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, x, y, math.Max(0.02*scale*p.h/2, 0.4)))
	}
	sb.WriteString("</g>\n")
}

func gridColumns(f *engine.Frame) int {
	n := len(f.Grid.Vertices)
	if n < 2 {
		return 0
	}
	// rows share y, so the first change in y ends the top row
	y0 := f.Grid.Vertices[0].Y
	for i, v := range f.Grid.Vertices {
		if v.Y != y0 {
			return i
		}
	}
	return n
}

// rotate applies the x then y rotation in radians.
func rotate(v scene.Vec3, rot scene.Vec2) scene.Vec3 {
	sx, cx := math.Sincos(rot.X)
	y := v.Y*cx - v.Z*sx
	z := v.Y*sx + v.Z*cx
	sy, cy := math.Sincos(rot.Y)
	return scene.Vec3{X: v.X*cy + z*sy, Y: y, Z: -v.X*sy + z*cy}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
