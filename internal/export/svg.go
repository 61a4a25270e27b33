package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/sim"
	"github.com/san-kum/sandbox/internal/viz"
)

const (
	background  = "#0a0a0a"
	bodyColor   = "#00ffff"
	activeColor = "#ff00ff"
	liquidColor = "#0077be"
)

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// FrameToSVG draws a frame in world units. World y grows downward, as in SVG.
func FrameToSVG(f sim.Frame, bounds, liquid physics.Rect) string {
	var sb strings.Builder
	header(&sb, bounds.W, bounds.H)

	if liquid.W > 0 && liquid.H > 0 {
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.3"/>
`, liquid.X, liquid.Y, liquid.W, liquid.H, liquidColor))
	}

	sb.WriteString(`<g fill="none" stroke-width="2">` + "\n")
	for _, b := range f.Bodies {
		color := bodyColor
		if b.Controlled {
			color = activeColor
		}
		writeBody(&sb, b, color)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeBody(sb *strings.Builder, b sim.BodyView, color string) {
	switch b.Shape.Kind {
	case physics.ShapePolygon:
		verts := b.Shape.WorldVertices(b.Position)
		pts := make([]string, len(verts))
		for i, v := range verts {
			pts[i] = fmt.Sprintf("%.1f,%.1f", v.X, v.Y)
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" stroke="%s"/>
`, strings.Join(pts, " "), color))
	case physics.ShapeCircle:
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" stroke="%s"/>
`, b.Position.X, b.Position.Y, b.Shape.Radius, color))
		tx := b.Position.X + math.Cos(b.Rotation)*b.Shape.Radius
		ty := b.Position.Y + math.Sin(b.Rotation)*b.Shape.Radius
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, b.Position.X, b.Position.Y, tx, ty, color))
	default:
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.Position.X, b.Position.Y, math.Max(b.Radius, 1), color))
	}
}

// CanvasToSVG converts a Braille canvas to SVG, one dot per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a polyline through points inside the world bounds.
func TrajectoryToSVG(points []physics.Vec2, bounds physics.Rect, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, bounds.W, bounds.H)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x, y := p.X-bounds.X, p.Y-bounds.Y
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
