package viz

import (
	"math"

	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/sim"
)

// Scene is everything drawn for one frame.
type Scene struct {
	Frame  sim.Frame
	Liquid physics.Rect
	Trail  []physics.Vec2
}

// Render draws the scene onto c, which is cleared first.
func Render(c *Canvas, vp Viewport, s Scene) {
	c.Clear()

	if s.Liquid.W > 0 && s.Liquid.H > 0 {
		x0, y := vp.ToCanvas(physics.V(s.Liquid.X, s.Liquid.Y))
		x1, _ := vp.ToCanvas(physics.V(s.Liquid.X+s.Liquid.W, s.Liquid.Y))
		c.DrawDashed(x0, x1, y, 2, 2)
	}

	for _, p := range s.Trail {
		x, y := vp.ToCanvas(p)
		c.Set(x, y)
	}

	for _, b := range s.Frame.Bodies {
		drawBody(c, vp, b)
	}
}

func drawBody(c *Canvas, vp Viewport, b sim.BodyView) {
	cx, cy := vp.ToCanvas(b.Position)

	switch b.Shape.Kind {
	case physics.ShapePolygon:
		verts := b.Shape.WorldVertices(b.Position)
		pts := make([][2]int, len(verts))
		for i, v := range verts {
			x, y := vp.ToCanvas(v)
			pts[i] = [2]int{x, y}
		}
		c.DrawPolygon(pts)
	case physics.ShapeCircle:
		r := vp.Length(b.Shape.Radius)
		c.DrawCircle(cx, cy, r)
		// spoke shows rotation
		tip := b.Position.Add(physics.V(math.Cos(b.Rotation), math.Sin(b.Rotation)).Scale(b.Shape.Radius))
		tx, ty := vp.ToCanvas(tip)
		c.DrawLine(cx, cy, tx, ty)
	default:
		c.DrawCircle(cx, cy, vp.Length(b.Radius))
	}

	if b.Controlled {
		c.DrawLine(cx-1, cy, cx+1, cy)
		c.DrawLine(cx, cy-1, cx, cy+1)
	}
}
