package physics

import (
	"fmt"
	"math"
)

type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeCircle
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	default:
		return "none"
	}
}

// Shape is a closed variant over circle and polygon. Geometry is in
// body-local coordinates, centred on the owning body's position.
type Shape struct {
	Kind     ShapeKind
	Radius   float64
	Vertices []Vec2
	Angle    float64
}

func NewCircle(radius float64) (Shape, error) {
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Shape{}, fmt.Errorf("circle radius %v: %w", radius, ErrParameterBounds)
	}
	return Shape{Kind: ShapeCircle, Radius: radius}, nil
}

func NewPolygon(vertices []Vec2) (Shape, error) {
	if len(vertices) < 3 {
		return Shape{}, fmt.Errorf("polygon needs at least 3 vertices, got %d: %w", len(vertices), ErrParameterBounds)
	}
	vs := make([]Vec2, len(vertices))
	for i, v := range vertices {
		if !v.IsFinite() {
			return Shape{}, fmt.Errorf("polygon vertex %d: %w", i, ErrParameterBounds)
		}
		vs[i] = v
	}
	return Shape{Kind: ShapePolygon, Vertices: vs}, nil
}

// NewSquare builds an axis-aligned square polygon with the given half size.
func NewSquare(halfSize float64) (Shape, error) {
	if halfSize < 0 {
		return Shape{}, fmt.Errorf("square half size %v: %w", halfSize, ErrParameterBounds)
	}
	return NewPolygon([]Vec2{
		{X: -halfSize, Y: halfSize},
		{X: halfSize, Y: halfSize},
		{X: halfSize, Y: -halfSize},
		{X: -halfSize, Y: -halfSize},
	})
}

// MomentOfInertia returns the inertia per unit mass. ok is false when the
// shape has no known inertia (polygons, or no shape at all).
func (s Shape) MomentOfInertia() (inertia float64, ok bool) {
	switch s.Kind {
	case ShapeCircle:
		return 0.5 * s.Radius * s.Radius, true
	default:
		return 0, false
	}
}

// Rotate sets the shape orientation. Polygon vertices stay untransformed;
// use WorldVertices for drawing.
func (s *Shape) Rotate(angle float64) {
	s.Angle = angle
}

// Extent is the radius of the smallest origin-centred circle containing the shape.
func (s Shape) Extent() float64 {
	switch s.Kind {
	case ShapeCircle:
		return s.Radius
	case ShapePolygon:
		maxSq := 0.0
		for _, v := range s.Vertices {
			maxSq = math.Max(maxSq, v.LenSq())
		}
		return math.Sqrt(maxSq)
	default:
		return 0
	}
}

// WorldVertices returns the polygon outline placed at origin, or nil for
// non-polygon shapes.
func (s Shape) WorldVertices(origin Vec2) []Vec2 {
	if s.Kind != ShapePolygon {
		return nil
	}
	out := make([]Vec2, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = origin.Add(v.Rotate(s.Angle))
	}
	return out
}

// Clone deep-copies the vertex slice.
func (s Shape) Clone() Shape {
	c := s
	if s.Vertices != nil {
		c.Vertices = make([]Vec2, len(s.Vertices))
		copy(c.Vertices, s.Vertices)
	}
	return c
}
