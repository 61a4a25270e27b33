package sim

import (
	"math"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/physics"
)

// Rand is the randomness a Spawner draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng Rand) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

type SpawnRanges struct {
	Velocity        Range
	Acceleration    Range
	Mass            Range
	Radius          Range
	AngularVelocity Range
	Shapes          []physics.ShapeKind
}

func SpawnRangesFromConfig(c config.SpawnConfig) SpawnRanges {
	conv := func(r config.Range) Range { return Range{Min: r.Min, Max: r.Max} }
	shapes := make([]physics.ShapeKind, 0, len(c.Shapes))
	for _, s := range c.Shapes {
		shapes = append(shapes, ParseShapeKind(s))
	}
	return SpawnRanges{
		Velocity:        conv(c.Velocity),
		Acceleration:    conv(c.Acceleration),
		Mass:            conv(c.Mass),
		Radius:          conv(c.Radius),
		AngularVelocity: conv(c.AngularVelocity),
		Shapes:          shapes,
	}
}

func ParseShapeKind(s string) physics.ShapeKind {
	switch s {
	case "circle":
		return physics.ShapeCircle
	case "polygon":
		return physics.ShapePolygon
	default:
		return physics.ShapeNone
	}
}

// Spawner builds randomized bodies. Draw order per body is fixed:
// vx, vy, ax, ay, mass, radius, angular velocity, then shape (only when
// more than one shape kind is configured).
type Spawner struct {
	rng    Rand
	ranges SpawnRanges
}

func NewSpawner(rng Rand, ranges SpawnRanges) *Spawner {
	return &Spawner{rng: rng, ranges: ranges}
}

// Spawn returns a body positioned exactly at at.
func (s *Spawner) Spawn(at physics.Vec2) (*physics.Body, error) {
	r := s.ranges
	vel := physics.V(r.Velocity.sample(s.rng), r.Velocity.sample(s.rng))
	acc := physics.V(r.Acceleration.sample(s.rng), r.Acceleration.sample(s.rng))
	mass := r.Mass.sample(s.rng)
	radius := r.Radius.sample(s.rng)
	angVel := r.AngularVelocity.sample(s.rng)

	shape, err := buildShape(s.pickShape(), radius)
	if err != nil {
		return nil, err
	}

	return physics.NewBody(physics.BodyParams{
		Position:        at,
		Velocity:        vel,
		Acceleration:    acc,
		Mass:            mass,
		Radius:          radius,
		Shape:           shape,
		AngularVelocity: angVel,
	})
}

func (s *Spawner) pickShape() physics.ShapeKind {
	switch n := len(s.ranges.Shapes); n {
	case 0:
		return physics.ShapeNone
	case 1:
		return s.ranges.Shapes[0]
	default:
		i := int(s.rng.Float64() * float64(n))
		if i >= n {
			i = n - 1
		}
		return s.ranges.Shapes[i]
	}
}

// buildShape fits the shape inside the display radius used for bounds.
func buildShape(kind physics.ShapeKind, radius float64) (physics.Shape, error) {
	switch kind {
	case physics.ShapeCircle:
		return physics.NewCircle(radius)
	case physics.ShapePolygon:
		return physics.NewSquare(radius / math.Sqrt2)
	default:
		return physics.Shape{}, nil
	}
}
