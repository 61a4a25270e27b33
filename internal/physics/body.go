package physics

import (
	"fmt"
	"math"
)

// Body is a point mass with an optional shape. A body without a shape is a
// plain particle; its rotational state is carried but never driven by torque.
type Body struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Radius       float64
	Shape        Shape

	Rotation            float64
	AngularVelocity     float64
	AngularAcceleration float64

	force      Vec2
	torque     float64
	invMass    float64
	invInertia float64
}

// BodyParams holds the initial state for NewBody.
type BodyParams struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Mass         float64
	Radius       float64
	Shape        Shape

	Rotation        float64
	AngularVelocity float64
}

// NewParticle creates a shapeless body.
func NewParticle(pos, vel, acc Vec2, mass, radius float64) (*Body, error) {
	return NewBody(BodyParams{Position: pos, Velocity: vel, Acceleration: acc, Mass: mass, Radius: radius})
}

// NewBody validates p and returns the body. Mass must be positive and finite,
// radius non-negative, and every kinematic input finite.
func NewBody(p BodyParams) (*Body, error) {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return nil, fmt.Errorf("mass %v: %w", p.Mass, ErrParameterBounds)
	}
	if !(p.Radius >= 0) || math.IsInf(p.Radius, 0) {
		return nil, fmt.Errorf("radius %v: %w", p.Radius, ErrParameterBounds)
	}
	if !p.Position.IsFinite() || !p.Velocity.IsFinite() || !p.Acceleration.IsFinite() {
		return nil, fmt.Errorf("initial kinematics: %w", ErrInvalidState)
	}
	if !finite(p.Rotation) || !finite(p.AngularVelocity) {
		return nil, fmt.Errorf("initial rotation: %w", ErrInvalidState)
	}

	b := &Body{
		Position:        p.Position,
		Velocity:        p.Velocity,
		Acceleration:    p.Acceleration,
		Radius:          p.Radius,
		Shape:           p.Shape.Clone(),
		Rotation:        p.Rotation,
		AngularVelocity: p.AngularVelocity,
		invMass:         1 / p.Mass,
	}
	if i, ok := b.Shape.MomentOfInertia(); ok && i > 0 {
		b.invInertia = 1 / (i * p.Mass)
	}
	b.Shape.Rotate(b.Rotation)
	return b, nil
}

func (b *Body) Mass() float64        { return 1 / b.invMass }
func (b *Body) InverseMass() float64 { return b.invMass }

// MomentOfInertia returns the body inertia, or 0 when the shape has none.
func (b *Body) MomentOfInertia() float64 {
	if b.invInertia == 0 {
		return 0
	}
	return 1 / b.invInertia
}

func (b *Body) AddForce(f Vec2)        { b.force = b.force.Add(f) }
func (b *Body) AddTorque(t float64)    { b.torque += t }
func (b *Body) Force() Vec2            { return b.force }
func (b *Body) Torque() float64        { return b.torque }
func (b *Body) HasShape() bool         { return b.Shape.Kind != ShapeNone }
func (b *Body) KineticEnergy() float64 { return 0.5 * b.Mass() * b.Velocity.LenSq() }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func (b *Body) clearForces() { b.force = Vec2{} }
func (b *Body) clearTorque() { b.torque = 0 }

// Clone returns an independent copy including accumulators.
func (b *Body) Clone() *Body {
	c := *b
	c.Shape = b.Shape.Clone()
	return &c
}
