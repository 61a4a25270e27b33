package physics

import (
	"errors"
	"math"
	"testing"
)

func TestNewBody_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  BodyParams
		wantErr error
	}{
		{"valid", BodyParams{Mass: 1, Radius: 10}, nil},
		{"zero radius", BodyParams{Mass: 1}, nil},
		{"zero mass", BodyParams{Mass: 0, Radius: 1}, ErrParameterBounds},
		{"negative mass", BodyParams{Mass: -3, Radius: 1}, ErrParameterBounds},
		{"NaN mass", BodyParams{Mass: math.NaN(), Radius: 1}, ErrParameterBounds},
		{"infinite mass", BodyParams{Mass: math.Inf(1), Radius: 1}, ErrParameterBounds},
		{"negative radius", BodyParams{Mass: 1, Radius: -1}, ErrParameterBounds},
		{"NaN position", BodyParams{Mass: 1, Position: V(math.NaN(), 0)}, ErrInvalidState},
		{"infinite velocity", BodyParams{Mass: 1, Velocity: V(0, math.Inf(-1))}, ErrInvalidState},
		{"NaN rotation", BodyParams{Mass: 1, Rotation: math.NaN()}, ErrInvalidState},
		{"infinite rotation", BodyParams{Mass: 1, Rotation: math.Inf(1)}, ErrInvalidState},
		{"infinite angular velocity", BodyParams{Mass: 1, AngularVelocity: math.Inf(-1)}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBody(tt.params)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b == nil {
					t.Fatal("expected body, got nil")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if b != nil {
				t.Error("expected nil body on error")
			}
		})
	}
}

func TestBody_Mass(t *testing.T) {
	b, err := NewParticle(Vec2{}, Vec2{}, Vec2{}, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if b.InverseMass() != 0.25 {
		t.Errorf("InverseMass() = %v, want 0.25", b.InverseMass())
	}
	if b.Mass() != 4 {
		t.Errorf("Mass() = %v, want 4", b.Mass())
	}
	if b.HasShape() {
		t.Error("particle should have no shape")
	}
	if b.MomentOfInertia() != 0 {
		t.Errorf("particle inertia = %v, want 0", b.MomentOfInertia())
	}
}

func TestBody_AccumulateForces(t *testing.T) {
	b, _ := NewParticle(Vec2{}, Vec2{}, Vec2{}, 1, 1)
	b.AddForce(V(1, 2))
	b.AddForce(V(-3, 5))
	if b.Force() != V(-2, 7) {
		t.Errorf("Force() = %v, want (-2,7)", b.Force())
	}
	b.AddTorque(1.5)
	b.AddTorque(-0.5)
	if b.Torque() != 1 {
		t.Errorf("Torque() = %v, want 1", b.Torque())
	}
}

func TestBody_CircleInertia(t *testing.T) {
	circle, err := NewCircle(2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBody(BodyParams{Mass: 3, Radius: 2, Shape: circle})
	if err != nil {
		t.Fatal(err)
	}
	// 0.5 * r^2 * m
	if math.Abs(b.MomentOfInertia()-6) > tol {
		t.Errorf("MomentOfInertia() = %v, want 6", b.MomentOfInertia())
	}
}

func TestBody_Clone(t *testing.T) {
	sq, _ := NewSquare(2)
	b, _ := NewBody(BodyParams{Mass: 1, Radius: 3, Shape: sq, Position: V(1, 1)})
	b.AddForce(V(3, 3))

	c := b.Clone()
	c.Position.X = 99
	c.Shape.Vertices[0] = V(42, 42)

	if b.Position.X != 1 {
		t.Error("clone shares position")
	}
	if b.Shape.Vertices[0] == V(42, 42) {
		t.Error("clone shares vertex slice")
	}
	if c.Force() != V(3, 3) {
		t.Errorf("clone force = %v, want (3,3)", c.Force())
	}
}

func TestNewBody_CopiesShape(t *testing.T) {
	sq, _ := NewSquare(1)
	b, _ := NewBody(BodyParams{Mass: 1, Shape: sq})
	sq.Vertices[0] = V(100, 100)
	if b.Shape.Vertices[0] == V(100, 100) {
		t.Error("body aliases caller's vertex slice")
	}
}
