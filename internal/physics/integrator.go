package physics

// DefaultGravity is 9.8 m/s^2 at 50 px per metre, pointing down the screen.
var DefaultGravity = Vec2{X: 0, Y: 9.8 * 50}

// Integrator advances bodies with semi-implicit Euler and applies the
// boundary clamp. Gravity and bounds are fixed at construction.
type Integrator struct {
	Boundary       Boundary
	GravityEnabled bool
	Gravity        Vec2

	// OnBounce, if set, is called once per step for each body that hit a wall.
	OnBounce func(b *Body)
}

func NewIntegrator(boundary Boundary, gravityEnabled bool, gravity Vec2) *Integrator {
	return &Integrator{
		Boundary:       boundary,
		GravityEnabled: gravityEnabled,
		Gravity:        gravity,
	}
}

// Step integrates b over dt, consuming and then clearing its accumulators.
// Velocity is updated before position.
func (in *Integrator) Step(b *Body, dt float64) {
	in.integrateLinear(b, dt)
	in.integrateAngular(b, dt)
}

func (in *Integrator) integrateLinear(b *Body, dt float64) {
	acc := b.force.Scale(b.invMass)
	if in.GravityEnabled {
		acc = acc.Add(in.Gravity)
	}
	b.Acceleration = acc

	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if in.Boundary.Resolve(b) && in.OnBounce != nil {
		in.OnBounce(b)
	}
	b.clearForces()
}

func (in *Integrator) integrateAngular(b *Body, dt float64) {
	b.AngularAcceleration = b.torque * b.invInertia
	b.AngularVelocity += b.AngularAcceleration * dt
	b.Rotation += b.AngularVelocity * dt
	b.Shape.Rotate(b.Rotation)
	b.clearTorque()
}
