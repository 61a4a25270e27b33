// Package physics provides the point-mass engine behind the sandbox.
//
// The package is split into a few small pieces:
//
//   - [Vec2]: value-type 2D vector
//   - [Drag], [Friction], [GravitationalAttraction]: stateless force generators
//   - [Body]: point mass with optional [Shape] and force/torque accumulators
//   - [Integrator]: semi-implicit Euler step followed by the [Boundary] clamp
//
// Force generators never touch a body; callers add their result:
//
//	fa, fb := physics.GravitationalAttraction(a, b, 100)
//	a.AddForce(fa)
//	b.AddForce(fb)
//	integ.Step(a, dt)
//	integ.Step(b, dt)
//
// After Step, a body's force and torque accumulators are zero.
package physics
