package physics

import "math"

// Squared-distance clamp for GravitationalAttraction. Coordinates are pixels,
// so raw inverse-square forces explode at close range and vanish at range.
const (
	MinAttractionDistSq = 5.0
	MaxAttractionDistSq = 100.0
)

// Drag returns quadratic drag: magnitude k*|v|^2, opposite to v.
// k lumps fluid density, drag coefficient and cross-section.
func Drag(velocity Vec2, k float64) Vec2 {
	speed := velocity.Len()
	if speed == 0 {
		return Vec2{}
	}
	return velocity.Scale(-k * speed)
}

// Friction returns linear friction -k*v.
func Friction(velocity Vec2, k float64) Vec2 {
	return velocity.Scale(-k)
}

// GravitationalAttraction returns the force on a and the force on b.
// The pair always sums to zero. Coincident positions yield zero forces.
func GravitationalAttraction(a, b *Body, g float64) (onA, onB Vec2) {
	d := b.Position.Sub(a.Position)
	distSq := d.LenSq()
	if distSq == 0 {
		return Vec2{}, Vec2{}
	}

	dir := d.Scale(1 / math.Sqrt(distSq))
	clamped := clamp(distSq, MinAttractionDistSq, MaxAttractionDistSq)
	magnitude := g * a.Mass() * b.Mass() / clamped

	onA = dir.Scale(magnitude)
	return onA, onA.Neg()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
