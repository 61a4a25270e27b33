package physics

// DefaultRestitution is the fraction of normal speed kept after a wall bounce.
const DefaultRestitution = 0.9

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Boundary clamps bodies into [0, Width] x [0, Height] after integration.
// It is a penetration clamp: a body can tunnel past a wall within one step
// and is placed back on the edge, not reflected at the contact time.
type Boundary struct {
	Width, Height float64
	Restitution   float64
}

func NewBoundary(width, height, restitution float64) Boundary {
	return Boundary{Width: width, Height: height, Restitution: restitution}
}

// Bounds returns the world rectangle.
func (w Boundary) Bounds() Rect {
	return Rect{W: w.Width, H: w.Height}
}

// Resolve clamps b per axis and reports whether any wall was hit.
func (w Boundary) Resolve(b *Body) bool {
	hitX := resolveAxis(&b.Position.X, &b.Velocity.X, b.Radius, w.Width, w.Restitution)
	hitY := resolveAxis(&b.Position.Y, &b.Velocity.Y, b.Radius, w.Height, w.Restitution)
	return hitX || hitY
}

func resolveAxis(pos, vel *float64, radius, bound, restitution float64) bool {
	switch {
	case *pos-radius < 0:
		*pos = radius
	case *pos+radius > bound:
		*pos = bound - radius
	default:
		return false
	}
	*vel *= -restitution
	return true
}
