package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/physics"
)

type AttractionMode int

const (
	AttractNone AttractionMode = iota
	AttractFirstPair
	AttractAllPairs
)

func ParseAttraction(s string) (AttractionMode, error) {
	switch s {
	case config.AttractionNone:
		return AttractNone, nil
	case config.AttractionFirstPair, "":
		return AttractFirstPair, nil
	case config.AttractionAllPairs:
		return AttractAllPairs, nil
	}
	return 0, fmt.Errorf("unknown attraction mode: %s", s)
}

// Forces selects the per-frame force generators the world applies.
type Forces struct {
	G               float64
	Attraction      AttractionMode
	FrictionEnabled bool
	Friction        float64
	DragEnabled     bool
	Drag            float64
	Liquid          physics.Rect
	Impulse         float64
}

// World owns the live body collection and runs one frame per Step. It is
// not safe for concurrent use; presentation reads it through Snapshot.
type World struct {
	integ      *physics.Integrator
	forces     Forces
	spawner    *Spawner
	bodies     []*physics.Body
	controlled int
	held       [numDirections]bool
	pending    []Command
	frame      int
	elapsed    float64
	bounces    int
	log        *slog.Logger
}

func NewWorld(integ *physics.Integrator, forces Forces, spawner *Spawner, log *slog.Logger) *World {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := &World{
		integ:   integ,
		forces:  forces,
		spawner: spawner,
		bodies:  make([]*physics.Body, 0),
		log:     log,
	}
	integ.OnBounce = func(*physics.Body) { w.bounces++ }
	return w
}

// FromConfig builds a world and its initial bodies. rng feeds the spawner;
// when nil a source seeded from cfg.Run.Seed is used.
func FromConfig(cfg *config.Config, rng Rand, log *slog.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseAttraction(cfg.Forces.Attraction)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Run.Seed))
	}

	wc := cfg.World
	integ := physics.NewIntegrator(
		physics.NewBoundary(wc.Width, wc.Height, wc.Restitution),
		wc.GravityEnabled,
		physics.V(wc.Gravity.X, wc.Gravity.Y),
	)
	forces := Forces{
		G:               cfg.Forces.G,
		Attraction:      mode,
		FrictionEnabled: cfg.Forces.FrictionEnabled,
		Friction:        cfg.Forces.Friction,
		DragEnabled:     cfg.Forces.DragEnabled,
		Drag:            cfg.Forces.Drag,
		Liquid:          physics.Rect{X: wc.Liquid.X, Y: wc.Liquid.Y, W: wc.Liquid.W, H: wc.Liquid.H},
		Impulse:         cfg.Forces.Impulse,
	}
	w := NewWorld(integ, forces, NewSpawner(rng, SpawnRangesFromConfig(cfg.Spawn)), log)

	for i, bc := range cfg.Bodies {
		shape, err := buildShape(ParseShapeKind(bc.Shape), bc.Radius)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		b, err := physics.NewBody(physics.BodyParams{
			Position: physics.V(bc.X, bc.Y),
			Velocity: physics.V(bc.VX, bc.VY),
			Mass:     bc.Mass,
			Radius:   bc.Radius,
			Shape:    shape,
		})
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		w.Add(b)
	}
	if len(cfg.Bodies) > 0 {
		if err := w.SetControlled(cfg.Controlled); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Add appends b and returns its index.
func (w *World) Add(b *physics.Body) int {
	w.bodies = append(w.bodies, b)
	return len(w.bodies) - 1
}

func (w *World) Len() int             { return len(w.bodies) }
func (w *World) Frame() int           { return w.frame }
func (w *World) Elapsed() float64     { return w.elapsed }
func (w *World) Bounces() int         { return w.bounces }
func (w *World) Controlled() int      { return w.controlled }
func (w *World) Forces() Forces       { return w.forces }
func (w *World) Bounds() physics.Rect { return w.integ.Boundary.Bounds() }
func (w *World) Liquid() physics.Rect { return w.forces.Liquid }

// Body returns the live body at i. The pointer must not be kept past the frame.
func (w *World) Body(i int) (*physics.Body, error) {
	if i < 0 || i >= len(w.bodies) {
		return nil, fmt.Errorf("body %d of %d: %w", i, len(w.bodies), ErrUnknownEntity)
	}
	return w.bodies[i], nil
}

func (w *World) SetControlled(i int) error {
	if _, err := w.Body(i); err != nil {
		return err
	}
	w.controlled = i
	return nil
}

// Held reports whether an impulse direction is currently held.
func (w *World) Held(d Direction) bool {
	return d >= 0 && d < numDirections && w.held[d]
}

// Submit queues cmd for the next Step.
func (w *World) Submit(cmd Command) {
	w.pending = append(w.pending, cmd)
}

// Step runs one frame: input, force gathering, integration and boundary
// response, in that order.
func (w *World) Step(dt float64) {
	w.applyCommands()
	w.applyImpulses()
	w.applyAttraction()
	w.applyMediumForces()

	for _, b := range w.bodies {
		w.integ.Step(b, dt)
	}

	w.frame++
	w.elapsed += dt
}

func (w *World) applyCommands() {
	for _, cmd := range w.pending {
		switch cmd.Kind {
		case CmdPush:
			if b, err := w.Body(w.controlled); err == nil {
				b.AddForce(cmd.Dir.Vector().Scale(w.forces.Impulse))
			}
		case CmdHold:
			if cmd.Dir >= 0 && cmd.Dir < numDirections {
				w.held[cmd.Dir] = true
			}
		case CmdRelease:
			if cmd.Dir >= 0 && cmd.Dir < numDirections {
				w.held[cmd.Dir] = false
			}
		case CmdSpawn:
			w.spawn(cmd.At)
		}
	}
	w.pending = w.pending[:0]
}

func (w *World) spawn(at physics.Vec2) {
	if w.spawner == nil {
		return
	}
	b, err := w.spawner.Spawn(at)
	if err != nil {
		w.log.Warn("spawn rejected", "x", at.X, "y", at.Y, "error", err)
		return
	}
	id := w.Add(b)
	w.log.Debug("spawned body", "id", id, "x", at.X, "y", at.Y, "mass", b.Mass(), "radius", b.Radius, "shape", b.Shape.Kind.String())
}

func (w *World) applyImpulses() {
	b, err := w.Body(w.controlled)
	if err != nil {
		return
	}
	for d := Direction(0); d < numDirections; d++ {
		if w.held[d] {
			b.AddForce(d.Vector().Scale(w.forces.Impulse))
		}
	}
}

func (w *World) applyAttraction() {
	switch w.forces.Attraction {
	case AttractFirstPair:
		if len(w.bodies) >= 2 {
			w.attract(w.bodies[0], w.bodies[1])
		}
	case AttractAllPairs:
		for i := 0; i < len(w.bodies); i++ {
			for j := i + 1; j < len(w.bodies); j++ {
				w.attract(w.bodies[i], w.bodies[j])
			}
		}
	}
}

func (w *World) attract(a, b *physics.Body) {
	fa, fb := physics.GravitationalAttraction(a, b, w.forces.G)
	a.AddForce(fa)
	b.AddForce(fb)
}

func (w *World) applyMediumForces() {
	if !w.forces.FrictionEnabled && !w.forces.DragEnabled {
		return
	}
	for _, b := range w.bodies {
		if w.forces.FrictionEnabled {
			b.AddForce(physics.Friction(b.Velocity, w.forces.Friction))
		}
		if w.forces.DragEnabled && w.forces.Liquid.Contains(b.Position) {
			b.AddForce(physics.Drag(b.Velocity, w.forces.Drag))
		}
	}
}

// Snapshot copies the current state for presentation.
func (w *World) Snapshot() Frame {
	views := make([]BodyView, len(w.bodies))
	for i, b := range w.bodies {
		views[i] = BodyView{
			ID:         i,
			Position:   b.Position,
			Velocity:   b.Velocity,
			Radius:     b.Radius,
			Mass:       b.Mass(),
			Rotation:   b.Rotation,
			Shape:      b.Shape.Clone(),
			Controlled: i == w.controlled,
		}
	}
	return Frame{Index: w.frame, Time: w.elapsed, Bounces: w.bounces, Bodies: views}
}
