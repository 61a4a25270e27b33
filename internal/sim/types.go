package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/sandbox/internal/physics"
)

// ErrUnknownEntity indicates an entity index outside the live collection.
var ErrUnknownEntity = errors.New("sim: unknown entity")

// BodyView is a read-only copy of one body, handed to presentation and observers.
type BodyView struct {
	ID         int
	Position   physics.Vec2
	Velocity   physics.Vec2
	Radius     float64
	Mass       float64
	Rotation   float64
	Shape      physics.Shape
	Controlled bool
}

func (v BodyView) KineticEnergy() float64 {
	return 0.5 * v.Mass * v.Velocity.LenSq()
}

// Frame is the world state after a step. Index 0 is the initial state.
type Frame struct {
	Index   int
	Time    float64
	Bounces int
	Bodies  []BodyView
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type RunConfig struct {
	Dt       float64
	Frames   int
	Record   bool
	Schedule []Scheduled
}

// Scheduled submits Cmd just before frame Frame is stepped (1-based).
type Scheduled struct {
	Frame int
	Cmd   Command
}

type Result struct {
	Frames    []Frame
	Metrics   map[string]float64
	FramesRun int
	SimTime   float64
	BodyCount int
	Bounces   int
	Bounds    physics.Rect
}

type StepError struct {
	Frame   int
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}
