package sim

import (
	"fmt"

	"github.com/san-kum/sandbox/internal/physics"
)

type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	numDirections
)

// Vector is the unit push for d in screen space (y grows downward).
func (d Direction) Vector() physics.Vec2 {
	switch d {
	case Left:
		return physics.V(-1, 0)
	case Right:
		return physics.V(1, 0)
	case Up:
		return physics.V(0, -1)
	case Down:
		return physics.V(0, 1)
	}
	return physics.Vec2{}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

func ParseDirection(s string) (Direction, error) {
	for d := Direction(0); d < numDirections; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction: %s", s)
}

type CommandKind int

const (
	// CmdPush applies the impulse force for a single frame.
	CmdPush CommandKind = iota
	// CmdHold keeps applying the impulse force every frame until released.
	CmdHold
	CmdRelease
	// CmdSpawn appends a randomized body at At.
	CmdSpawn
)

// Command is one input event. Commands submitted during a frame are
// applied, in order, at the start of the next Step.
type Command struct {
	Kind CommandKind
	Dir  Direction
	At   physics.Vec2
}

func Push(d Direction) Command    { return Command{Kind: CmdPush, Dir: d} }
func Hold(d Direction) Command    { return Command{Kind: CmdHold, Dir: d} }
func Release(d Direction) Command { return Command{Kind: CmdRelease, Dir: d} }

func Spawn(x, y float64) Command {
	return Command{Kind: CmdSpawn, At: physics.V(x, y)}
}
