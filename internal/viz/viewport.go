package viz

import (
	"math"

	"github.com/san-kum/sandbox/internal/physics"
)

// Viewport maps world coordinates onto a Braille canvas with a uniform
// scale, so circles stay round.
type Viewport struct {
	World      physics.Rect
	Cols, Rows int
	scale      float64 // sub-pixels per world unit
}

// FitViewport picks the largest canvas within maxCols x maxRows cells that
// holds world at its aspect ratio.
func FitViewport(world physics.Rect, maxCols, maxRows int) Viewport {
	maxCols = max(maxCols, 1)
	maxRows = max(maxRows, 1)

	s := math.Min(float64(maxCols*2)/world.W, float64(maxRows*4)/world.H)
	cols := min(max(int(math.Ceil(world.W*s/2)), 1), maxCols)
	rows := min(max(int(math.Ceil(world.H*s/4)), 1), maxRows)
	return Viewport{World: world, Cols: cols, Rows: rows, scale: s}
}

func (v Viewport) Scale() float64 { return v.scale }

// ToCanvas returns the sub-pixel holding p.
func (v Viewport) ToCanvas(p physics.Vec2) (int, int) {
	return int(math.Floor((p.X - v.World.X) * v.scale)), int(math.Floor((p.Y - v.World.Y) * v.scale))
}

// Length converts a world distance to sub-pixels.
func (v Viewport) Length(d float64) int {
	return int(math.Round(d * v.scale))
}

// CellToWorld returns the world point under the center of a terminal cell
// and whether it lies inside the world.
func (v Viewport) CellToWorld(col, row int) (physics.Vec2, bool) {
	if col < 0 || row < 0 || col >= v.Cols || row >= v.Rows || v.scale == 0 {
		return physics.Vec2{}, false
	}
	p := physics.V(
		v.World.X+float64(col*2+1)/v.scale,
		v.World.Y+float64(row*4+2)/v.scale,
	)
	return p, v.World.Contains(p)
}
