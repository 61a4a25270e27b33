package physics

import "errors"

// Domain errors for entity construction.
var (
	// ErrParameterBounds indicates a mass, radius or shape parameter outside its valid range.
	ErrParameterBounds = errors.New("physics: parameter out of valid bounds")

	// ErrInvalidState indicates a non-finite position, velocity or acceleration.
	ErrInvalidState = errors.New("physics: invalid state (NaN or Inf detected)")
)
