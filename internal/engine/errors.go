package engine

import "github.com/pkg/errors"

// Errors returned by the engine. They are wrapped with context, match them with errors.Is.
var (
	ErrOutOfBounds        = errors.New("square out of bounds")
	ErrIllegalMover       = errors.New("illegal mover")
	ErrInvariantViolation = errors.New("board invariant violated")
	ErrNoMovesAvailable   = errors.New("no moves available")
	ErrBadFEN             = errors.New("malformed FEN")
	ErrBadSnapshot        = errors.New("malformed snapshot")
)
