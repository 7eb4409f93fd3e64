package collider

import (
	"errors"
	"fmt"
)

// Geometry format errors.
var (
	ErrMissingPositions = errors.New("mesh has no position attribute")
	ErrMissingIndices   = errors.New("mesh has no index buffer")
	ErrMalformedIndices = errors.New("malformed index buffer")
)

// InvalidPositionsTypeError reports a position buffer that is not encoded
// as three 32-bit floats. Name is the encoding actually found.
type InvalidPositionsTypeError struct {
	Name string
}

func (e *InvalidPositionsTypeError) Error() string {
	return fmt.Sprintf("invalid positions type: %s (expected Float32x3)", e.Name)
}
