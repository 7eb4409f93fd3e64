package physics

import "errors"

// Content errors. They indicate a broken scene or asset and are never
// retried.
var (
	ErrMissingChildren  = errors.New("collider request node has no children")
	ErrMissingMesh      = errors.New("collider request node has no mesh child")
	ErrGeometryNotFound = errors.New("mesh geometry not found in store")
)
