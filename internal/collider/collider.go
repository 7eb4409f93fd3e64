// Package collider converts mesh geometry into convex collision volumes.
package collider

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-collider/internal/geometry"
)

// Converter turns geometry records into collision volumes using a
// convex decomposition primitive.
type Converter struct {
	Decomposer Decomposer
}

// FromGeometry converts a record with the default decomposer.
func FromGeometry(rec *geometry.Record) (*Volume, error) {
	return Converter{Decomposer: DefaultDecomposer}.Convert(rec)
}

// Convert validates the record and decomposes it.
// Returns ErrMissingPositions, ErrMissingIndices, *InvalidPositionsTypeError
// or ErrMalformedIndices for unusable input.
func (c Converter) Convert(rec *geometry.Record) (*Volume, error) {
	if rec == nil || rec.Positions == nil {
		return nil, ErrMissingPositions
	}
	if rec.Indices == nil {
		return nil, ErrMissingIndices
	}

	positions, ok := rec.Positions.Float32x3()
	if !ok {
		return nil, &InvalidPositionsTypeError{Name: rec.Positions.Format.String()}
	}

	triangles, err := Triangles(rec.Indices, len(positions))
	if err != nil {
		return nil, err
	}

	vertices := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = mgl32.Vec3(p)
	}

	d := c.Decomposer
	if d == nil {
		d = DefaultDecomposer
	}
	return d.Decompose(vertices, triangles), nil
}

// Triangles widens the index buffer and splits it into consecutive triples.
// The buffer length must be a multiple of 3 and every index must address
// one of vertexCount positions.
func Triangles(idx *geometry.Indices, vertexCount int) ([][3]uint32, error) {
	flat := idx.Widen()
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrMalformedIndices, len(flat))
	}

	triangles := make([][3]uint32, 0, len(flat)/3)
	for i := 0; i < len(flat); i += 3 {
		tri := [3]uint32{flat[i], flat[i+1], flat[i+2]}
		for _, v := range tri {
			if int(v) >= vertexCount {
				return nil, fmt.Errorf("%w: index %d out of range (%d vertices)", ErrMalformedIndices, v, vertexCount)
			}
		}
		triangles = append(triangles, tri)
	}
	return triangles, nil
}
