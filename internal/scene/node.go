// Package scene implements the node hierarchy that colliders are baked into.
// Nodes live in an arena owned by World and are addressed by Handle; a
// child list owns its children while the parent link is a lookup only.
package scene

import (
	"fmt"

	"github.com/Faultbox/midgard-collider/internal/collider"
	"github.com/Faultbox/midgard-collider/internal/geometry"
)

// Handle addresses a node in a World. Handles of despawned nodes go stale
// and no longer resolve, even if the slot is reused.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero handle. It never resolves.
var Nil Handle

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h == Nil
}

func (h Handle) String() string {
	return fmt.Sprintf("%dv%d", h.Index, h.Generation)
}

// BodyKind selects how the physics engine moves a rigid body.
type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyFixed
)

// String returns a human-readable body kind.
func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "Dynamic"
	case BodyFixed:
		return "Fixed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// RigidBody describes the dynamics attached to a node.
type RigidBody struct {
	Kind BodyKind
	CCD  bool // continuous collision detection
}

// Node is a scene hierarchy entry and the components attached to it.
type Node struct {
	Name      string
	Transform Transform

	parent   Handle
	children []Handle

	// Mesh references geometry in the asset store; empty when the node
	// carries no mesh.
	Mesh geometry.Handle

	// ColliderRequest marks the node as wanting a collider baked from the
	// mesh of one of its children.
	ColliderRequest bool

	Collider  *collider.Volume
	RigidBody *RigidBody
}

// HasMesh reports whether the node references mesh geometry.
func (n *Node) HasMesh() bool {
	return n.Mesh != ""
}

// Parent returns the parent handle, or Nil for a root.
func (n *Node) Parent() Handle {
	return n.parent
}

// Children returns the node's children in insertion order.
// The slice must not be modified.
func (n *Node) Children() []Handle {
	return n.children
}
