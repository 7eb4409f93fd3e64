package physics

import (
	"fmt"

	"github.com/Faultbox/midgard-collider/internal/collider"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// ColliderSuffix is appended to the request node's name to name the
// spawned collider child.
const ColliderSuffix = ".collider"

// Attachment records where one baked collider ended up.
type Attachment struct {
	Node     scene.Handle // collider request node
	Root     scene.Handle // topmost ancestor, holds the rigid body
	Collider scene.Handle // spawned collider child of Node
}

// Resolver places a baked collider into the hierarchy.
type Resolver struct{}

// Attach spawns a collider child under node and makes node's topmost
// ancestor a dynamic, CCD-enabled rigid body. No other node is touched.
func (Resolver) Attach(w *scene.World, node scene.Handle, transform scene.Transform, vol *collider.Volume) (Attachment, error) {
	root, err := w.Root(node)
	if err != nil {
		return Attachment{}, err
	}

	n, ok := w.Node(node)
	if !ok {
		return Attachment{}, fmt.Errorf("attaching collider: %w", scene.ErrStaleHandle)
	}

	// The request node's local transform is reused as is. It is relative to
	// the request node's parent, so under node it may apply the ancestor
	// rotation twice.
	child, err := w.SpawnChild(node, scene.Node{
		Name:      n.Name + ColliderSuffix,
		Transform: transform,
		Collider:  vol,
	})
	if err != nil {
		return Attachment{}, err
	}

	if err := w.InsertRigidBody(root, scene.RigidBody{Kind: scene.BodyDynamic, CCD: true}); err != nil {
		return Attachment{}, err
	}

	return Attachment{Node: node, Root: root, Collider: child}, nil
}
