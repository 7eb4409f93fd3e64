package scene

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Hierarchy errors.
var (
	ErrStaleHandle    = errors.New("stale or unknown node handle")
	ErrHierarchyCycle = errors.New("node hierarchy contains a cycle")
)

type slot struct {
	node       Node
	generation uint32
	seq        uint64
	alive      bool
}

// World is an arena of scene nodes. Freed slots are reused, so slot order
// is not spawn order; seq records the latter.
type World struct {
	slots   []slot
	free    []uint32
	alive   int
	nextSeq uint64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Spawn adds a root node and returns its handle.
func (w *World) Spawn(n Node) Handle {
	n.parent = Nil
	n.children = nil

	var idx uint32
	if len(w.free) > 0 {
		idx = w.free[len(w.free)-1]
		w.free = w.free[:len(w.free)-1]
	} else {
		idx = uint32(len(w.slots))
		// Generation 0 is reserved so the zero Handle never resolves.
		w.slots = append(w.slots, slot{generation: 0})
	}

	s := &w.slots[idx]
	s.generation++
	s.seq = w.nextSeq
	w.nextSeq++
	s.node = n
	s.alive = true
	w.alive++

	return Handle{Index: idx, Generation: s.generation}
}

// SpawnChild adds a node as the last child of parent.
func (w *World) SpawnChild(parent Handle, n Node) (Handle, error) {
	if _, ok := w.Node(parent); !ok {
		return Nil, fmt.Errorf("spawning child of %s: %w", parent, ErrStaleHandle)
	}
	h := w.Spawn(n)
	// The new node has no children, so attaching cannot form a cycle.
	w.attach(parent, h)
	return h, nil
}

// Node returns the node for a handle. The pointer is only valid until the
// next Spawn.
func (w *World) Node(h Handle) (*Node, bool) {
	if h.Generation == 0 || int(h.Index) >= len(w.slots) {
		return nil, false
	}
	s := &w.slots[h.Index]
	if !s.alive || s.generation != h.Generation {
		return nil, false
	}
	return &s.node, true
}

// Parent returns the parent of h, if any.
func (w *World) Parent(h Handle) (Handle, bool) {
	n, ok := w.Node(h)
	if !ok || n.parent.IsNil() {
		return Nil, false
	}
	return n.parent, true
}

// Children returns the children of h in order.
func (w *World) Children(h Handle) []Handle {
	n, ok := w.Node(h)
	if !ok {
		return nil
	}
	return n.children
}

// Root walks parent links from h until it reaches a node without a parent.
func (w *World) Root(h Handle) (Handle, error) {
	if _, ok := w.Node(h); !ok {
		return Nil, fmt.Errorf("resolving root of %s: %w", h, ErrStaleHandle)
	}

	cur := h
	for steps := 0; ; steps++ {
		if steps > len(w.slots) {
			return Nil, fmt.Errorf("resolving root of %s: %w", h, ErrHierarchyCycle)
		}
		parent, ok := w.Parent(cur)
		if !ok {
			return cur, nil
		}
		cur = parent
	}
}

// GlobalTransform composes the local transforms from the root down to h.
func (w *World) GlobalTransform(h Handle) (Transform, error) {
	n, ok := w.Node(h)
	if !ok {
		return Transform{}, fmt.Errorf("global transform of %s: %w", h, ErrStaleHandle)
	}

	chain := []Transform{n.Transform}
	cur := h
	for steps := 0; ; steps++ {
		if steps > len(w.slots) {
			return Transform{}, fmt.Errorf("global transform of %s: %w", h, ErrHierarchyCycle)
		}
		parent, ok := w.Parent(cur)
		if !ok {
			break
		}
		pn, _ := w.Node(parent)
		chain = append(chain, pn.Transform)
		cur = parent
	}

	global := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		global = global.Mul(chain[i])
	}
	return global, nil
}

// ColliderRequests returns every live node carrying the collider request
// marker, oldest spawn first.
func (w *World) ColliderRequests() []Handle {
	var out []Handle
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive && s.node.ColliderRequest {
			out = append(out, Handle{Index: uint32(i), Generation: s.generation})
		}
	}
	slices.SortFunc(out, func(a, b Handle) int {
		return cmp.Compare(w.slots[a.Index].seq, w.slots[b.Index].seq)
	})
	return out
}

// InsertRigidBody sets the rigid body of h, replacing any existing one.
func (w *World) InsertRigidBody(h Handle, rb RigidBody) error {
	n, ok := w.Node(h)
	if !ok {
		return fmt.Errorf("inserting rigid body on %s: %w", h, ErrStaleHandle)
	}
	n.RigidBody = &rb
	return nil
}

// Despawn removes h and all of its descendants.
func (w *World) Despawn(h Handle) error {
	if _, ok := w.Node(h); !ok {
		return fmt.Errorf("despawning %s: %w", h, ErrStaleHandle)
	}
	w.detach(h)
	w.despawnRecursive(h)
	return nil
}

// Len returns the number of live nodes.
func (w *World) Len() int {
	return w.alive
}

// Each calls fn for every live node in arena order.
func (w *World) Each(fn func(h Handle, n *Node)) {
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive {
			fn(Handle{Index: uint32(i), Generation: s.generation}, &s.node)
		}
	}
}

func (w *World) despawnRecursive(h Handle) {
	n, ok := w.Node(h)
	if !ok {
		return
	}
	children := n.children
	for _, c := range children {
		w.despawnRecursive(c)
	}

	s := &w.slots[h.Index]
	s.alive = false
	s.node = Node{}
	w.free = append(w.free, h.Index)
	w.alive--
}

func (w *World) attach(parent, child Handle) {
	p, _ := w.Node(parent)
	c, _ := w.Node(child)
	p.children = append(p.children, child)
	c.parent = parent
}

func (w *World) detach(child Handle) {
	c, _ := w.Node(child)
	if c.parent.IsNil() {
		return
	}
	if p, ok := w.Node(c.parent); ok {
		for i, h := range p.children {
			if h == child {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	c.parent = Nil
}
