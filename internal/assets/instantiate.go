package assets

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/logger"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// PublishMeshes inserts every mesh of the manifest into the store.
func (m *Manifest) PublishMeshes(store *geometry.Store) {
	for _, mesh := range m.Meshes {
		store.Insert(geometry.Handle(mesh.Handle), mesh.Record())
	}
	logger.Debug("meshes published",
		zap.String("collection", m.Collection),
		zap.Int("count", len(m.Meshes)))
}

// Instantiator spawns a manifest's node trees into a world a fixed number
// of ticks after loading finished, the way scene instantiation trails the
// loader by a few frames.
type Instantiator struct {
	manifest *Manifest
	lag      int
	waited   int
	roots    []scene.Handle
	spawned  bool
}

// NewInstantiator creates an instantiator that waits lag ticks after
// loading before spawning.
func NewInstantiator(m *Manifest, lag int) *Instantiator {
	return &Instantiator{manifest: m, lag: lag}
}

// Update advances the instantiator by one tick. It spawns at most once.
func (i *Instantiator) Update(loaded bool, w *scene.World) error {
	if i.spawned || !loaded {
		return nil
	}
	if i.waited < i.lag {
		i.waited++
		return nil
	}

	roots, err := Spawn(w, i.manifest.Nodes)
	if err != nil {
		return err
	}
	i.roots = roots
	i.spawned = true

	logger.Info("scene instantiated",
		zap.String("collection", i.manifest.Collection),
		zap.Int("roots", len(roots)),
		zap.Int("nodes", w.Len()))
	return nil
}

// Spawned reports whether the node trees exist in the world.
func (i *Instantiator) Spawned() bool {
	return i.spawned
}

// Roots returns the spawned root handles.
func (i *Instantiator) Roots() []scene.Handle {
	return i.roots
}

// Spawn creates the node trees as new roots of w. On failure every tree
// spawned by this call is despawned again.
func Spawn(w *scene.World, nodes []NodeSpec) ([]scene.Handle, error) {
	roots := make([]scene.Handle, 0, len(nodes))
	for _, spec := range nodes {
		h := w.Spawn(toNode(spec))
		roots = append(roots, h)
		if err := spawnChildren(w, h, spec.Children); err != nil {
			Despawn(w, roots)
			return nil, fmt.Errorf("spawning %q: %w", spec.Name, err)
		}
	}
	return roots, nil
}

// Despawn removes the given root trees from w, skipping stale handles.
func Despawn(w *scene.World, roots []scene.Handle) {
	for _, h := range roots {
		if err := w.Despawn(h); err != nil {
			logger.Debug("despawn skipped", zap.Stringer("node", h), zap.Error(err))
		}
	}
}

func spawnChildren(w *scene.World, parent scene.Handle, specs []NodeSpec) error {
	for _, spec := range specs {
		h, err := w.SpawnChild(parent, toNode(spec))
		if err != nil {
			return err
		}
		if err := spawnChildren(w, h, spec.Children); err != nil {
			return err
		}
	}
	return nil
}

func toNode(spec NodeSpec) scene.Node {
	return scene.Node{
		Name:            spec.Name,
		Transform:       spec.Transform(),
		Mesh:            geometry.Handle(spec.Mesh),
		ColliderRequest: spec.Collider,
	}
}
