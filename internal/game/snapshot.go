package game

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-collider/internal/scene"
)

// Snapshot is a serialisable summary of the baked scene.
type Snapshot struct {
	Session         string          `yaml:"session"`
	Frames          int             `yaml:"frames"`
	GateTicks       uint64          `yaml:"gate_ticks"`
	State           string          `yaml:"state"`
	Roots           []string        `yaml:"roots"`
	Colliders       []ColliderEntry `yaml:"colliders"`
	RigidBodies     []BodyEntry     `yaml:"rigid_bodies"`
	RemainingMeshes int             `yaml:"remaining_meshes"`
}

// ColliderEntry describes one collider node.
type ColliderEntry struct {
	Node      string     `yaml:"node"`
	Parent    string     `yaml:"parent"`
	Parts     int        `yaml:"parts"`
	Triangles int        `yaml:"triangles"`
	Min       [3]float32 `yaml:"min,flow"`
	Max       [3]float32 `yaml:"max,flow"`
}

// BodyEntry describes one rigid body.
type BodyEntry struct {
	Node string `yaml:"node"`
	Kind string `yaml:"kind"`
	CCD  bool   `yaml:"ccd"`
}

// Snapshot collects the current colliders and rigid bodies in arena order.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Session:         s.ID,
		Frames:          s.frame,
		GateTicks:       s.ctx.Ticks(),
		State:           s.ctx.State().String(),
		RemainingMeshes: s.store.Len(),
	}

	for _, h := range s.spawner.Roots() {
		if n, ok := s.world.Node(h); ok {
			snap.Roots = append(snap.Roots, n.Name)
		}
	}

	s.world.Each(func(h scene.Handle, n *scene.Node) {
		if n.Collider != nil {
			entry := ColliderEntry{
				Node:      n.Name,
				Parts:     len(n.Collider.Parts),
				Triangles: n.Collider.TriangleCount(),
			}
			if p, ok := s.world.Parent(h); ok {
				pn, _ := s.world.Node(p)
				entry.Parent = pn.Name
			}
			min, max := n.Collider.Bounds()
			entry.Min, entry.Max = min, max
			snap.Colliders = append(snap.Colliders, entry)
		}
		if n.RigidBody != nil {
			snap.RigidBodies = append(snap.RigidBodies, BodyEntry{
				Node: n.Name,
				Kind: n.RigidBody.Kind.String(),
				CCD:  n.RigidBody.CCD,
			})
		}
	})
	return snap
}

// WriteReport writes the snapshot as YAML, creating parent directories.
func (s *Session) WriteReport(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
