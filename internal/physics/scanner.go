package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/collider"
	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/logger"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// Report summarises one collider pass.
type Report struct {
	Attachments []Attachment
	Consumed    []geometry.Handle
}

// Processed returns the number of collider request nodes handled.
func (r Report) Processed() int {
	return len(r.Attachments)
}

// Scanner finds collider request nodes and bakes their colliders.
type Scanner struct {
	Converter collider.Converter
	Resolver  Resolver
}

// plannedCollider is a fully validated request, ready to commit.
type plannedCollider struct {
	node      scene.Handle
	name      string
	mesh      geometry.Handle
	transform scene.Transform
	global    scene.Transform
	volume    *collider.Volume
}

// Pass processes every collider request node currently in the world.
//
// All requests are validated and converted before anything is mutated, so
// a failing request leaves the world, the store and ctx untouched. When at
// least one request was processed, ctx moves to Done.
func (s Scanner) Pass(ctx *Context, w *scene.World, store *geometry.Store) (Report, error) {
	requests := w.ColliderRequests()
	if len(requests) == 0 {
		return Report{}, nil
	}

	plans := make([]plannedCollider, 0, len(requests))
	claimed := make(map[geometry.Handle]string, len(requests))
	for _, h := range requests {
		plan, err := s.plan(w, store, h, claimed)
		if err != nil {
			return Report{}, err
		}
		plans = append(plans, plan)
	}

	log := logger.Named("physics")
	var report Report
	for _, p := range plans {
		// Ownership of the geometry moves to the collider.
		store.Remove(p.mesh)
		report.Consumed = append(report.Consumed, p.mesh)

		// The collider child copies the local transform while also inheriting
		// it through its parent, so both are logged for comparison.
		log.Debug("collider transform",
			zap.String("node", p.name),
			zap.Float32s("translation", p.transform.Translation[:]),
			zap.Float32s("rotation", quatFloats(p.transform.Rotation)),
			zap.Float32s("scale", p.transform.Scale[:]),
			zap.Float32s("global_translation", p.global.Translation[:]),
			zap.Float32s("global_rotation", quatFloats(p.global.Rotation)))

		att, err := s.Resolver.Attach(w, p.node, p.transform, p.volume)
		if err != nil {
			return report, fmt.Errorf("attaching collider for %q: %w", p.name, err)
		}
		report.Attachments = append(report.Attachments, att)

		log.Info("collider attached",
			zap.String("node", p.name),
			zap.Stringer("root", att.Root),
			zap.String("mesh", string(p.mesh)),
			zap.Int("parts", len(p.volume.Parts)),
			zap.Int("triangles", p.volume.TriangleCount()))
	}

	if ctx.markDone() {
		log.Info("collider baking done", zap.Int("processed", report.Processed()))
	}
	return report, nil
}

// plan validates one request node and converts its mesh without removing
// the geometry from the store.
func (s Scanner) plan(w *scene.World, store *geometry.Store, h scene.Handle, claimed map[geometry.Handle]string) (plannedCollider, error) {
	n, ok := w.Node(h)
	if !ok {
		return plannedCollider{}, fmt.Errorf("collider request %s: %w", h, scene.ErrStaleHandle)
	}

	children := n.Children()
	if len(children) == 0 {
		return plannedCollider{}, fmt.Errorf("%q: %w", n.Name, ErrMissingChildren)
	}

	var mesh geometry.Handle
	for _, c := range children {
		if cn, ok := w.Node(c); ok && cn.HasMesh() {
			mesh = cn.Mesh
			break
		}
	}
	if mesh == "" {
		return plannedCollider{}, fmt.Errorf("%q: %w", n.Name, ErrMissingMesh)
	}

	if other, dup := claimed[mesh]; dup {
		return plannedCollider{}, fmt.Errorf("%q: mesh %s already consumed by %q: %w", n.Name, mesh, other, ErrGeometryNotFound)
	}
	rec, ok := store.Get(mesh)
	if !ok {
		return plannedCollider{}, fmt.Errorf("%q: mesh %s: %w", n.Name, mesh, ErrGeometryNotFound)
	}

	vol, err := s.Converter.Convert(rec)
	if err != nil {
		return plannedCollider{}, fmt.Errorf("%q: converting mesh %s: %w", n.Name, mesh, err)
	}
	global, err := w.GlobalTransform(h)
	if err != nil {
		return plannedCollider{}, fmt.Errorf("%q: %w", n.Name, err)
	}
	claimed[mesh] = n.Name

	return plannedCollider{
		node:      h,
		name:      n.Name,
		mesh:      mesh,
		transform: n.Transform,
		global:    global,
		volume:    vol,
	}, nil
}

func quatFloats(q mgl32.Quat) []float32 {
	return []float32{q.V[0], q.V[1], q.V[2], q.W}
}
