package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/midgard-collider/internal/assets"
	"github.com/Faultbox/midgard-collider/internal/config"
	"github.com/Faultbox/midgard-collider/internal/physics"
)

const kartManifest = `
collection: karts
meshes:
  - handle: "karts/sedan.glb#Mesh0/Primitive0"
    positions: [[0, 0, 0], [1, 0, 0], [0, 0, 1], [0, 1, 0]]
    indices: [0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2]
    index_width: 16
nodes:
  - name: sedan
    translation: [0, 0.3, 0]
    children:
      - name: body
        children:
          - name: hull
            collider: true
            children:
              - name: hull.mesh
                mesh: "karts/sedan.glb#Mesh0/Primitive0"
`

func testConfig(frames, loadTicks, lag int) *config.Config {
	cfg := config.Default()
	cfg.Session.TickRate = 0
	cfg.Session.MaxFrames = frames
	cfg.Scene.LoadTicks = loadTicks
	cfg.Scene.SpawnLagTicks = lag
	return cfg
}

func mustManifest(t *testing.T, src string) *assets.Manifest {
	t.Helper()
	m, err := assets.ParseManifest([]byte(src))
	if err != nil {
		t.Fatalf("ParseManifest(): %v", err)
	}
	return m
}

func TestSessionBakesOnceAfterSpawnLag(t *testing.T) {
	s, err := New(testConfig(30, 2, 4), mustManifest(t, kartManifest))
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	if err := s.Run(); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if s.Context().State() != physics.Done {
		t.Fatalf("State() = %s, want Done", s.Context().State())
	}
	if len(s.Reports()) != 1 {
		t.Fatalf("expected exactly one baking pass, got %d", len(s.Reports()))
	}
	if s.Context().Ticks() != 30 {
		t.Errorf("gate ticks = %d, want one per frame", s.Context().Ticks())
	}

	want := Snapshot{
		Session:   s.ID,
		Frames:    30,
		GateTicks: 30,
		State:     "Done",
		Roots:     []string{"sedan"},
		Colliders: []ColliderEntry{{
			Node:      "hull" + physics.ColliderSuffix,
			Parent:    "hull",
			Parts:     1,
			Triangles: 4,
			Min:       [3]float32{0, 0, 0},
			Max:       [3]float32{1, 1, 1},
		}},
		RigidBodies:     []BodyEntry{{Node: "sedan", Kind: "Dynamic", CCD: true}},
		RemainingMeshes: 0,
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionWithoutRequestsGivesUp(t *testing.T) {
	manifest := mustManifest(t, `
collection: props
nodes:
  - name: crate
`)
	s, err := New(testConfig(physics.MaxTicks+20, 0, 0), manifest)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if s.Context().State() != physics.Waiting {
		t.Errorf("State() = %s, want Waiting", s.Context().State())
	}
	snap := s.Snapshot()
	if len(snap.Roots) != 1 || snap.Roots[0] != "crate" {
		t.Errorf("Roots = %v, want [crate]", snap.Roots)
	}
	if len(snap.Colliders) != 0 || len(snap.RigidBodies) != 0 {
		t.Errorf("unexpected output %+v", snap)
	}
}

func TestSessionAbortsOnMissingMesh(t *testing.T) {
	manifest := mustManifest(t, `
nodes:
  - name: broken
    collider: true
    children:
      - name: empty
`)
	s, err := New(testConfig(10, 0, 0), manifest)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	err = s.Run()
	if !errors.Is(err, physics.ErrMissingMesh) {
		t.Fatalf("Run() error = %v, want ErrMissingMesh", err)
	}
	if s.Context().State() != physics.Waiting {
		t.Errorf("State() = %s, want Waiting", s.Context().State())
	}
	if s.Frame() >= 10 {
		t.Errorf("session kept running after fatal error (frame %d)", s.Frame())
	}
}

func TestSessionSpawnLagPastBudgetIsIgnored(t *testing.T) {
	s, err := New(testConfig(physics.MaxTicks+10, 0, physics.MaxTicks+1), mustManifest(t, kartManifest))
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run(): %v", err)
	}
	if s.Context().State() != physics.Waiting {
		t.Errorf("State() = %s, want Waiting", s.Context().State())
	}
	if s.Store().Len() != 1 {
		t.Errorf("mesh should remain unconsumed, store has %d", s.Store().Len())
	}
}

func TestWriteReport(t *testing.T) {
	s, err := New(testConfig(10, 0, 0), mustManifest(t, kartManifest))
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	if err := s.WriteReport(path); err != nil {
		t.Fatalf("WriteReport(): %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	for _, want := range []string{"state: Done", "node: sedan", "kind: Dynamic", "parent: hull"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q:\n%s", want, data)
		}
	}
}

func TestNewRejectsUnusableTickRate(t *testing.T) {
	cfg := testConfig(1, 0, 0)
	cfg.Session.TickRate = 2_000_000_000
	if _, err := New(cfg, mustManifest(t, kartManifest)); err == nil {
		t.Error("expected error for a tick rate with a zero interval")
	}
}

func TestNewRejectsNilManifest(t *testing.T) {
	if _, err := New(testConfig(1, 0, 0), nil); err == nil {
		t.Error("expected error for nil manifest")
	}
}
