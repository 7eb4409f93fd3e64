package assets

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

func TestTrackerFinishesAfterSlowestCollection(t *testing.T) {
	tr := NewTracker()
	tr.Add("karts", 1)
	tr.Add("terrains", 3)

	hookRuns := 0
	tr.OnLoaded(func() error {
		hookRuns++
		return nil
	})

	for i := 1; i <= 2; i++ {
		if err := tr.Update(); err != nil {
			t.Fatalf("Update(): %v", err)
		}
		if tr.Done() {
			t.Fatalf("loaded after %d updates, want 3", i)
		}
	}
	if tr.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", tr.Pending())
	}

	_ = tr.Update()
	if !tr.Done() || tr.State() != Loaded {
		t.Fatalf("State() = %s, want Loaded", tr.State())
	}

	_ = tr.Update()
	if hookRuns != 1 {
		t.Errorf("hook ran %d times, want 1", hookRuns)
	}
}

func TestTrackerWithoutCollectionsLoadsOnFirstUpdate(t *testing.T) {
	tr := NewTracker()
	if tr.Done() {
		t.Fatal("done before first update")
	}
	_ = tr.Update()
	if !tr.Done() {
		t.Error("expected Loaded after first update")
	}
}

func TestTrackerHookError(t *testing.T) {
	tr := NewTracker()
	boom := errors.New("boom")
	tr.OnLoaded(func() error { return boom })

	if err := tr.Update(); !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want boom", err)
	}
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest("testdata/karts.yaml")
	if err != nil {
		t.Fatalf("LoadManifest(): %v", err)
	}
	if m.Collection != "karts" {
		t.Errorf("Collection = %q", m.Collection)
	}
	if len(m.Meshes) != 2 || len(m.Nodes) != 2 {
		t.Fatalf("got %d meshes, %d nodes", len(m.Meshes), len(m.Nodes))
	}

	rec := m.Meshes[0].Record()
	if rec.Indices.Width != geometry.IndexU16 {
		t.Errorf("sedan indices width = %s, want U16", rec.Indices.Width)
	}
	if rec.Positions.Len() != 5 {
		t.Errorf("sedan positions = %d, want 5", rec.Positions.Len())
	}
	if m.Meshes[1].Record().Indices.Width != geometry.IndexU32 {
		t.Error("terrain indices should default to U32")
	}
}

func TestParseManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown mesh",
			yaml: `
nodes:
  - name: a
    mesh: missing
`,
			wantErr: `unknown mesh "missing"`,
		},
		{
			name: "unnamed child",
			yaml: `
nodes:
  - name: a
    children:
      - collider: true
`,
			wantErr: "nodes[0].children[0]: name is required",
		},
		{
			name: "bad index width",
			yaml: `
meshes:
  - handle: m
    index_width: 8
`,
			wantErr: "index_width must be 16 or 32",
		},
		{
			name: "index overflows 16 bits",
			yaml: `
meshes:
  - handle: m
    index_width: 16
    indices: [0, 1, 70000]
`,
			wantErr: "does not fit 16 bits",
		},
		{
			name: "duplicate handle",
			yaml: `
meshes:
  - handle: m
  - handle: m
`,
			wantErr: "duplicate handle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseManifest() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMeshSpecRecordAttributes(t *testing.T) {
	noIndices := MeshSpec{Handle: "a", Positions: [][3]float32{{0, 0, 0}}}.Record()
	if noIndices.Indices != nil {
		t.Error("expected absent index buffer")
	}

	noPositions := MeshSpec{Handle: "b", Indices: []uint32{0, 1, 2}}.Record()
	if noPositions.Positions != nil {
		t.Error("expected absent position buffer")
	}

	packed := MeshSpec{Handle: "c", Format: "Unorm8x4", Indices: []uint32{0, 1, 2}}.Record()
	if packed.Positions == nil || packed.Positions.Format != geometry.FormatUnorm8x4 {
		t.Errorf("Positions = %+v, want Unorm8x4 buffer", packed.Positions)
	}
}

func TestNodeSpecTransform(t *testing.T) {
	scale := [3]float32{2, 2, 2}
	spec := NodeSpec{
		Translation: [3]float32{1, 2, 3},
		Rotation:    &RotationSpec{Axis: [3]float32{0, 2, 0}, Degrees: 180},
		Scale:       &scale,
	}
	tr := spec.Transform()

	if tr.Translation != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Translation = %v", tr.Translation)
	}
	if tr.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Scale = %v", tr.Scale)
	}
	got := tr.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	if !vecNear(got, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("rotated X = %v, want -X", got)
	}

	if (NodeSpec{}).Transform() != scene.Identity() {
		t.Error("empty spec should yield identity")
	}
}

func TestInstantiatorWaitsForLag(t *testing.T) {
	m, err := LoadManifest("testdata/karts.yaml")
	if err != nil {
		t.Fatalf("LoadManifest(): %v", err)
	}
	w := scene.NewWorld()
	inst := NewInstantiator(m, 2)

	if err := inst.Update(false, w); err != nil || inst.Spawned() {
		t.Fatal("spawned before loading finished")
	}
	for i := 0; i < 2; i++ {
		_ = inst.Update(true, w)
		if inst.Spawned() {
			t.Fatalf("spawned after %d loaded ticks, want lag 2", i+1)
		}
	}
	if err := inst.Update(true, w); err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if !inst.Spawned() || len(inst.Roots()) != 2 {
		t.Fatalf("roots = %v", inst.Roots())
	}

	requests := w.ColliderRequests()
	if len(requests) != 2 {
		t.Fatalf("ColliderRequests() = %d, want 2", len(requests))
	}
	hull, _ := w.Node(requests[0])
	if hull.Name != "hull" || len(hull.Children()) != 1 {
		t.Errorf("first request = %+v", hull)
	}

	n := w.Len()
	_ = inst.Update(true, w)
	if w.Len() != n {
		t.Error("instantiator spawned twice")
	}
}

func TestPublishMeshes(t *testing.T) {
	m, err := LoadManifest("testdata/karts.yaml")
	if err != nil {
		t.Fatalf("LoadManifest(): %v", err)
	}
	store := geometry.NewStore()
	m.PublishMeshes(store)

	if store.Len() != 2 {
		t.Errorf("store has %d records, want 2", store.Len())
	}
	if !store.Contains("terrains/map01.glb#Mesh0/Primitive0") {
		t.Error("terrain mesh missing")
	}
}

func TestDespawnRemovesSpawnedTrees(t *testing.T) {
	m, err := LoadManifest("testdata/karts.yaml")
	if err != nil {
		t.Fatalf("LoadManifest(): %v", err)
	}
	w := scene.NewWorld()
	roots, err := Spawn(w, m.Nodes)
	if err != nil {
		t.Fatalf("Spawn(): %v", err)
	}

	Despawn(w, roots)
	if w.Len() != 0 {
		t.Errorf("Len() = %d after despawn, want 0", w.Len())
	}
	// Stale handles are skipped.
	Despawn(w, roots)
}

func vecNear(got, want mgl32.Vec3) bool {
	for i := range got {
		if mgl32.Abs(got[i]-want[i]) > 1e-5 {
			return false
		}
	}
	return true
}
