package assets

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-collider/internal/geometry"
	"github.com/Faultbox/midgard-collider/internal/scene"
)

// Manifest describes the meshes of an asset collection and the node trees
// instantiated from it.
type Manifest struct {
	Collection string     `yaml:"collection"`
	Meshes     []MeshSpec `yaml:"meshes"`
	Nodes      []NodeSpec `yaml:"nodes"`
}

// MeshSpec is a mesh as stored in a manifest. Leaving Positions or Indices
// out produces a record without that attribute.
type MeshSpec struct {
	Handle     string       `yaml:"handle"`
	Format     string       `yaml:"format"`      // Position encoding, default Float32x3
	Positions  [][3]float32 `yaml:"positions"`   // Used when Format is Float32x3
	Indices    []uint32     `yaml:"indices"`
	IndexWidth int          `yaml:"index_width"` // 16 or 32, default 32
}

// RotationSpec is an axis-angle rotation.
type RotationSpec struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

// NodeSpec is one node of an instantiated tree.
type NodeSpec struct {
	Name        string        `yaml:"name"`
	Translation [3]float32    `yaml:"translation"`
	Rotation    *RotationSpec `yaml:"rotation"`
	Scale       *[3]float32   `yaml:"scale"`
	Mesh        string        `yaml:"mesh"`
	Collider    bool          `yaml:"collider"`
	Children    []NodeSpec    `yaml:"children"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Collection == "" {
		m.Collection = "default"
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural problems a loader would reject. It does not
// check mesh contents: malformed geometry is the collider baker's concern.
func (m *Manifest) Validate() error {
	var err error
	seen := make(map[string]bool, len(m.Meshes))
	for i, mesh := range m.Meshes {
		if mesh.Handle == "" {
			err = multierr.Append(err, fmt.Errorf("meshes[%d]: handle is required", i))
			continue
		}
		if seen[mesh.Handle] {
			err = multierr.Append(err, fmt.Errorf("meshes[%d]: duplicate handle %q", i, mesh.Handle))
		}
		seen[mesh.Handle] = true
		switch mesh.IndexWidth {
		case 0, 16, 32:
		default:
			err = multierr.Append(err, fmt.Errorf("mesh %q: index_width must be 16 or 32, got %d", mesh.Handle, mesh.IndexWidth))
		}
		if mesh.IndexWidth == 16 {
			for _, v := range mesh.Indices {
				if v > 0xFFFF {
					err = multierr.Append(err, fmt.Errorf("mesh %q: index %d does not fit 16 bits", mesh.Handle, v))
					break
				}
			}
		}
	}

	var walk func(path string, nodes []NodeSpec)
	walk = func(path string, nodes []NodeSpec) {
		for i, n := range nodes {
			p := fmt.Sprintf("%s[%d]", path, i)
			if n.Name == "" {
				err = multierr.Append(err, fmt.Errorf("%s: name is required", p))
			}
			if n.Mesh != "" && !seen[n.Mesh] {
				err = multierr.Append(err, fmt.Errorf("%s: unknown mesh %q", p, n.Mesh))
			}
			walk(p+".children", n.Children)
		}
	}
	walk("nodes", m.Nodes)

	return err
}

// Record builds the geometry record for a mesh.
func (s MeshSpec) Record() *geometry.Record {
	rec := &geometry.Record{}

	format := geometry.Format(s.Format)
	if format == "" {
		format = geometry.FormatFloat32x3
	}
	if s.Positions != nil || format != geometry.FormatFloat32x3 {
		rec.Positions = &geometry.Positions{Format: format}
		if format == geometry.FormatFloat32x3 {
			rec.Positions.Data = s.Positions
		}
	}

	if s.Indices != nil {
		if s.IndexWidth == 16 {
			narrow := make([]uint16, len(s.Indices))
			for i, v := range s.Indices {
				narrow[i] = uint16(v)
			}
			rec.Indices = geometry.NewIndicesU16(narrow)
		} else {
			rec.Indices = geometry.NewIndicesU32(s.Indices)
		}
	}
	return rec
}

// Transform converts the spec's placement to a scene transform.
func (n NodeSpec) Transform() scene.Transform {
	t := scene.Identity()
	t.Translation = mgl32.Vec3(n.Translation)
	if n.Rotation != nil {
		axis := mgl32.Vec3(n.Rotation.Axis)
		if axis.Len() > 1e-6 {
			t.Rotation = mgl32.QuatRotate(mgl32.DegToRad(n.Rotation.Degrees), axis.Normalize())
		}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}
