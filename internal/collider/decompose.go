package collider

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Decomposer splits a triangle mesh into convex parts.
type Decomposer interface {
	Decompose(vertices []mgl32.Vec3, triangles [][3]uint32) *Volume
}

// DecomposerFunc adapts a function to the Decomposer interface.
type DecomposerFunc func(vertices []mgl32.Vec3, triangles [][3]uint32) *Volume

// Decompose calls f.
func (f DecomposerFunc) Decompose(vertices []mgl32.Vec3, triangles [][3]uint32) *Volume {
	return f(vertices, triangles)
}

// IslandDecomposer produces one convex part per connected island of
// triangles. Triangles sharing a vertex index belong to the same island.
// The hull of each part is implied by its point set.
type IslandDecomposer struct{}

// DefaultDecomposer is used by FromGeometry.
var DefaultDecomposer Decomposer = IslandDecomposer{}

// Decompose implements Decomposer. Indices must already be in range.
func (IslandDecomposer) Decompose(vertices []mgl32.Vec3, triangles [][3]uint32) *Volume {
	if len(triangles) == 0 {
		// No topology: the whole point cloud forms a single hull.
		if len(vertices) == 0 {
			return &Volume{}
		}
		all := make([]uint32, len(vertices))
		for i := range all {
			all[i] = uint32(i)
		}
		return &Volume{Parts: []Part{buildPart(vertices, all, nil)}}
	}

	parent := make([]uint32, len(vertices))
	for i := range parent {
		parent[i] = uint32(i)
	}
	find := func(x uint32) uint32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b uint32) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for _, tri := range triangles {
		union(tri[0], tri[1])
		union(tri[1], tri[2])
	}

	// Group triangles by island, ordered by first appearance.
	islandOf := make(map[uint32]int)
	var islands [][][3]uint32
	for _, tri := range triangles {
		root := find(tri[0])
		idx, ok := islandOf[root]
		if !ok {
			idx = len(islands)
			islandOf[root] = idx
			islands = append(islands, nil)
		}
		islands[idx] = append(islands[idx], tri)
	}

	vol := &Volume{Parts: make([]Part, 0, len(islands))}
	for _, tris := range islands {
		var used []uint32
		seen := make(map[uint32]bool)
		for _, tri := range tris {
			for _, v := range tri {
				if !seen[v] {
					seen[v] = true
					used = append(used, v)
				}
			}
		}
		vol.Parts = append(vol.Parts, buildPart(vertices, used, tris))
	}
	return vol
}

// buildPart gathers the given vertices into a part and remaps triangles
// to local indices.
func buildPart(vertices []mgl32.Vec3, used []uint32, tris [][3]uint32) Part {
	local := make(map[uint32]uint32, len(used))
	part := Part{
		Points: make([]mgl32.Vec3, 0, len(used)),
		Min:    mgl32.Vec3{1e10, 1e10, 1e10},
		Max:    mgl32.Vec3{-1e10, -1e10, -1e10},
	}

	for _, v := range used {
		local[v] = uint32(len(part.Points))
		p := vertices[v]
		part.Points = append(part.Points, p)
		updateBounds(&part.Min, &part.Max, p)
	}

	if len(tris) > 0 {
		part.Triangles = make([][3]uint32, len(tris))
		for i, tri := range tris {
			part.Triangles[i] = [3]uint32{local[tri[0]], local[tri[1]], local[tri[2]]}
		}
	}
	return part
}

func updateBounds(min, max *mgl32.Vec3, p mgl32.Vec3) {
	for k := 0; k < 3; k++ {
		if p[k] < min[k] {
			min[k] = p[k]
		}
		if p[k] > max[k] {
			max[k] = p[k]
		}
	}
}
