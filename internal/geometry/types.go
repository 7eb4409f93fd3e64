// Package geometry holds raw mesh geometry records produced by the asset
// loader and consumed by collider baking.
package geometry

import "fmt"

// Handle identifies a mesh asset, e.g. "terrains/map01.glb#Mesh0/Primitive0".
type Handle string

// Format names the encoding of a vertex position buffer.
type Format string

// Known position formats. Only FormatFloat32x3 is usable for colliders,
// the rest exist so loaders can report what they actually found.
const (
	FormatFloat32x3 Format = "Float32x3"
	FormatFloat32x2 Format = "Float32x2"
	FormatFloat32x4 Format = "Float32x4"
	FormatUint16x4  Format = "Uint16x4"
	FormatUnorm8x4  Format = "Unorm8x4"
)

// String returns the format name.
func (f Format) String() string {
	if f == "" {
		return "Unknown"
	}
	return string(f)
}

// Positions is a vertex position buffer tagged with its encoding.
// Data is only meaningful when Format is FormatFloat32x3.
type Positions struct {
	Format Format
	Data   [][3]float32
}

// Float32x3 returns the position data and true when the buffer uses the
// expected three-float layout.
func (p *Positions) Float32x3() ([][3]float32, bool) {
	if p == nil || p.Format != FormatFloat32x3 {
		return nil, false
	}
	return p.Data, true
}

// Len returns the number of vertices.
func (p *Positions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// IndexWidth is the width of an index buffer entry in bits.
type IndexWidth int

const (
	IndexU16 IndexWidth = 16
	IndexU32 IndexWidth = 32
)

// String returns "U16" or "U32".
func (w IndexWidth) String() string {
	switch w {
	case IndexU16:
		return "U16"
	case IndexU32:
		return "U32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// Indices is an index buffer holding either 16-bit or 32-bit entries.
// Exactly one of U16 and U32 is used, selected by Width.
type Indices struct {
	Width IndexWidth
	U16   []uint16
	U32   []uint32
}

// NewIndicesU16 wraps a 16-bit index list.
func NewIndicesU16(idx []uint16) *Indices {
	return &Indices{Width: IndexU16, U16: idx}
}

// NewIndicesU32 wraps a 32-bit index list.
func NewIndicesU32(idx []uint32) *Indices {
	return &Indices{Width: IndexU32, U32: idx}
}

// Len returns the number of index entries.
func (i *Indices) Len() int {
	if i == nil {
		return 0
	}
	if i.Width == IndexU16 {
		return len(i.U16)
	}
	return len(i.U32)
}

// Widen returns the indices as 32-bit values. 16-bit entries are widened
// losslessly; a 32-bit buffer is copied.
func (i *Indices) Widen() []uint32 {
	if i == nil {
		return nil
	}
	if i.Width == IndexU16 {
		out := make([]uint32, len(i.U16))
		for n, v := range i.U16 {
			out[n] = uint32(v)
		}
		return out
	}
	out := make([]uint32, len(i.U32))
	copy(out, i.U32)
	return out
}

// Record is a mesh as delivered by the asset loader. A nil Positions or
// Indices means the attribute is absent.
type Record struct {
	Positions *Positions
	Indices   *Indices
}
