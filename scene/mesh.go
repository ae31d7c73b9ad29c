package scene

import (
	"github.com/achilleasa/autolod/types"
)

// Topology defines how mesh indices are assembled into primitives.
type Topology uint8

const (
	Triangles Topology = iota
	Quads
	Lines
	LineStrip
	Points
)

// IndexFormat defines the width of mesh indices.
type IndexFormat uint8

const (
	UInt16 IndexFormat = iota
	UInt32
)

// The largest vertex count addressable with 16-bit indices.
const maxUInt16Vertices = 65535

// Mesh stores vertex channels and one index list per submesh. Optional
// channels are either empty or hold one entry per vertex.
type Mesh struct {
	Name        string
	Topology    Topology
	IndexFormat IndexFormat

	Vertices []types.Vec3
	Normals  []types.Vec3
	Tangents []types.Vec4
	UVs      [4][]types.Vec2
	Colors   []types.Vec4

	SubMeshes [][]uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices over all submeshes.
func (m *Mesh) IndexCount() int {
	count := 0
	for _, sm := range m.SubMeshes {
		count += len(sm)
	}
	return count
}

// PolyCount returns the number of primitives over all submeshes.
func (m *Mesh) PolyCount() int {
	count := m.IndexCount()
	switch m.Topology {
	case Triangles:
		return count / 3
	case Quads:
		return count / 4
	case Lines, LineStrip:
		return count / 2
	}
	return count
}

// Bounds returns the local space bounding box of the vertices.
func (m *Mesh) Bounds() types.Bounds {
	if len(m.Vertices) == 0 {
		return types.Bounds{}
	}
	min, max := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = types.MinVec3(min, v)
		max = types.MaxVec3(max, v)
	}
	return types.BoundsFromMinMax(min, max)
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:        m.Name,
		Topology:    m.Topology,
		IndexFormat: m.IndexFormat,
		Vertices:    append([]types.Vec3(nil), m.Vertices...),
		Normals:     append([]types.Vec3(nil), m.Normals...),
		Tangents:    append([]types.Vec4(nil), m.Tangents...),
		Colors:      append([]types.Vec4(nil), m.Colors...),
		SubMeshes:   make([][]uint32, len(m.SubMeshes)),
	}
	for i := range m.UVs {
		out.UVs[i] = append([]types.Vec2(nil), m.UVs[i]...)
	}
	for i, sm := range m.SubMeshes {
		out.SubMeshes[i] = append([]uint32(nil), sm...)
	}
	return out
}

// CombineInstance is a mesh placed with a transform for combining.
type CombineInstance struct {
	Mesh      *Mesh
	Transform Transform
}

// CombineMeshes concatenates the instances into a single world space mesh.
// When mergeSubMeshes is true all indices are placed in one submesh;
// otherwise each instance submesh is kept. Channels present in any instance
// are kept in the output, padded with zero values for instances lacking them.
// The index format is widened to 32-bits when the vertex count requires it.
func CombineMeshes(name string, instances []CombineInstance, mergeSubMeshes bool) *Mesh {
	out := &Mesh{Name: name, Topology: Triangles}

	var hasNormals, hasTangents, hasColors bool
	var hasUVs [4]bool
	total := 0
	for _, inst := range instances {
		m := inst.Mesh
		total += m.VertexCount()
		hasNormals = hasNormals || len(m.Normals) > 0
		hasTangents = hasTangents || len(m.Tangents) > 0
		hasColors = hasColors || len(m.Colors) > 0
		for i := range m.UVs {
			hasUVs[i] = hasUVs[i] || len(m.UVs[i]) > 0
		}
	}

	if total > maxUInt16Vertices {
		out.IndexFormat = UInt32
	}

	var merged []uint32
	for _, inst := range instances {
		m, t := inst.Mesh, inst.Transform
		base := uint32(len(out.Vertices))

		for vIdx, v := range m.Vertices {
			out.Vertices = append(out.Vertices, t.Apply(v))
			if hasNormals {
				n := types.Vec3{}
				if vIdx < len(m.Normals) {
					n = t.ApplyDirection(m.Normals[vIdx]).Normalize()
				}
				out.Normals = append(out.Normals, n)
			}
			if hasTangents {
				tan := types.Vec4{}
				if vIdx < len(m.Tangents) {
					tan = t.ApplyDirection(m.Tangents[vIdx].Vec3()).Normalize().Vec4(m.Tangents[vIdx][3])
				}
				out.Tangents = append(out.Tangents, tan)
			}
			if hasColors {
				c := types.Vec4{}
				if vIdx < len(m.Colors) {
					c = m.Colors[vIdx]
				}
				out.Colors = append(out.Colors, c)
			}
			for ch := range hasUVs {
				if !hasUVs[ch] {
					continue
				}
				uv := types.Vec2{}
				if vIdx < len(m.UVs[ch]) {
					uv = m.UVs[ch][vIdx]
				}
				out.UVs[ch] = append(out.UVs[ch], uv)
			}
		}

		for _, sm := range m.SubMeshes {
			indices := make([]uint32, len(sm))
			for i, idx := range sm {
				indices[i] = idx + base
			}
			if mergeSubMeshes {
				merged = append(merged, indices...)
			} else {
				out.SubMeshes = append(out.SubMeshes, indices)
			}
		}
	}

	if mergeSubMeshes {
		out.SubMeshes = [][]uint32{merged}
	}
	return out
}
