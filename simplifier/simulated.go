// Package simplifier provides the built-in mesh simplifier.
package simplifier

import (
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/chewxy/math32"
)

// The registry id of the Simulated simplifier.
const SimulatedID = "simulated"

func init() {
	registry.MustRegisterSimplifier(SimulatedID, func() registry.MeshSimplifier { return Simulated{} })
}

// Simulated drops trailing primitives instead of collapsing edges. It keeps
// the first primitives of every submesh up to the requested quality and
// compacts the vertex channels to the vertices still referenced.
type Simulated struct{}

// Simplify implements registry.MeshSimplifier.
func (Simulated) Simplify(in, out *scene.Mesh, quality float32) {
	quality = math32.Max(0, math32.Min(1, quality))

	name := out.Name
	if name == "" {
		name = in.Name
	}
	*out = scene.Mesh{
		Name:        name,
		Topology:    in.Topology,
		IndexFormat: in.IndexFormat,
	}

	stride := primitiveSize(in.Topology)
	budget := int(math32.Floor(quality * float32(in.PolyCount())))

	remap := make(map[uint32]uint32)
	for _, sm := range in.SubMeshes {
		polys := len(sm) / stride
		keep := int(math32.Ceil(quality * float32(polys)))
		if keep > budget {
			keep = budget
		}
		budget -= keep

		indices := make([]uint32, 0, keep*stride)
		for _, idx := range sm[:keep*stride] {
			newIdx, ok := remap[idx]
			if !ok {
				newIdx = uint32(len(out.Vertices))
				remap[idx] = newIdx
				copyVertex(in, out, idx)
			}
			indices = append(indices, newIdx)
		}
		out.SubMeshes = append(out.SubMeshes, indices)
	}
}

func primitiveSize(t scene.Topology) int {
	switch t {
	case scene.Triangles:
		return 3
	case scene.Quads:
		return 4
	case scene.Lines, scene.LineStrip:
		return 2
	}
	return 1
}

// copyVertex appends vertex idx of in to out. Optional channels are only
// copied when in provides them for every vertex.
func copyVertex(in, out *scene.Mesh, idx uint32) {
	count := in.VertexCount()
	out.Vertices = append(out.Vertices, in.Vertices[idx])
	if len(in.Normals) == count {
		out.Normals = append(out.Normals, in.Normals[idx])
	}
	if len(in.Tangents) == count {
		out.Tangents = append(out.Tangents, in.Tangents[idx])
	}
	if len(in.Colors) == count {
		out.Colors = append(out.Colors, in.Colors[idx])
	}
	for ch := range in.UVs {
		if len(in.UVs[ch]) == count {
			out.UVs[ch] = append(out.UVs[ch], in.UVs[ch][idx])
		}
	}
}

var _ registry.MeshSimplifier = Simulated{}
