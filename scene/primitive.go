package scene

import "github.com/achilleasa/autolod/types"

// Axis-aligned unit cube faces as (normal, u axis, v axis).
var cubeFaces = [6][3]types.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewCubeMesh builds a cube centered at the origin with 24 vertices (4 per
// face) and 12 triangles.
func NewCubeMesh(name string, size float32) *Mesh {
	m := &Mesh{Name: name, Topology: Triangles}
	half := size * 0.5
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(m.Vertices))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(half)
			m.Vertices = append(m.Vertices, p)
			m.Normals = append(m.Normals, n)
			m.Tangents = append(m.Tangents, u.Vec4(1))
			m.UVs[0] = append(m.UVs[0], types.XY((c[0]+1)*0.5, (c[1]+1)*0.5))
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	m.SubMeshes = [][]uint32{indices}
	return m
}

// NewGridMesh builds a flat, XZ-aligned grid of cells x cells quads
// (2*cells*cells triangles) spanning the given size.
func NewGridMesh(name string, cells int, size float32) *Mesh {
	m := &Mesh{Name: name, Topology: Triangles}
	step := size / float32(cells)
	origin := -size * 0.5

	for z := 0; z <= cells; z++ {
		for x := 0; x <= cells; x++ {
			m.Vertices = append(m.Vertices, types.XYZ(origin+float32(x)*step, 0, origin+float32(z)*step))
			m.Normals = append(m.Normals, types.XYZ(0, 1, 0))
			m.UVs[0] = append(m.UVs[0], types.XY(float32(x)/float32(cells), float32(z)/float32(cells)))
		}
	}

	indices := make([]uint32, 0, cells*cells*6)
	row := uint32(cells + 1)
	for z := uint32(0); z < uint32(cells); z++ {
		for x := uint32(0); x < uint32(cells); x++ {
			i := z*row + x
			indices = append(indices, i, i+row, i+1, i+1, i+row, i+row+1)
		}
	}
	m.SubMeshes = [][]uint32{indices}
	return m
}
