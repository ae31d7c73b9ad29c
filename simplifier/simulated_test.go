package simplifier

import (
	"testing"

	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
)

func TestSimulatedReducesTriangles(t *testing.T) {
	type spec struct {
		quality float32
		expTris int
	}
	specs := []spec{
		{1, 12},
		{0.5, 6},
		{0.25, 3},
		{0.1, 1},
		{0, 0},
		{2, 12},
	}

	for index, s := range specs {
		in := scene.NewCubeMesh("cube", 1)
		out := &scene.Mesh{}
		Simulated{}.Simplify(in, out, s.quality)

		if got := out.PolyCount(); got != s.expTris {
			t.Fatalf("[spec %d] expected %d triangles; got %d", index, s.expTris, got)
		}
		if float32(out.PolyCount()) > float32(in.PolyCount())*s.quality && s.quality <= 1 {
			t.Fatalf("[spec %d] expected at most %f x %d triangles; got %d", index, s.quality, in.PolyCount(), out.PolyCount())
		}
		if out.Name != "cube" {
			t.Fatalf("[spec %d] expected mesh name to be preserved; got %q", index, out.Name)
		}
	}
}

func TestSimulatedPreservesChannels(t *testing.T) {
	in := scene.NewCubeMesh("cube", 1)
	for range in.Vertices {
		in.Colors = append(in.Colors, types.XYZW(1, 0, 0, 1))
		in.UVs[2] = append(in.UVs[2], types.XY(0.5, 0.5))
	}
	out := &scene.Mesh{Name: "cube LOD1"}
	Simulated{}.Simplify(in, out, 0.5)

	vertices := out.VertexCount()
	if vertices == 0 || vertices > in.VertexCount() {
		t.Fatalf("expected compacted vertex count; got %d", vertices)
	}
	type spec struct {
		channel string
		count   int
	}
	specs := []spec{
		{"normals", len(out.Normals)},
		{"tangents", len(out.Tangents)},
		{"colors", len(out.Colors)},
		{"uv0", len(out.UVs[0])},
		{"uv2", len(out.UVs[2])},
	}
	for index, s := range specs {
		if s.count != vertices {
			t.Fatalf("[spec %d] expected %s channel to hold %d entries; got %d", index, s.channel, vertices, s.count)
		}
	}
	if len(out.UVs[1]) != 0 || len(out.UVs[3]) != 0 {
		t.Fatal("expected absent uv channels to stay empty")
	}
	if out.Name != "cube LOD1" {
		t.Fatalf("expected preset output name to be kept; got %q", out.Name)
	}
	for _, idx := range out.SubMeshes[0] {
		if int(idx) >= vertices {
			t.Fatalf("expected index %d to reference a compacted vertex", idx)
		}
	}
}

func TestSimulatedIsRegistered(t *testing.T) {
	s, err := registry.Default.Simplifier(SimulatedID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(Simulated); !ok {
		t.Fatalf("expected a Simulated simplifier; got %T", s)
	}
}
