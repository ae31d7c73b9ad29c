package batcher

import (
	"testing"

	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/achilleasa/autolod/types"
	"github.com/stretchr/testify/require"
)

func run(t task.Task) int {
	steps := 1
	for t.Step() {
		steps++
	}
	return steps
}

func buildSources(sc *scene.Scene, root *scene.Object, mats ...*scene.Material) []*scene.Renderer {
	var out []*scene.Renderer
	for i, m := range mats {
		obj := sc.NewObject("source", root)
		obj.SetPosition(types.XYZ(float32(2*i), 0, 0))
		out = append(out, obj.AddRenderer(scene.NewCubeMesh("cube", 1), m))
	}
	return out
}

func TestMaterialPreservingEnablesSources(t *testing.T) {
	sc := scene.New("test")
	root := sc.NewObject("root", nil)
	m1, m2 := scene.NewMaterial("m1"), scene.NewMaterial("m2")
	sources := buildSources(sc, root, m1, m2)
	sources[1].SetEnabled(false)

	require.Equal(t, 1, run(MaterialPreserving{}.Batch(root)))

	renderers := root.RenderersInChildren()
	require.Len(t, renderers, 2)
	for i, r := range renderers {
		require.True(t, r.Enabled())
		require.Same(t, sources[i], r)
	}
	require.Same(t, m2, renderers[1].SharedMaterial())
}

func TestCombineMergesIntoRoot(t *testing.T) {
	sc := scene.New("test")
	root := sc.NewObject("root", nil)
	root.SetPosition(types.XYZ(10, 0, 0))
	m1, m2 := scene.NewMaterial("m1"), scene.NewMaterial("m2")
	sources := buildSources(sc, root, nil, m1, m2)

	var expBounds types.Bounds
	for i, r := range sources {
		if i == 0 {
			expBounds = r.Bounds()
			continue
		}
		expBounds = expBounds.Encapsulate(r.Bounds())
	}

	// One step to collect, one per source and one to finalize.
	require.Equal(t, 2+len(sources), run(Combine{}.Batch(root)))

	combined := root.Renderer()
	require.NotNil(t, combined)
	require.Empty(t, root.Children())
	for _, r := range sources {
		require.False(t, r.Alive())
	}
	require.Equal(t, 3*24, combined.Mesh.VertexCount())
	require.Equal(t, scene.UInt16, combined.Mesh.IndexFormat)
	require.Same(t, m1, combined.SharedMaterial())
	require.True(t, combined.Bounds().ApproxEqual(expBounds), "bounds %v; expected %v", combined.Bounds(), expBounds)
}

func TestCombineToleratesDestroyedRoot(t *testing.T) {
	sc := scene.New("test")
	root := sc.NewObject("root", nil)
	buildSources(sc, root, scene.NewMaterial("m"))

	batch := Combine{}.Batch(root)
	root.Destroy()
	run(batch)
	require.Nil(t, root.Renderer())
}

func TestBuiltinsAreRegistered(t *testing.T) {
	for _, id := range []string{MaterialPreservingID, CombineID} {
		_, err := registry.Default.Batcher(id)
		require.NoError(t, err, id)
	}
}
