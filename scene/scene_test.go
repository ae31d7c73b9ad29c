package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/autolod/types"
	"github.com/stretchr/testify/require"
)

func TestRendererBoundsFollowTransform(t *testing.T) {
	sc := New("test")
	parent := sc.NewObject("parent", nil)
	parent.SetPosition(types.XYZ(10, 0, 0))
	child := sc.NewObject("child", parent)
	child.SetPosition(types.XYZ(0, 2, 0))
	r := child.AddRenderer(NewCubeMesh("cube", 1))

	b := r.Bounds()
	require.True(t, b.Center.ApproxEqual(types.XYZ(10, 2, 0)), "center %v", b.Center)
	require.True(t, b.Size().ApproxEqual(types.XYZ(1, 1, 1)), "size %v", b.Size())
}

func TestDestroyRemovesSubtree(t *testing.T) {
	sc := New("test")
	parent := sc.NewObject("parent", nil)
	child := sc.NewObject("child", parent)
	r := child.AddRenderer(NewCubeMesh("cube", 1))

	require.Len(t, sc.Renderers(), 1)
	parent.Destroy()
	require.False(t, child.Alive())
	require.False(t, r.Alive())
	require.Empty(t, sc.Renderers())
	require.Nil(t, sc.Find("parent"))
}

func TestInactiveObjectsAreNotScanned(t *testing.T) {
	sc := New("test")
	parent := sc.NewObject("parent", nil)
	sc.NewObject("child", parent).AddRenderer(NewCubeMesh("cube", 1))
	other := sc.NewObject("other", nil)
	other.AddRenderer(NewCubeMesh("cube", 1)).SetEnabled(false)

	parent.SetActive(false)
	renderers := sc.Renderers()
	require.Len(t, renderers, 1)
	require.Equal(t, "other", renderers[0].Name())

	scan := sc.ScanRenderers()
	chunk, ok := scan.Next(10)
	require.True(t, ok)
	require.Len(t, chunk, 1)
	_, ok = scan.Next(10)
	require.False(t, ok)
}

func TestHierarchyAndSelectionListeners(t *testing.T) {
	sc := New("test")
	hierarchyCalls := 0
	remove := sc.OnHierarchyChanged(func() { hierarchyCalls++ })

	var selected []*Object
	sc.OnSelectionChanged(func(sel []*Object) { selected = sel })

	obj := sc.NewObject("obj", nil)
	obj.SetPosition(types.XYZ(1, 0, 0))
	require.Equal(t, 2, hierarchyCalls)
	require.True(t, obj.HasChanged())
	obj.ClearChanged()
	require.False(t, obj.HasChanged())

	sc.Select(obj)
	require.Equal(t, []*Object{obj}, selected)

	remove()
	sc.NewObject("other", nil)
	require.Equal(t, 2, hierarchyCalls)
}

func TestHLODContainerIsSingleton(t *testing.T) {
	sc := New("test")
	c1 := sc.HLODContainer()
	c2 := sc.HLODContainer()
	require.Same(t, c1, c2)
	require.Equal(t, sc.HLODLayer(), c1.Layer())
	require.Equal(t, HLODLayerName, sc.LayerName(c1.Layer()))
}

func TestCameraRelativeHeight(t *testing.T) {
	cam := NewCamera(90)
	// tan(45deg) == 1 so a size 2 object at distance 1 fills the viewport.
	require.InDelta(t, 1.0, cam.RelativeHeight(1, 2), 1e-5)
	require.InDelta(t, 0.1, cam.RelativeHeight(10, 2), 1e-5)
	require.InDelta(t, 10.0, cam.DistanceForRelativeHeight(0.1, 2), 1e-4)

	cam.Orthographic = true
	cam.OrthographicSize = 5
	require.InDelta(t, 0.2, cam.RelativeHeight(1000, 2), 1e-5)
}

func TestCameraUpdateAppliesYaw(t *testing.T) {
	cam := NewCamera(60)
	cam.Yaw = math.Pi / 2
	cam.Update()
	require.True(t, cam.Forward().ApproxEqual(types.XYZ(-1, 0, 0)), "forward %v", cam.Forward())
}

func TestLODGroupCurrentLOD(t *testing.T) {
	sc := New("test")
	obj := sc.NewObject("obj", nil)
	g := obj.AddLODGroup()
	g.Size = 2
	g.SetLODs([]LOD{
		{ScreenRelativeTransitionHeight: 0.5},
		{ScreenRelativeTransitionHeight: 0.1},
	})
	cam := NewCamera(90)

	type spec struct {
		distance float32
		exp      int
	}
	specs := []spec{
		{1, 0},   // height 1
		{2, 0},   // height 0.5
		{5, 1},   // height 0.2
		{100, 1}, // height 0.01, falls back to max LOD
	}
	for index, s := range specs {
		cam.Position = types.XYZ(0, 0, s.distance)
		require.Equal(t, s.exp, g.CurrentLOD(cam), "spec %d", index)
	}
}

func TestLODGroupSetEnabledTogglesRenderersOnChange(t *testing.T) {
	sc := New("test")
	obj := sc.NewObject("obj", nil)
	r0 := sc.NewObject("lod0", obj).AddRenderer(NewCubeMesh("c", 1))
	r1 := sc.NewObject("lod1", obj).AddRenderer(NewCubeMesh("c", 1))
	g := obj.AddLODGroup()
	g.SetLODs([]LOD{{0.5, []*Renderer{r0}}, {0.01, []*Renderer{r1}}})

	require.Same(t, g, r1.LODGroup())
	require.Equal(t, 1, g.LevelOf(r1))

	g.SetEnabled(false)
	require.False(t, r0.Enabled())
	require.False(t, r1.Enabled())

	// No state change, renderers are left alone.
	r0.SetEnabled(true)
	g.SetEnabled(false)
	require.True(t, r0.Enabled())

	g.SetEnabled(true)
	require.True(t, r1.Enabled())
}

func TestRecalculateBounds(t *testing.T) {
	sc := New("test")
	obj := sc.NewObject("obj", nil)
	obj.SetPosition(types.XYZ(5, 0, 0))
	r := sc.NewObject("lod0", obj).AddRenderer(NewCubeMesh("c", 4))
	g := obj.AddLODGroup()
	g.SetLODs([]LOD{{0.5, []*Renderer{r}}})
	g.RecalculateBounds()

	require.InDelta(t, 4.0, g.WorldSpaceSize(), 1e-5)
	require.True(t, g.WorldReferencePoint().ApproxEqual(types.XYZ(5, 0, 0)))
}

func TestCombineMeshes(t *testing.T) {
	a := NewCubeMesh("a", 1)
	b := NewGridMesh("b", 2, 1)

	out := CombineMeshes("combined", []CombineInstance{
		{Mesh: a, Transform: Translation(types.XYZ(2, 0, 0))},
		{Mesh: b, Transform: IdentityTransform()},
	}, true)

	require.Equal(t, a.VertexCount()+b.VertexCount(), out.VertexCount())
	require.Equal(t, a.PolyCount()+b.PolyCount(), out.PolyCount())
	require.Len(t, out.SubMeshes, 1)
	require.Equal(t, UInt16, out.IndexFormat)
	// The grid has no tangents so they are zero padded.
	require.Len(t, out.Tangents, out.VertexCount())
	require.True(t, out.Vertices[0].ApproxEqual(a.Vertices[0].Add(types.XYZ(2, 0, 0))))
	// Indices of the second instance are offset by the first vertex count.
	require.Equal(t, uint32(a.VertexCount()), out.SubMeshes[0][a.IndexCount()])
}

func TestCombineMeshesWidensIndexFormat(t *testing.T) {
	grid := NewGridMesh("grid", 200, 1)
	out := CombineMeshes("combined", []CombineInstance{
		{Mesh: grid, Transform: IdentityTransform()},
		{Mesh: grid, Transform: IdentityTransform()},
	}, false)

	require.Greater(t, out.VertexCount(), 65535)
	require.Equal(t, UInt32, out.IndexFormat)
	require.Len(t, out.SubMeshes, 2)
}

func TestMaterialSetEquality(t *testing.T) {
	sc := New("test")
	m1, m2 := NewMaterial("m1"), NewMaterial("m2")
	ra := sc.NewObject("a", nil).AddRenderer(NewCubeMesh("c", 1), m1, nil)
	rb := sc.NewObject("b", nil).AddRenderer(NewCubeMesh("c", 1), m1)
	rc := sc.NewObject("c", nil).AddRenderer(NewCubeMesh("c", 1), m1, m2)

	require.True(t, MaterialsOf([]*Renderer{ra}).Equal(MaterialsOf([]*Renderer{rb})))
	require.False(t, MaterialsOf([]*Renderer{ra}).Equal(MaterialsOf([]*Renderer{rc})))
	require.Same(t, m1, ra.SharedMaterial())
}
