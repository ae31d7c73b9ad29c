package selector

import (
	"testing"

	"github.com/achilleasa/autolod/batcher"
	"github.com/achilleasa/autolod/hlod"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
	"github.com/achilleasa/autolod/volume"
	"github.com/stretchr/testify/require"
)

// buildTree indexes 33 cubes along the x axis into a root with two populated
// leaves and builds the proxies of every node.
func buildTree(t *testing.T) (*scene.Scene, *volume.Node, []*scene.Renderer) {
	sc := scene.New("test")
	mat := scene.NewMaterial("m")
	tree := volume.NewTree()
	root := tree.NewRoot()

	var renderers []*scene.Renderer
	add := func(x float32) {
		obj := sc.NewObject("cube", nil)
		obj.SetPosition(types.XYZ(x, 0, 0))
		r := obj.AddRenderer(scene.NewCubeMesh("cube", 1), mat)
		renderers = append(renderers, r)
		root.Insert(r)
	}
	add(0)
	add(64)
	for x := float32(2); x < 64; x += 2 {
		add(x)
	}
	require.Len(t, root.Children(), 8)

	agg := hlod.NewAggregator(sc, batcher.MaterialPreserving{}, nil, nil)
	update := agg.UpdateHLODs(root)
	for update.Step() {
	}
	require.NotNil(t, hlod.ProxyOf(root))
	return sc, root, renderers
}

func proxyVisible(n *volume.Node) bool {
	p := hlod.ProxyOf(n)
	if p == nil {
		return false
	}
	for _, r := range p.Renderers() {
		if !r.Enabled() {
			return false
		}
	}
	return len(p.Renderers()) != 0
}

// visibleCount returns how many representations of r are drawn.
func visibleCount(root *volume.Node, r *scene.Renderer) int {
	count := 0
	if r.Enabled() {
		count++
	}
	root.Walk(func(n *volume.Node) bool {
		if n.Contains(r) && proxyVisible(n) {
			count++
		}
		return true
	})
	return count
}

func TestFarCameraSelectsRootProxy(t *testing.T) {
	_, root, renderers := buildTree(t)

	visits := make(map[volume.NodeID]bool)
	sel := New()
	sel.Visit = func(n *volume.Node, parentAlreadyVisible bool, lod int) {
		visits[n.ID] = parentAlreadyVisible
		if n == root {
			require.Equal(t, LODProxy, lod)
		} else {
			require.Equal(t, LODCoveredByParent, lod)
		}
	}

	cam := scene.NewCamera(60)
	cam.Position = types.XYZ(32, 0, 10000)
	sel.Update(root, cam)

	children := root.Children()
	for _, leaf := range []*volume.Node{children[0], children[4]} {
		require.True(t, visits[leaf.ID], "leaf %s", leaf.Name())
		for _, r := range leaf.DirectRenderers() {
			require.False(t, r.Enabled())
		}
		require.False(t, leaf.LODGroup.Enabled())
		require.False(t, proxyVisible(leaf))
	}
	require.True(t, root.LODGroup.Enabled())
	require.True(t, proxyVisible(root))

	for _, r := range renderers {
		require.Equal(t, 1, visibleCount(root, r))
	}
}

func TestEveryRendererIsDrawnExactlyOnce(t *testing.T) {
	_, root, renderers := buildTree(t)
	sel := New()
	cam := scene.NewCamera(60)

	type spec struct {
		pos types.Vec3
	}
	specs := []spec{
		{types.XYZ(32, 0, 10000)},
		{types.XYZ(32, 0, 150)},
		{types.XYZ(0, 0, 20)},
		{types.XYZ(64, 0, 40)},
		{types.XYZ(16, 0, 1)},
		{types.XYZ(32, 0, 10000)},
	}
	for index, s := range specs {
		cam.Position = s.pos
		sel.Update(root, cam)
		for _, r := range renderers {
			if got := visibleCount(root, r); got != 1 {
				t.Fatalf("[spec %d] expected renderer at %v to be drawn once; got %d", index, r.Bounds().Center, got)
			}
		}
	}
}

func TestNearCameraShowsOriginalRenderers(t *testing.T) {
	_, root, renderers := buildTree(t)
	sel := New()
	cam := scene.NewCamera(60)
	cam.Position = types.XYZ(32, 0, 1)
	sel.Update(root, cam)

	require.False(t, root.LODGroup.Enabled())
	for _, r := range renderers {
		require.True(t, r.Enabled())
	}
}

func TestDisabledSelectorResetsOnce(t *testing.T) {
	_, root, renderers := buildTree(t)
	sel := New()
	cam := scene.NewCamera(60)
	cam.Position = types.XYZ(32, 0, 10000)
	sel.Update(root, cam)
	require.True(t, proxyVisible(root))

	sel.Enabled = false
	sel.Update(root, cam)
	require.False(t, proxyVisible(root))
	for _, r := range renderers {
		require.True(t, r.Enabled())
	}

	// Once reset, visibility is left alone.
	renderers[0].SetEnabled(false)
	sel.Update(root, cam)
	require.False(t, renderers[0].Enabled())

	sel.Enabled = true
	sel.Update(root, cam)
	require.True(t, proxyVisible(root))
}

func TestCameraChanged(t *testing.T) {
	_, root, _ := buildTree(t)
	sel := New()
	cam := scene.NewCamera(60)

	require.True(t, sel.CameraChanged(cam))
	sel.Update(root, cam)
	require.False(t, sel.CameraChanged(cam))

	cam.Move(types.XYZ(0, 0, 1))
	require.True(t, sel.CameraChanged(cam))
	sel.Update(root, cam)

	cam.FOV = 90
	require.True(t, sel.CameraChanged(cam))
}

func TestLeafShowsCurrentChainLevel(t *testing.T) {
	sc := scene.New("test")
	chain := sc.NewObject("chain", nil)
	lod0 := sc.NewObject("chain LOD0", chain).AddRenderer(scene.NewCubeMesh("c", 1))
	lod1 := sc.NewObject("chain LOD1", chain).AddRenderer(scene.NewCubeMesh("c", 1))
	g := chain.AddLODGroup()
	g.SetLODs([]scene.LOD{
		{ScreenRelativeTransitionHeight: 0.5, Renderers: []*scene.Renderer{lod0}},
		{ScreenRelativeTransitionHeight: 0.01, Renderers: []*scene.Renderer{lod1}},
	})

	tree := volume.NewTree()
	leaf := tree.NewRoot()
	leaf.Insert(lod0)

	sel := New()
	cam := scene.NewCamera(90)

	cam.Position = types.XYZ(0, 0, 1)
	sel.Update(leaf, cam)
	require.True(t, lod0.Enabled())
	require.False(t, lod1.Enabled())

	cam.Position = types.XYZ(0, 0, 10)
	sel.Update(leaf, cam)
	require.False(t, lod0.Enabled())
	require.True(t, lod1.Enabled())

	// Without a proxy the node is always resolved to its content.
	require.Nil(t, leaf.LODGroup)
}
