// Package hlod builds the combined proxies that stand in for the content of
// volume nodes at a distance.
package hlod

import (
	"github.com/achilleasa/autolod/async"
	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/achilleasa/autolod/volume"
	"github.com/google/uuid"
)

// The default screen relative height below which a node switches to its proxy.
const DefaultTransitionHeight float32 = 0.3

// Counters tracks proxy construction.
type Counters struct {
	Merged    int
	Rebuilt   int
	Destroyed int
}

// Aggregator builds and replaces the HLOD proxies of volume nodes.
type Aggregator struct {
	logger log.Logger

	scene   *scene.Scene
	batcher registry.Batcher
	pool    *async.Pool
	store   MeshStore

	// Screen relative height of the detail level of generated node LOD
	// groups.
	TransitionHeight float32

	counters Counters
}

// NewAggregator creates an aggregator for sc. Mesh combination runs on pool
// when one is given and inline otherwise. A nil store disables persisted mesh
// tracking.
func NewAggregator(sc *scene.Scene, batcher registry.Batcher, pool *async.Pool, store MeshStore) *Aggregator {
	return &Aggregator{
		logger:           log.New("hlod"),
		scene:            sc,
		batcher:          batcher,
		pool:             pool,
		store:            store,
		TransitionHeight: DefaultTransitionHeight,
	}
}

// Counters returns the proxy construction counters.
func (a *Aggregator) Counters() Counters {
	return a.counters
}

// ProxyOf returns the proxy owned by n or nil.
func ProxyOf(n *volume.Node) *Proxy {
	if !n.Alive() {
		return nil
	}
	p, _ := n.HLOD.(*Proxy)
	return p
}

// MergeChildrenVolumes reports whether the proxy of n can be built by
// concatenating the proxies of its children. This requires every populated
// child to use exactly the materials of n and to own a proxy with a root
// renderer. The child proxy renderers are returned when merging is possible.
func (a *Aggregator) MergeChildrenVolumes(n *volume.Node) (bool, []*scene.Renderer) {
	if !n.Alive() || n.IsLeaf() {
		return false, nil
	}

	materials := scene.MaterialsOf(n.Renderers())
	var out []*scene.Renderer
	for _, child := range n.Children() {
		if len(child.Renderers()) == 0 {
			continue
		}
		if !materials.Equal(scene.MaterialsOf(child.Renderers())) {
			return false, nil
		}
		proxy := ProxyOf(child)
		if proxy == nil || proxy.Renderer() == nil {
			return false, nil
		}
		out = append(out, proxy.Renderer())
	}
	return len(out) != 0, out
}

// RebuildSources returns the renderers a proxy for n is built from when
// merging is not possible. Renderers that belong to a LOD chain contribute the
// renderers of the coarsest chain level instead.
func RebuildSources(n *volume.Node) []*scene.Renderer {
	var out []*scene.Renderer
	seen := make(map[*scene.Renderer]struct{})
	add := func(r *scene.Renderer) {
		if !r.Alive() || r.Mesh == nil {
			return
		}
		if _, dup := seen[r]; dup {
			return
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	for _, r := range n.Renderers() {
		if !r.Alive() {
			continue
		}
		if g := r.LODGroup(); g != nil && g.LODCount() != 0 {
			for _, lr := range g.LODs()[g.MaxLOD()].Renderers {
				add(lr)
			}
			continue
		}
		add(r)
	}
	return out
}

// Generate returns a task that replaces the proxy of n. When propagateUpwards
// is set the ancestors of n are regenerated afterwards.
func (a *Aggregator) Generate(n *volume.Node, propagateUpwards bool) task.Task {
	return task.Lazy(func() task.Task {
		if !n.Alive() {
			return nil
		}
		a.cleanup(n)

		var build task.Task
		if merge, sources := a.MergeChildrenVolumes(n); merge {
			build = a.merge(n, sources)
		} else if sources := RebuildSources(n); len(sources) != 0 {
			build = a.rebuild(n, sources)
		}

		if !propagateUpwards {
			return build
		}
		return task.Sequence(build, task.Lazy(func() task.Task {
			if parent := n.Parent(); parent != nil {
				return a.Generate(parent, true)
			}
			return nil
		}))
	})
}

// UpdateHLODs returns a task that regenerates the proxies of all dirty nodes
// under root, children first, one node per step. A node is marked clean once
// its proxy is current.
func (a *Aggregator) UpdateHLODs(root *volume.Node) task.Task {
	return task.Lazy(func() task.Task {
		var steps []task.Task
		for _, n := range root.PostOrder() {
			steps = append(steps, task.Lazy(func() task.Task {
				if !n.Alive() || !n.Dirty {
					return nil
				}
				return task.Sequence(
					a.Generate(n, false),
					task.Do(func() { n.Dirty = false }),
				)
			}))
		}
		return task.Sequence(steps...)
	})
}

// cleanup destroys the current proxy and LOD group of n.
func (a *Aggregator) cleanup(n *volume.Node) {
	if n.HLOD != nil {
		n.HLOD.Destroy()
		n.HLOD = nil
	}
	if n.LODGroup != nil {
		n.LODGroup.SetEnabled(false)
		n.LODGroup = nil
	}
}

func (a *Aggregator) newProxy(n *volume.Node, path string, sources []*scene.Renderer) *Proxy {
	root := a.scene.NewObject(n.Name()+" HLOD", a.scene.HLODContainer())
	p := &Proxy{
		aggregator: a,
		Root:       root,
		Path:       path,
		sources:    make(map[*scene.Mesh]struct{}),
		meshIDs:    make(map[*scene.Mesh]uuid.UUID),
	}
	for _, r := range sources {
		if r.Mesh != nil {
			p.sources[r.Mesh] = struct{}{}
		}
	}
	return p
}

// merge concatenates the child proxy meshes into a single renderer on the
// proxy root. The combination runs on the worker pool.
func (a *Aggregator) merge(n *volume.Node, sources []*scene.Renderer) task.Task {
	instances := make([]scene.CombineInstance, 0, len(sources))
	var material *scene.Material
	for _, r := range sources {
		instances = append(instances, scene.CombineInstance{Mesh: r.Mesh, Transform: r.Object().WorldTransform()})
		if material == nil {
			material = r.SharedMaterial()
		}
	}

	var combined *scene.Mesh
	combine := func() any { return scene.CombineMeshes(n.Name()+" HLOD", instances, true) }
	collect := func(result any) { combined = result.(*scene.Mesh) }

	var run task.Task
	if a.pool != nil {
		run = async.Await(a.pool, combine, collect)
	} else {
		run = task.Do(func() { collect(combine()) })
	}

	return task.Sequence(run, task.Do(func() {
		if !n.Alive() {
			return
		}
		// Child proxies are inputs of the merge and never count as owned
		// meshes of this proxy.
		p := a.newProxy(n, PathMerge, nil)
		p.Root.AddRenderer(combined, material)
		a.attach(n, p)
	}))
}

// rebuild copies the source renderers under a new proxy root and hands the
// result to the batcher.
func (a *Aggregator) rebuild(n *volume.Node, sources []*scene.Renderer) task.Task {
	var p *Proxy
	return task.Sequence(
		task.Do(func() {
			p = a.newProxy(n, PathRebuild, sources)
		}),
		task.ForEach(len(sources), func(i int) {
			src := sources[i]
			if !src.Alive() || !p.Root.Alive() {
				return
			}
			obj := a.scene.NewObject(src.Name(), p.Root)
			obj.SetLocalTransform(src.Object().WorldTransform())
			obj.AddRenderer(src.Mesh, append([]*scene.Material(nil), src.Materials...)...)
		}),
		task.Lazy(func() task.Task {
			if !n.Alive() {
				p.Root.Destroy()
				return nil
			}
			return a.batcher.Batch(p.Root)
		}),
		task.Do(func() {
			if !n.Alive() {
				p.Root.Destroy()
				return
			}
			a.attach(n, p)
		}),
	)
}

// attach installs p as the proxy of n together with a two level LOD group:
// the node content while the node covers at least the transition height and
// the proxy below it. Both start hidden until the selector runs.
func (a *Aggregator) attach(n *volume.Node, p *Proxy) {
	if n.HLOD != nil {
		n.HLOD.Destroy()
	}

	g := scene.NewLODGroup()
	g.ReferencePoint = n.Bounds.Center
	g.Size = n.Bounds.MaxSide()
	g.SetLODs([]scene.LOD{
		{ScreenRelativeTransitionHeight: a.TransitionHeight},
		{ScreenRelativeTransitionHeight: 0, Renderers: p.Renderers()},
	})
	g.SetEnabled(false)

	n.HLOD = p
	n.LODGroup = g

	switch p.Path {
	case PathMerge:
		a.counters.Merged++
	default:
		a.counters.Rebuilt++
	}
	instrumentBuilt(p.Path)
	a.logger.Debugf("built %s proxy for %s with %d renderers", p.Path, n.Name(), len(g.LODs()[1].Renderers))
}
