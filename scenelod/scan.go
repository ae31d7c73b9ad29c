package scenelod

import (
	"sort"
	"time"

	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/achilleasa/autolod/volume"
)

// The number of renderers filtered per scan step.
const scanChunk = 64

type scanResult struct {
	found []*scene.Renderer
	set   map[*scene.Renderer]struct{}
}

// service returns a maintenance pass: scan the scene, apply the differences
// to the tree and rebuild the proxies of dirty nodes.
func (m *Manager) service() task.Task {
	start := time.Now()
	res := &scanResult{set: make(map[*scene.Renderer]struct{})}
	return task.Sequence(
		m.scan(res),
		task.Lazy(func() task.Task { return m.mutate(res) }),
		task.Lazy(func() task.Task {
			if !m.rootDirty() {
				return nil
			}
			return m.aggregator.UpdateHLODs(m.root)
		}),
		task.Do(func() {
			m.servicing = false
			instrumentIndexed(m.scene.Name, len(m.known))
			m.logger.Debugf("synchronized %d renderers in %d ms", len(m.known), time.Since(start).Nanoseconds()/1e6)
		}),
	)
}

func (m *Manager) scan(res *scanResult) task.Task {
	return task.Lazy(func() task.Task {
		instrumentScan(m.scene.Name)
		it := m.scene.ScanRenderers()
		return task.Func(func() bool {
			chunk, ok := it.Next(scanChunk)
			for _, r := range chunk {
				if m.indexable(r) {
					res.found = append(res.found, r)
					res.set[r] = struct{}{}
				}
			}
			return ok
		})
	})
}

// mutate plans one step per removed, added or moved renderer.
func (m *Manager) mutate(res *scanResult) task.Task {
	var removed []*scene.Renderer
	for r := range m.known {
		if _, ok := res.set[r]; !ok {
			removed = append(removed, r)
		}
	}
	sort.Slice(removed, func(i, j int) bool {
		return removed[i].Object().ID() < removed[j].Object().ID()
	})

	var added, moved []*scene.Renderer
	for _, r := range res.found {
		if _, ok := m.known[r]; !ok {
			added = append(added, r)
		} else if r.Object().HasChanged() {
			moved = append(moved, r)
		}
	}

	if len(removed)+len(added)+len(moved) != 0 {
		m.logger.Debugf("scan found %d added, %d removed and %d moved renderers", len(added), len(removed), len(moved))
	}

	return task.Sequence(
		task.ForEach(len(removed), func(i int) { m.removeRenderer(removed[i]) }),
		task.ForEach(len(added), func(i int) { m.addRenderer(added[i]) }),
		task.ForEach(len(moved), func(i int) { m.moveRenderer(moved[i]) }),
	)
}

func (m *Manager) removeRenderer(r *scene.Renderer) {
	delete(m.known, r)
	if m.root == nil {
		return
	}
	m.root.Remove(r)
	m.root = m.tree.ResolveRoot(m.root)
}

func (m *Manager) addRenderer(r *scene.Renderer) {
	if !r.Alive() {
		return
	}
	if m.root == nil {
		if !m.activated {
			return
		}
		m.root = m.tree.NewRoot()
	}
	m.root.Insert(r)
	m.root = m.tree.ResolveRoot(m.root)
	m.known[r] = struct{}{}
	r.Object().ClearChanged()
}

func (m *Manager) moveRenderer(r *scene.Renderer) {
	if !r.Alive() || m.root == nil {
		return
	}
	m.root = m.root.UpdateRenderer(r)
	r.Object().ClearChanged()
}

// indexable applies the exclusion filter. Rejected renderers are cached until
// the next hierarchy change.
func (m *Manager) indexable(r *scene.Renderer) bool {
	if _, ok := m.excluded[r]; ok {
		return false
	}
	if m.excludes(r) {
		m.excluded[r] = struct{}{}
		return false
	}
	return true
}

// excludes reports whether r is kept out of the tree. Renderers of the HLOD
// layer, renderers without a triangle mesh and the finer levels of LOD chains
// are never indexed. Renderers outside any LOD chain are only indexed when
// configured to.
func (m *Manager) excludes(r *scene.Renderer) bool {
	if !volume.Indexable(r) {
		return true
	}
	group := r.LODGroup()
	if group == nil {
		return !m.cfg.IndexStandaloneRenderers
	}
	return group.LevelOf(r) >= 1
}

// onSelectionChanged re-checks the objects that were selected until now and
// records the pose of the new selection.
func (m *Manager) onSelectionChanged(selection []*scene.Object) {
	previous := m.selection
	m.selection = append([]*scene.Object(nil), selection...)

	if len(previous) != 0 {
		m.queue.Enqueue(task.Do(func() { m.recheck(previous) }))
	}
	for _, obj := range m.selection {
		obj.Walk(func(o *scene.Object) {
			m.poses[o] = o.WorldTransform()
		})
	}
}

// recheck re-indexes the known renderers under objs whose world transform
// no longer matches the recorded pose.
func (m *Manager) recheck(objs []*scene.Object) {
	for _, obj := range objs {
		if !obj.Alive() {
			continue
		}
		obj.Walk(func(o *scene.Object) {
			pose, ok := m.poses[o]
			if !ok {
				return
			}
			delete(m.poses, o)
			if pose.ApproxEqual(o.WorldTransform()) {
				return
			}
			r := o.Renderer()
			if _, known := m.known[r]; !known || r == nil {
				return
			}
			m.moveRenderer(r)
			m.treeModified = true
		})
	}
}
