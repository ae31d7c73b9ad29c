// Package batcher provides the built-in batchers used for HLOD proxies.
package batcher

import (
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
)

// Registry ids of the built-in batchers.
const (
	MaterialPreservingID = "material-preserving"
	CombineID            = "combine"
)

func init() {
	registry.MustRegisterBatcher(MaterialPreservingID, func() registry.Batcher { return MaterialPreserving{} })
	registry.MustRegisterBatcher(CombineID, func() registry.Batcher { return Combine{} })
}

// MaterialPreserving leaves every source renderer and its materials in place
// and only makes sure they are enabled. Draw calls are not reduced.
type MaterialPreserving struct{}

// Batch implements registry.Batcher.
func (MaterialPreserving) Batch(root *scene.Object) task.Task {
	return task.Do(func() {
		if !root.Alive() {
			return
		}
		for _, r := range root.RenderersInChildren() {
			r.SetEnabled(true)
		}
	})
}

// Combine merges every renderer under root into a single mesh attached to
// root. The first non-nil source material is used for the combined renderer
// and the source objects are destroyed.
type Combine struct{}

// Batch implements registry.Batcher.
func (Combine) Batch(root *scene.Object) task.Task {
	var (
		sources   []*scene.Renderer
		instances []scene.CombineInstance
		material  *scene.Material
	)

	return task.Sequence(
		task.Do(func() {
			if root.Alive() {
				sources = root.RenderersInChildren()
			}
		}),
		task.Lazy(func() task.Task {
			return task.ForEach(len(sources), func(i int) {
				r := sources[i]
				if !r.Alive() || r.Mesh == nil {
					return
				}
				instances = append(instances, scene.CombineInstance{
					Mesh:      r.Mesh,
					Transform: r.Object().WorldTransform(),
				})
				if material == nil {
					material = r.SharedMaterial()
				}
			})
		}),
		task.Do(func() {
			if !root.Alive() || len(instances) == 0 {
				return
			}

			mesh := scene.CombineMeshes(root.Name, instances, true)
			toRoot(mesh, root.WorldTransform())

			for _, r := range sources {
				if obj := r.Object(); obj != root {
					obj.Destroy()
				}
			}
			root.AddRenderer(mesh, material)
		}),
	)
}

// toRoot maps a world space mesh into the local space of the root transform.
func toRoot(m *scene.Mesh, rootTransform scene.Transform) {
	for i, v := range m.Vertices {
		m.Vertices[i] = rootTransform.InverseApply(v)
	}
	for i, n := range m.Normals {
		m.Normals[i] = rootTransform.InverseApplyDirection(n)
	}
	for i, t := range m.Tangents {
		m.Tangents[i] = rootTransform.InverseApplyDirection(t.Vec3()).Vec4(t[3])
	}
}

var (
	_ registry.Batcher = MaterialPreserving{}
	_ registry.Batcher = Combine{}
)
