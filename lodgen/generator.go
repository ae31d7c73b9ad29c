package lodgen

import (
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/autolod/async"
	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/chewxy/math32"
)

// Screen relative transition height of the coarsest generated level.
const LastLevelTransitionHeight = 0.01

var (
	ErrNoSimplifier = errors.New("lodgen: no mesh simplifier available")
)

// Generator builds LOD chains with a mesh simplifier. Simplification runs on
// the worker pool when one is set.
type Generator struct {
	logger     log.Logger
	simplifier registry.MeshSimplifier
	pool       *async.Pool
}

// NewGenerator creates a generator.
func NewGenerator(simplifier registry.MeshSimplifier, pool *async.Pool) *Generator {
	return &Generator{
		logger:     log.New("lodgen"),
		simplifier: simplifier,
		pool:       pool,
	}
}

// LevelQuality returns the simplification quality of level i.
func LevelQuality(i int) float32 {
	return math32.Pow(0.5, float32(i))
}

// LevelTransitionHeight returns the transition height of level i of a chain
// with maxLOD as its coarsest level.
func LevelTransitionHeight(i, maxLOD int) float32 {
	if i == maxLOD {
		return LastLevelTransitionHeight
	}
	return math32.Pow(0.5, float32(i+1))
}

// PolyCount returns the number of primitives drawn by the renderers.
func PolyCount(renderers []*scene.Renderer) int {
	count := 0
	for _, r := range renderers {
		if r.Alive() && r.Mesh != nil {
			count += r.Mesh.PolyCount()
		}
	}
	return count
}

// HasLODGroup reports whether obj or one of its ancestors carries a LOD
// group.
func HasLODGroup(obj *scene.Object) bool {
	for cur := obj; cur != nil; cur = cur.Parent() {
		if cur.LODGroup() != nil {
			return true
		}
	}
	return false
}

type level struct {
	renderers []*scene.Renderer
}

// Generate returns a task building the LOD chain of obj. The task is
// task.Done when there is nothing to generate.
func (g *Generator) Generate(obj *scene.Object, settings ImportSettings) (task.Task, error) {
	if g.simplifier == nil {
		return nil, ErrNoSimplifier
	}
	if !obj.Alive() || HasLODGroup(obj) {
		return task.Done, nil
	}
	settings = settings.Clamped()

	var sources []*scene.Renderer
	for _, r := range obj.RenderersInChildren() {
		if r.Mesh != nil {
			sources = append(sources, r)
		}
	}
	polyCount := PolyCount(sources)
	initial := settings.InitialLODMaxPolyCount
	simplifyLOD0 := initial > 0 && polyCount > initial
	if len(sources) == 0 || (settings.MaxLODGenerated == 0 && !simplifyLOD0) {
		return task.Done, nil
	}

	start := time.Now()
	levels := make([]level, settings.MaxLODGenerated+1)
	levels[0].renderers = sources

	// Levels are simplified from the original meshes.
	originals := make([]*scene.Mesh, len(sources))
	for i, r := range sources {
		originals[i] = r.Mesh
	}

	var steps []task.Task
	if simplifyLOD0 {
		quality := float32(initial) / float32(polyCount)
		for i, r := range sources {
			steps = append(steps, g.simplify(originals[i], quality, func(m *scene.Mesh) {
				if r.Alive() {
					r.Mesh = m
				}
			}))
		}
	}

	for lod := 1; lod <= settings.MaxLODGenerated; lod++ {
		quality := LevelQuality(lod)
		levels[lod].renderers = make([]*scene.Renderer, len(sources))
		for i, src := range sources {
			steps = append(steps, g.simplify(originals[i], quality, func(m *scene.Mesh) {
				if !src.Alive() || !obj.Alive() {
					return
				}
				lodObj := newLevelObject(obj, src.Object(), lod)
				levels[lod].renderers[i] = lodObj.AddRenderer(m, src.Materials...)
			}))
		}
	}

	steps = append(steps, task.Do(func() {
		if !obj.Alive() {
			return
		}
		if len(levels) > 1 {
			for _, r := range sources {
				if r.Alive() {
					r.Object().Name = fmt.Sprintf("%s LOD0", r.Name())
				}
			}
			attachGroup(obj, levels)
		}
		g.logger.Noticef("generated %d LOD levels for %q (%d polys) in %d ms", len(levels)-1, obj.Name, polyCount, time.Since(start).Nanoseconds()/1e6)
	}))

	return task.Sequence(steps...), nil
}

func (g *Generator) simplify(in *scene.Mesh, quality float32, done func(*scene.Mesh)) task.Task {
	job := func() any {
		out := new(scene.Mesh)
		g.simplifier.Simplify(in, out, quality)
		return out
	}
	if g.pool == nil {
		return task.Do(func() { done(job().(*scene.Mesh)) })
	}
	return async.Await(g.pool, job, func(result any) {
		done(result.(*scene.Mesh))
	})
}

// newLevelObject creates the object holding the level lod copy of src. The
// copy is placed as a sibling of src so both share the same world transform.
func newLevelObject(root, src *scene.Object, lod int) *scene.Object {
	name := fmt.Sprintf("%s LOD%d", src.Name, lod)
	if src == root || src.Parent() == nil {
		return src.Scene().NewObject(name, root)
	}
	obj := src.Scene().NewObject(name, src.Parent())
	obj.SetLocalTransform(src.LocalTransform())
	return obj
}

func attachGroup(obj *scene.Object, levels []level) {
	maxLOD := len(levels) - 1
	lods := make([]scene.LOD, len(levels))
	for i, l := range levels {
		var renderers []*scene.Renderer
		for _, r := range l.renderers {
			if r != nil {
				renderers = append(renderers, r)
			}
		}
		lods[i] = scene.LOD{
			ScreenRelativeTransitionHeight: LevelTransitionHeight(i, maxLOD),
			Renderers:                      renderers,
		}
	}
	group := obj.AddLODGroup()
	group.SetLODs(lods)
	group.RecalculateBounds()
}

// Describe returns the LOD record of an object with a generated chain.
func Describe(obj *scene.Object, settings ImportSettings) LODData {
	data := LODData{ImportSettings: settings}
	group := obj.LODGroup()
	if group == nil {
		return data
	}
	for i, lod := range group.LODs() {
		if i > MaxLOD {
			break
		}
		for _, r := range lod.Renderers {
			if r.Alive() {
				data.Levels[i] = append(data.Levels[i], r.Name())
			}
		}
	}
	return data
}
