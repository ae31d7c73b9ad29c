package scene

import "github.com/achilleasa/autolod/types"

// LOD is a single detail level of a LOD group. The level is selected while
// the screen relative height of the group is at least the transition height.
type LOD struct {
	ScreenRelativeTransitionHeight float32
	Renderers                      []*Renderer
}

// LODGroup switches between detail levels based on the projected size of the
// group. Groups may be attached to an object or be free-standing, in which
// case ReferencePoint is expressed in world space.
type LODGroup struct {
	object  *Object
	lods    []LOD
	enabled bool

	// Reference point (local space when attached to an object) and the
	// group size used for computing the screen relative height.
	ReferencePoint types.Vec3
	Size           float32
}

// NewLODGroup creates a free-standing, enabled LOD group.
func NewLODGroup() *LODGroup {
	return &LODGroup{enabled: true, Size: 1}
}

// Object returns the object the group is attached to or nil.
func (g *LODGroup) Object() *Object { return g.object }

// SetLODs replaces the group levels.
func (g *LODGroup) SetLODs(lods []LOD) {
	g.lods = lods
}

// LODs returns the group levels.
func (g *LODGroup) LODs() []LOD { return g.lods }

// LODCount returns the number of levels.
func (g *LODGroup) LODCount() int { return len(g.lods) }

// MaxLOD returns the index of the coarsest level.
func (g *LODGroup) MaxLOD() int { return len(g.lods) - 1 }

// Enabled reports whether the group is enabled.
func (g *LODGroup) Enabled() bool { return g.enabled }

// SetEnabled toggles the group. When the state changes the renderers of every
// level follow it.
func (g *LODGroup) SetEnabled(enabled bool) {
	if g.enabled == enabled {
		return
	}
	g.enabled = enabled
	g.SetRenderersEnabled(enabled)
}

// SetRenderersEnabled toggles the renderers of every level.
func (g *LODGroup) SetRenderersEnabled(enabled bool) {
	for _, lod := range g.lods {
		for _, r := range lod.Renderers {
			if r.Alive() {
				r.SetEnabled(enabled)
			}
		}
	}
}

// LevelOf returns the index of the first level containing r or -1.
func (g *LODGroup) LevelOf(r *Renderer) int {
	for i, lod := range g.lods {
		for _, lr := range lod.Renderers {
			if lr == r {
				return i
			}
		}
	}
	return -1
}

// WorldReferencePoint returns the group reference point in world space.
func (g *LODGroup) WorldReferencePoint() types.Vec3 {
	if g.object == nil {
		return g.ReferencePoint
	}
	return g.object.WorldTransform().Apply(g.ReferencePoint)
}

// WorldSpaceSize returns the group size scaled by the largest axis of the
// owning object's scale.
func (g *LODGroup) WorldSpaceSize() float32 {
	if g.object == nil {
		return g.Size
	}
	return g.object.WorldTransform().Scale.Abs().MaxComponent() * g.Size
}

// RecalculateBounds sets the reference point and size from the bounds of all
// level renderers.
func (g *LODGroup) RecalculateBounds() {
	var bounds types.Bounds
	first := true
	for _, lod := range g.lods {
		for _, r := range lod.Renderers {
			if !r.Alive() {
				continue
			}
			if first {
				bounds = r.Bounds()
				first = false
				continue
			}
			bounds = bounds.Encapsulate(r.Bounds())
		}
	}
	if first {
		return
	}

	g.Size = bounds.MaxSide()
	g.ReferencePoint = bounds.Center
	if g.object != nil {
		wt := g.object.WorldTransform()
		g.ReferencePoint = wt.InverseApply(bounds.Center)
		if largest := wt.Scale.Abs().MaxComponent(); largest > 0 {
			g.Size /= largest
		}
	}
}

// CurrentLOD returns the level the camera would select: the first level
// whose transition height the relative height meets or exceeds, or the
// coarsest level if none do.
func (g *LODGroup) CurrentLOD(cam *Camera) int {
	return g.CurrentLODAt(cam, cam.Position)
}

// CurrentLODAt is CurrentLOD using an explicit camera position.
func (g *LODGroup) CurrentLODAt(cam *Camera, cameraPos types.Vec3) int {
	distance := g.WorldReferencePoint().Distance(cameraPos)
	height := cam.RelativeHeight(distance, g.WorldSpaceSize())

	current := g.MaxLOD()
	for i, lod := range g.lods {
		// Heights that land on a threshold within float rounding select it.
		threshold := lod.ScreenRelativeTransitionHeight
		if height >= threshold || types.ApproxEqual(height, threshold) {
			current = i
			break
		}
	}
	return current
}
