package scene

import "github.com/achilleasa/autolod/types"

// Renderer draws a mesh with a list of materials at the location of its
// owning object.
type Renderer struct {
	object *Object

	Mesh      *Mesh
	Materials []*Material

	enabled bool
}

// Object returns the owning object.
func (r *Renderer) Object() *Object { return r.object }

// Name returns the name of the owning object.
func (r *Renderer) Name() string { return r.object.Name }

// Alive returns false once the owning object has been destroyed. It is safe
// to call on a nil renderer.
func (r *Renderer) Alive() bool {
	return r != nil && r.object.Alive() && r.object.renderer == r
}

// Enabled reports whether the renderer is visible.
func (r *Renderer) Enabled() bool { return r.enabled }

// SetEnabled toggles renderer visibility.
func (r *Renderer) SetEnabled(enabled bool) { r.enabled = enabled }

// Bounds returns the world space bounding box of the rendered mesh.
func (r *Renderer) Bounds() types.Bounds {
	if r.Mesh == nil {
		return types.Bounds{Center: r.object.Position()}
	}
	wt := r.object.WorldTransform()
	return r.Mesh.Bounds().Transform(wt.Position, wt.Rotation, wt.Scale)
}

// OnHLODLayer reports whether the renderer belongs to the reserved HLOD layer.
func (r *Renderer) OnHLODLayer() bool {
	return r.object.scene.LayerName(r.object.layer) == HLODLayerName
}

// HasTriangleMesh reports whether the renderer draws a triangle mesh.
func (r *Renderer) HasTriangleMesh() bool {
	return r.Mesh != nil && r.Mesh.Topology == Triangles
}

// SharedMaterial returns the first non-nil material or nil.
func (r *Renderer) SharedMaterial() *Material {
	for _, m := range r.Materials {
		if m != nil {
			return m
		}
	}
	return nil
}

// LODGroup returns the LOD group attached to the renderer's object or to its
// closest ancestor that has one.
func (r *Renderer) LODGroup() *LODGroup {
	for cur := r.object; cur != nil; cur = cur.parent {
		if cur.lodGroup != nil {
			return cur.lodGroup
		}
	}
	return nil
}
