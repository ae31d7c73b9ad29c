package scene

import "github.com/achilleasa/autolod/types"

// ObjectID uniquely identifies an object within a scene.
type ObjectID uint32

// Object is a node of the scene hierarchy. Objects may carry a renderer and
// a LOD group.
type Object struct {
	scene *Scene
	id    ObjectID

	Name string

	layer    Layer
	local    Transform
	parent   *Object
	children []*Object

	renderer *Renderer
	lodGroup *LODGroup

	active    bool
	destroyed bool

	// Set whenever the world transform of this object changes; cleared by
	// the consumer that observed the change.
	changed bool
}

// ID returns the object id.
func (o *Object) ID() ObjectID { return o.id }

// Scene returns the scene that owns this object.
func (o *Object) Scene() *Scene { return o.scene }

// Alive returns false once the object has been destroyed. It is safe to call
// on a nil object.
func (o *Object) Alive() bool {
	return o != nil && !o.destroyed
}

// Layer returns the render layer of the object.
func (o *Object) Layer() Layer { return o.layer }

// SetLayer moves the object (but not its children) to a layer.
func (o *Object) SetLayer(l Layer) {
	if o.layer == l {
		return
	}
	o.layer = l
	o.scene.notifyHierarchy()
}

// Parent returns the parent object or nil for root objects.
func (o *Object) Parent() *Object { return o.parent }

// Children returns the live children of this object.
func (o *Object) Children() []*Object {
	return o.children
}

// SetParent reparents the object while preserving its local transform.
func (o *Object) SetParent(parent *Object) {
	if o.parent == parent || parent == o {
		return
	}
	if o.parent != nil {
		o.parent.removeChild(o)
	}
	o.parent = parent
	if parent != nil {
		parent.children = append(parent.children, o)
	}
	o.markChanged()
	o.scene.notifyHierarchy()
}

func (o *Object) removeChild(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// LocalTransform returns the transform relative to the parent.
func (o *Object) LocalTransform() Transform { return o.local }

// SetLocalTransform replaces the transform relative to the parent.
func (o *Object) SetLocalTransform(t Transform) {
	o.local = t
	o.markChanged()
	o.scene.notifyHierarchy()
}

// WorldTransform returns the object transform in world space.
func (o *Object) WorldTransform() Transform {
	if o.parent == nil {
		return o.local
	}
	return o.parent.WorldTransform().Combine(o.local)
}

// Position returns the world space position of the object.
func (o *Object) Position() types.Vec3 {
	return o.WorldTransform().Position
}

// SetPosition moves the object to a local space position.
func (o *Object) SetPosition(p types.Vec3) {
	o.local.Position = p
	o.markChanged()
	o.scene.notifyHierarchy()
}

// HasChanged reports whether the world transform changed since the last call
// to ClearChanged.
func (o *Object) HasChanged() bool { return o.changed }

// ClearChanged resets the transform change flag.
func (o *Object) ClearChanged() { o.changed = false }

func (o *Object) markChanged() {
	o.changed = true
	for _, c := range o.children {
		c.markChanged()
	}
}

// SetActive toggles the object and its subtree in and out of the scene.
func (o *Object) SetActive(active bool) {
	if o.active == active {
		return
	}
	o.active = active
	o.scene.notifyHierarchy()
}

// ActiveInHierarchy returns true if this object and all its ancestors are active.
func (o *Object) ActiveInHierarchy() bool {
	for cur := o; cur != nil; cur = cur.parent {
		if !cur.active || cur.destroyed {
			return false
		}
	}
	return true
}

// Renderer returns the renderer attached to this object or nil.
func (o *Object) Renderer() *Renderer { return o.renderer }

// AddRenderer attaches a mesh renderer to the object, replacing any existing one.
func (o *Object) AddRenderer(mesh *Mesh, materials ...*Material) *Renderer {
	o.renderer = &Renderer{
		object:    o,
		Mesh:      mesh,
		Materials: materials,
		enabled:   true,
	}
	o.scene.notifyHierarchy()
	return o.renderer
}

// LODGroup returns the LOD group attached to this object or nil.
func (o *Object) LODGroup() *LODGroup { return o.lodGroup }

// AddLODGroup attaches an empty LOD group to the object.
func (o *Object) AddLODGroup() *LODGroup {
	if o.lodGroup == nil {
		o.lodGroup = &LODGroup{object: o, enabled: true, Size: 1}
		o.scene.notifyHierarchy()
	}
	return o.lodGroup
}

// RemoveLODGroup detaches the LOD group from the object.
func (o *Object) RemoveLODGroup() {
	if o.lodGroup == nil {
		return
	}
	o.lodGroup.object = nil
	o.lodGroup = nil
	o.scene.notifyHierarchy()
}

// Destroy removes the object and its subtree from the scene.
func (o *Object) Destroy() {
	if !o.Alive() {
		return
	}
	if o.parent != nil {
		o.parent.removeChild(o)
		o.parent = nil
	}
	o.destroy()
	o.scene.notifyHierarchy()
}

func (o *Object) destroy() {
	for _, c := range o.children {
		c.parent = nil
		c.destroy()
	}
	o.children = nil
	o.destroyed = true
	if o.renderer != nil {
		o.renderer.enabled = false
	}
	delete(o.scene.objects, o.id)
}

// Walk visits the object and all its descendants depth-first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// RenderersInChildren returns all renderers in the object subtree.
func (o *Object) RenderersInChildren() []*Renderer {
	var out []*Renderer
	o.Walk(func(obj *Object) {
		if obj.renderer != nil {
			out = append(out, obj.renderer)
		}
	})
	return out
}
