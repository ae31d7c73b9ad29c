package scene

import "sort"

// Layer is a render layer index.
type Layer int

const (
	// The layer assigned to new objects.
	DefaultLayer Layer = 0

	// Reserved name of the layer that holds generated HLOD proxies.
	HLODLayerName = "HLOD"

	// Reserved name of the root object under which HLOD proxies are parented.
	HLODContainerName = "HLODs"
)

// Scene is an in-memory scene graph.
type Scene struct {
	Name string

	nextID  ObjectID
	objects map[ObjectID]*Object
	layers  []string

	selection []*Object

	nextListenerID     int
	hierarchyListeners map[int]func()
	selectionListeners map[int]func([]*Object)
}

// New creates an empty scene.
func New(name string) *Scene {
	return &Scene{
		Name:               name,
		objects:            make(map[ObjectID]*Object),
		layers:             []string{"Default"},
		hierarchyListeners: make(map[int]func()),
		selectionListeners: make(map[int]func([]*Object)),
	}
}

// NewObject creates an active object with an identity transform. A nil
// parent creates a root object.
func (sc *Scene) NewObject(name string, parent *Object) *Object {
	sc.nextID++
	obj := &Object{
		scene:  sc,
		id:     sc.nextID,
		Name:   name,
		local:  IdentityTransform(),
		active: true,
	}
	if parent != nil {
		obj.layer = parent.layer
		obj.parent = parent
		parent.children = append(parent.children, obj)
	}
	sc.objects[obj.id] = obj
	sc.notifyHierarchy()
	return obj
}

// Object looks up a live object by id.
func (sc *Scene) Object(id ObjectID) *Object {
	return sc.objects[id]
}

// Objects returns all live objects in creation order.
func (sc *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(sc.objects))
	for _, obj := range sc.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Find returns the first live root object with the given name.
func (sc *Scene) Find(name string) *Object {
	for _, obj := range sc.Objects() {
		if obj.parent == nil && obj.Name == name {
			return obj
		}
	}
	return nil
}

// Layer returns the index of the named layer, creating it if needed.
func (sc *Scene) Layer(name string) Layer {
	for i, l := range sc.layers {
		if l == name {
			return Layer(i)
		}
	}
	sc.layers = append(sc.layers, name)
	return Layer(len(sc.layers) - 1)
}

// LayerName returns the name of a layer index.
func (sc *Scene) LayerName(l Layer) string {
	if int(l) < 0 || int(l) >= len(sc.layers) {
		return ""
	}
	return sc.layers[l]
}

// HLODLayer returns the reserved HLOD layer.
func (sc *Scene) HLODLayer() Layer {
	return sc.Layer(HLODLayerName)
}

// HLODContainer returns the root object holding HLOD proxies, creating it on
// the HLOD layer if needed.
func (sc *Scene) HLODContainer() *Object {
	if c := sc.Find(HLODContainerName); c != nil {
		return c
	}
	c := sc.NewObject(HLODContainerName, nil)
	c.layer = sc.HLODLayer()
	return c
}

// Renderers returns the renderers of all objects that are active in the
// hierarchy, in object creation order. Disabled renderers are included.
func (sc *Scene) Renderers() []*Renderer {
	var out []*Renderer
	for _, obj := range sc.Objects() {
		if obj.renderer != nil && obj.ActiveInHierarchy() {
			out = append(out, obj.renderer)
		}
	}
	return out
}

// ScanRenderers returns an incremental iterator over a snapshot of the
// scene renderers.
func (sc *Scene) ScanRenderers() *RendererScan {
	return &RendererScan{renderers: sc.Renderers()}
}

// RendererScan hands out a renderer snapshot in chunks.
type RendererScan struct {
	renderers []*Renderer
	offset    int
}

// Next returns up to n renderers. The second result is false once the scan
// is exhausted.
func (s *RendererScan) Next(n int) ([]*Renderer, bool) {
	if s.offset >= len(s.renderers) {
		return nil, false
	}
	end := s.offset + n
	if end > len(s.renderers) {
		end = len(s.renderers)
	}
	chunk := s.renderers[s.offset:end]
	s.offset = end
	return chunk, true
}

// Len returns the snapshot size.
func (s *RendererScan) Len() int { return len(s.renderers) }

// Select replaces the current selection and notifies listeners.
func (sc *Scene) Select(objects ...*Object) {
	sc.selection = append([]*Object(nil), objects...)
	for _, id := range sortedIDs(sc.selectionListeners) {
		if fn, ok := sc.selectionListeners[id]; ok {
			fn(sc.selection)
		}
	}
}

// Selection returns the current selection.
func (sc *Scene) Selection() []*Object {
	return sc.selection
}

// OnHierarchyChanged registers a callback for structural or transform
// changes. The returned function removes the callback.
func (sc *Scene) OnHierarchyChanged(fn func()) (remove func()) {
	sc.nextListenerID++
	id := sc.nextListenerID
	sc.hierarchyListeners[id] = fn
	return func() { delete(sc.hierarchyListeners, id) }
}

// OnSelectionChanged registers a callback for selection changes. The
// returned function removes the callback.
func (sc *Scene) OnSelectionChanged(fn func([]*Object)) (remove func()) {
	sc.nextListenerID++
	id := sc.nextListenerID
	sc.selectionListeners[id] = fn
	return func() { delete(sc.selectionListeners, id) }
}

func (sc *Scene) notifyHierarchy() {
	for _, id := range sortedIDs(sc.hierarchyListeners) {
		if fn, ok := sc.hierarchyListeners[id]; ok {
			fn()
		}
	}
}

// Collect listener ids in registration order so callbacks may add or remove
// listeners while being notified.
func sortedIDs[V any](listeners map[int]V) []int {
	ids := make([]int, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
