// Package registry maps string identifiers to mesh simplifier and batcher
// implementations.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
)

var (
	ErrUnknownSimplifier = errors.New("registry: unknown mesh simplifier")
	ErrUnknownBatcher    = errors.New("registry: unknown batcher")
	ErrDuplicateID       = errors.New("registry: duplicate id")
)

// MeshSimplifier reduces the triangle count of a mesh.
type MeshSimplifier interface {
	// Simplify populates out with a copy of in that has at most
	// quality*triangles triangles. Quality is in (0, 1]. Every vertex
	// channel present on in is preserved.
	Simplify(in, out *scene.Mesh, quality float32)
}

// Batcher combines the renderers found under a root object.
type Batcher interface {
	// Batch returns a task that rewrites the subtree of root into one or
	// more combined renderers.
	Batch(root *scene.Object) task.Task
}

// SimplifierFactory creates a MeshSimplifier instance.
type SimplifierFactory func() MeshSimplifier

// BatcherFactory creates a Batcher instance.
type BatcherFactory func() Batcher

// Registry holds the known simplifier and batcher factories. It is safe for
// concurrent use.
type Registry struct {
	mutex       sync.RWMutex
	simplifiers map[string]SimplifierFactory
	batchers    map[string]BatcherFactory
}

// Default is populated by the init functions of the packages providing
// implementations.
var Default = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		simplifiers: make(map[string]SimplifierFactory),
		batchers:    make(map[string]BatcherFactory),
	}
}

// RegisterSimplifier associates id with a simplifier factory.
func (r *Registry) RegisterSimplifier(id string, factory SimplifierFactory) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.simplifiers[id]; exists {
		return fmt.Errorf("%w: simplifier %q", ErrDuplicateID, id)
	}
	r.simplifiers[id] = factory
	return nil
}

// RegisterBatcher associates id with a batcher factory.
func (r *Registry) RegisterBatcher(id string, factory BatcherFactory) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.batchers[id]; exists {
		return fmt.Errorf("%w: batcher %q", ErrDuplicateID, id)
	}
	r.batchers[id] = factory
	return nil
}

// Simplifier creates the simplifier registered as id.
func (r *Registry) Simplifier(id string) (MeshSimplifier, error) {
	r.mutex.RLock()
	factory, ok := r.simplifiers[id]
	r.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSimplifier, id)
	}
	return factory(), nil
}

// Batcher creates the batcher registered as id.
func (r *Registry) Batcher(id string) (Batcher, error) {
	r.mutex.RLock()
	factory, ok := r.batchers[id]
	r.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBatcher, id)
	}
	return factory(), nil
}

// SimplifierIDs returns the registered simplifier ids in sorted order.
func (r *Registry) SimplifierIDs() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortedKeys(r.simplifiers)
}

// BatcherIDs returns the registered batcher ids in sorted order.
func (r *Registry) BatcherIDs() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortedKeys(r.batchers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MustRegisterSimplifier registers a simplifier with the Default registry and
// panics on duplicate ids. It is meant to be called from init functions.
func MustRegisterSimplifier(id string, factory SimplifierFactory) {
	if err := Default.RegisterSimplifier(id, factory); err != nil {
		panic(err)
	}
}

// MustRegisterBatcher registers a batcher with the Default registry and panics
// on duplicate ids. It is meant to be called from init functions.
func MustRegisterBatcher(id string, factory BatcherFactory) {
	if err := Default.RegisterBatcher(id, factory); err != nil {
		panic(err)
	}
}
