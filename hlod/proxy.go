package hlod

import (
	"github.com/achilleasa/autolod/scene"
	"github.com/google/uuid"
)

// Proxy generation paths.
const (
	PathMerge   = "merge"
	PathRebuild = "rebuild"
)

// MeshStore tracks proxy meshes that have been persisted. Destroyed proxies
// release their persisted meshes through it.
type MeshStore interface {
	Delete(id uuid.UUID)
}

// Proxy is the HLOD representation of a volume node. Its objects live under
// the scene HLOD container and are exclusively owned by the proxy.
type Proxy struct {
	aggregator *Aggregator

	// The proxy root object and the path that produced it.
	Root *scene.Object
	Path string

	sources map[*scene.Mesh]struct{}
	meshIDs map[*scene.Mesh]uuid.UUID
}

// Renderer returns the renderer attached directly to the proxy root or nil.
// Only proxies with a root renderer can be merged into their parent.
func (p *Proxy) Renderer() *scene.Renderer {
	if !p.Root.Alive() {
		return nil
	}
	if r := p.Root.Renderer(); r.Alive() {
		return r
	}
	return nil
}

// Renderers returns every renderer of the proxy.
func (p *Proxy) Renderers() []*scene.Renderer {
	if !p.Root.Alive() {
		return nil
	}
	return p.Root.RenderersInChildren()
}

// VertexCount returns the number of vertices drawn by the proxy.
func (p *Proxy) VertexCount() int {
	count := 0
	for _, r := range p.Renderers() {
		if r.Mesh != nil {
			count += r.Mesh.VertexCount()
		}
	}
	return count
}

// GeneratedMeshes returns the proxy meshes that were produced while building
// the proxy, as opposed to meshes shared with the source renderers.
func (p *Proxy) GeneratedMeshes() []*scene.Mesh {
	var out []*scene.Mesh
	seen := make(map[*scene.Mesh]struct{})
	for _, r := range p.Renderers() {
		if r.Mesh == nil {
			continue
		}
		if _, shared := p.sources[r.Mesh]; shared {
			continue
		}
		if _, dup := seen[r.Mesh]; dup {
			continue
		}
		seen[r.Mesh] = struct{}{}
		out = append(out, r.Mesh)
	}
	return out
}

// MeshID returns the persistent id of a generated mesh, allocating one on
// first use.
func (p *Proxy) MeshID(m *scene.Mesh) uuid.UUID {
	if id, ok := p.meshIDs[m]; ok {
		return id
	}
	id := uuid.New()
	p.meshIDs[m] = id
	return id
}

// Destroy removes the proxy objects and releases its persisted meshes.
func (p *Proxy) Destroy() {
	if p.Root.Alive() {
		p.Root.Destroy()
	}
	if store := p.aggregator.store; store != nil {
		for _, id := range p.meshIDs {
			store.Delete(id)
		}
	}
	p.meshIDs = make(map[*scene.Mesh]uuid.UUID)
	p.aggregator.counters.Destroyed++
	instrumentDestroyed()
}
