package archive

import (
	"github.com/achilleasa/autolod/scene"
	"github.com/google/uuid"
)

// Catalog tracks the generated meshes of a scene and which of them have been
// written to disk. Deleting a mesh marks the catalog dirty so the next save
// drops it from the archive.
type Catalog struct {
	meshes    map[uuid.UUID]*scene.Mesh
	persisted map[uuid.UUID]struct{}
	dirty     bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		meshes:    make(map[uuid.UUID]*scene.Mesh),
		persisted: make(map[uuid.UUID]struct{}),
	}
}

// Add registers a mesh. It returns false if id is already known.
func (c *Catalog) Add(id uuid.UUID, m *scene.Mesh) bool {
	if _, ok := c.meshes[id]; ok {
		return false
	}
	c.meshes[id] = m
	c.dirty = true
	return true
}

// Delete forgets a mesh.
func (c *Catalog) Delete(id uuid.UUID) {
	if _, ok := c.meshes[id]; !ok {
		return
	}
	delete(c.meshes, id)
	delete(c.persisted, id)
	c.dirty = true
}

// Contains reports whether id is known.
func (c *Catalog) Contains(id uuid.UUID) bool {
	_, ok := c.meshes[id]
	return ok
}

// Persisted reports whether id has been written by the last save or load.
func (c *Catalog) Persisted(id uuid.UUID) bool {
	_, ok := c.persisted[id]
	return ok
}

// Mesh returns the mesh registered for id or nil.
func (c *Catalog) Mesh(id uuid.UUID) *scene.Mesh {
	return c.meshes[id]
}

// Len returns the number of known meshes.
func (c *Catalog) Len() int {
	return len(c.meshes)
}

// Dirty reports whether the catalog changed since the last save or load.
func (c *Catalog) Dirty() bool {
	return c.dirty
}

// Save writes every known mesh to path and returns the number of meshes that
// were not persisted before. Clean catalogs are not written.
func (c *Catalog) Save(path string) (int, error) {
	if !c.dirty {
		return 0, nil
	}
	if err := Write(path, c.meshes); err != nil {
		return 0, err
	}

	added := 0
	for id := range c.meshes {
		if _, ok := c.persisted[id]; !ok {
			c.persisted[id] = struct{}{}
			added++
		}
	}
	c.dirty = false
	return added, nil
}

// Load merges the meshes of an archive file into the catalog and returns
// them.
func (c *Catalog) Load(path string) (map[uuid.UUID]*scene.Mesh, error) {
	meshes, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	for id, m := range meshes {
		c.meshes[id] = m
		c.persisted[id] = struct{}{}
	}
	return meshes, nil
}
