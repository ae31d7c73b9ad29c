package scene

import "github.com/achilleasa/autolod/types"

// Material is compared by identity; two materials with identical properties
// are still considered different.
type Material struct {
	Name        string
	MainTexture string
	Color       types.Vec4
}

// Create a new material.
func NewMaterial(name string) *Material {
	return &Material{Name: name, Color: types.Vec4{1, 1, 1, 1}}
}

// MaterialSet is an unordered set of materials.
type MaterialSet map[*Material]struct{}

// Collect the non-nil materials of a list of renderers.
func MaterialsOf(renderers []*Renderer) MaterialSet {
	set := make(MaterialSet)
	for _, r := range renderers {
		if !r.Alive() {
			continue
		}
		for _, m := range r.Materials {
			if m != nil {
				set[m] = struct{}{}
			}
		}
	}
	return set
}

// Equal returns true if both sets contain exactly the same materials.
func (s MaterialSet) Equal(other MaterialSet) bool {
	if len(s) != len(other) {
		return false
	}
	for m := range s {
		if _, ok := other[m]; !ok {
			return false
		}
	}
	return true
}
