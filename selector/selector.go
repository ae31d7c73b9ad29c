// Package selector resolves, per camera, whether each volume node is drawn
// through its HLOD proxy or through the content below it.
package selector

import (
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/volume"
)

// Outcomes reported to the Visit hook.
const (
	// The node was hidden because an ancestor proxy is visible.
	LODCoveredByParent = -1
	// The node content is drawn (finer than the proxy).
	LODDetail = 0
	// The node proxy is drawn.
	LODProxy = 1
)

// Selector toggles proxy and renderer visibility for a volume tree. It reads
// the tree and must run on the same goroutine that mutates it.
type Selector struct {
	// When disabled the selector restores the original renderers once and
	// then leaves visibility alone.
	Enabled bool

	// Visit, if set, is invoked for every visited node with the selected
	// outcome.
	Visit func(n *volume.Node, parentAlreadyVisible bool, lod int)

	last     scene.CameraState
	hasLast  bool
	wasReset bool
}

// New creates an enabled selector.
func New() *Selector {
	return &Selector{Enabled: true}
}

// CameraChanged reports whether the camera moved, turned or changed its
// projection since the last Update.
func (s *Selector) CameraChanged(cam *scene.Camera) bool {
	if !s.hasLast {
		return true
	}
	cur := cam.State()
	return !cur.Position.ApproxEqual(s.last.Position) ||
		!cur.Forward.ApproxEqual(s.last.Forward) ||
		cur.FOV != s.last.FOV ||
		cur.Orthographic != s.last.Orthographic ||
		cur.OrthographicSize != s.last.OrthographicSize
}

// Update resolves the visibility of the tree rooted at root for cam.
func (s *Selector) Update(root *volume.Node, cam *scene.Camera) {
	if !s.Enabled {
		if !s.wasReset {
			s.Reset(root)
			s.wasReset = true
		}
		return
	}
	s.wasReset = false
	s.last, s.hasLast = cam.State(), true

	if root.Alive() {
		s.update(root, cam, false)
	}
}

func (s *Selector) update(n *volume.Node, cam *scene.Camera, parentAlreadyVisible bool) {
	if !n.Alive() {
		return
	}

	if parentAlreadyVisible {
		if n.LODGroup != nil {
			n.LODGroup.SetEnabled(false)
		}
		s.visit(n, true, LODCoveredByParent)
		if n.IsLeaf() {
			hideRenderers(n.DirectRenderers())
			return
		}
		for _, child := range n.Children() {
			s.update(child, cam, true)
		}
		return
	}

	lod := LODDetail
	if n.LODGroup != nil {
		lod = n.LODGroup.CurrentLOD(cam)
	}
	s.visit(n, false, lod)

	if lod == LODDetail {
		if n.LODGroup != nil {
			n.LODGroup.SetEnabled(false)
		}
		if n.IsLeaf() {
			showRenderers(n.DirectRenderers(), cam)
			return
		}
		for _, child := range n.Children() {
			s.update(child, cam, false)
		}
		return
	}

	n.LODGroup.SetEnabled(true)
	if n.IsLeaf() {
		hideRenderers(n.DirectRenderers())
		return
	}
	for _, child := range n.Children() {
		s.update(child, cam, true)
	}
}

func (s *Selector) visit(n *volume.Node, parentAlreadyVisible bool, lod int) {
	if s.Visit != nil {
		s.Visit(n, parentAlreadyVisible, lod)
	}
}

// Reset hides every node proxy and shows the original renderers.
func (s *Selector) Reset(root *volume.Node) {
	s.hasLast = false
	root.Walk(func(n *volume.Node) bool {
		if n.LODGroup != nil {
			n.LODGroup.SetEnabled(false)
		}
		if n.IsLeaf() {
			showRenderers(n.DirectRenderers(), nil)
		}
		return true
	})
}

// showRenderers makes the renderers visible. Renderers that belong to a LOD
// chain show the chain level selected by cam, or the finest level without a
// camera.
func showRenderers(renderers []*scene.Renderer, cam *scene.Camera) {
	for _, r := range renderers {
		if !r.Alive() {
			continue
		}
		g := r.LODGroup()
		if g == nil || g.LODCount() == 0 {
			r.SetEnabled(true)
			continue
		}
		level := 0
		if cam != nil {
			level = g.CurrentLOD(cam)
		}
		showChainLevel(g, level)
	}
}

func showChainLevel(g *scene.LODGroup, level int) {
	g.SetEnabled(true)
	for i, lod := range g.LODs() {
		for _, r := range lod.Renderers {
			if r.Alive() {
				r.SetEnabled(i == level)
			}
		}
	}
}

func hideRenderers(renderers []*scene.Renderer) {
	for _, r := range renderers {
		if !r.Alive() {
			continue
		}
		if g := r.LODGroup(); g != nil && g.LODCount() != 0 {
			g.SetEnabled(false)
			continue
		}
		r.SetEnabled(false)
	}
}
