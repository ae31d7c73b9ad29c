package volume

import "github.com/achilleasa/autolod/scene"

// Remove drops r from the subtree rooted at n. Every child is visited so stale
// entries left behind by moved renderers are cleaned up as well. Removing from
// the root may shrink the tree so callers must re-resolve the root afterwards.
func (n *Node) Remove(r *scene.Renderer) {
	if !n.Alive() || !n.remove(r) {
		return
	}

	for _, child := range n.Children() {
		child.Remove(r)
	}
	n.pruneDead()

	if n.IsRoot() {
		n.tree.counters.Removes++
		instrumentOperation(opRemove)
		n.Shrink()
	}
	if !n.Alive() {
		return
	}
	if n.IsLeaf() {
		n.MarkDirty()
	}
}

// Shrink collapses chains of root nodes that have a single populated child.
// The promoted child becomes the new root and the old root is destroyed along
// with its HLOD proxy.
func (n *Node) Shrink() {
	if !n.Alive() || !n.IsRoot() {
		return
	}

	var populated []*Node
	for _, child := range n.Children() {
		if len(child.renderers) != 0 {
			populated = append(populated, child)
		}
	}
	if len(populated) != 1 {
		return
	}

	promoted := populated[0]
	n.detach(promoted.ID)
	promoted.parentID = 0

	t := n.tree
	n.destroy()
	t.root = promoted.ID
	t.counters.Shrinks++
	instrumentOperation(opShrink)

	promoted.Shrink()
}

// UpdateRenderer re-indexes a renderer that moved. It is removed from the tree
// n belongs to and inserted again at the resolved root. The resolved root is
// returned.
func (n *Node) UpdateRenderer(r *scene.Renderer) *Node {
	t := n.tree
	root := t.ResolveRoot(n)
	if root == nil {
		return nil
	}
	root.Remove(r)

	root = t.ResolveRoot(root)
	if root == nil {
		return nil
	}
	root.Insert(r)
	return t.ResolveRoot(root)
}
