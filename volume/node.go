package volume

import (
	"fmt"

	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
)

// Node is a cube shaped volume of the tree. The renderer list of a node holds
// every renderer indexed in its subtree.
type Node struct {
	tree *Tree

	ID     NodeID
	Bounds types.Bounds
	Dirty  bool

	// The HLOD proxy built for this node and the LOD group switching between
	// the proxy and the node content.
	HLOD     Proxy
	LODGroup *scene.LODGroup

	renderers []*scene.Renderer
	index     map[*scene.Renderer]struct{}

	parentID     NodeID
	children     []NodeID
	childVolumes []*Node

	destroyed bool
}

// Name returns a human readable node name.
func (n *Node) Name() string {
	return fmt.Sprintf("LODVolumeNode %d", n.ID)
}

// Tree returns the arena that owns the node.
func (n *Node) Tree() *Tree { return n.tree }

// Alive returns false once the node has been destroyed. It is safe to call on
// a nil node.
func (n *Node) Alive() bool {
	return n != nil && !n.destroyed
}

// Parent returns the parent node or nil for the root.
func (n *Node) Parent() *Node {
	if n.parentID == 0 {
		return nil
	}
	return n.tree.nodes[n.parentID]
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent() == nil
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Children returns the live structural children in i,j,k order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if child := n.tree.nodes[id]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

// ChildVolumes returns the child cache refreshed by MarkDirty.
func (n *Node) ChildVolumes() []*Node {
	return n.childVolumes
}

// Renderers returns every renderer indexed in the node subtree.
func (n *Node) Renderers() []*scene.Renderer {
	return n.renderers
}

// Contains reports whether r is indexed in the node subtree.
func (n *Node) Contains(r *scene.Renderer) bool {
	_, ok := n.index[r]
	return ok
}

// Depth returns the distance from the root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

// MarkDirty flags the node and all its ancestors for HLOD regeneration and
// refreshes the child cache of each visited node.
func (n *Node) MarkDirty() {
	for cur := n; cur.Alive(); cur = cur.Parent() {
		cur.Dirty = true
		cur.childVolumes = cur.Children()
	}
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !n.Alive() || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		child.Walk(fn)
	}
}

// PostOrder returns the subtree nodes with every child listed before its
// parent.
func (n *Node) PostOrder() []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(cur *Node) {
		for _, child := range cur.Children() {
			visit(child)
		}
		out = append(out, cur)
	}
	if n.Alive() {
		visit(n)
	}
	return out
}

// DirectRenderers returns the renderers indexed by a leaf. Interior nodes
// delegate their content to their children and have no direct renderers.
func (n *Node) DirectRenderers() []*scene.Renderer {
	if !n.IsLeaf() {
		return nil
	}
	return n.renderers
}

func (n *Node) add(r *scene.Renderer) {
	if _, ok := n.index[r]; ok {
		return
	}
	n.index[r] = struct{}{}
	n.renderers = append(n.renderers, r)
}

func (n *Node) remove(r *scene.Renderer) bool {
	if _, ok := n.index[r]; !ok {
		return false
	}
	delete(n.index, r)
	for i, cur := range n.renderers {
		if cur == r {
			n.renderers = append(n.renderers[:i], n.renderers[i+1:]...)
			break
		}
	}
	return true
}

// Drop renderers whose objects have been destroyed behind our back.
func (n *Node) pruneDead() {
	kept := n.renderers[:0]
	for _, r := range n.renderers {
		if r.Alive() {
			kept = append(kept, r)
			continue
		}
		delete(n.index, r)
	}
	for i := len(kept); i < len(n.renderers); i++ {
		n.renderers[i] = nil
	}
	n.renderers = kept
}

// childFor returns the first child whose bounds contain p. If rounding left p
// outside every child, the octant of p relative to the node center is used.
func (n *Node) childFor(p types.Vec3) *Node {
	children := n.Children()
	for _, child := range children {
		if child.Bounds.Contains(p) {
			return child
		}
	}
	if len(children) != Splits*Splits*Splits {
		return nil
	}
	return children[octant(n.Bounds.Center, p)]
}

// octant returns the i,j,k ordered cell index of p relative to center. Points
// on a split plane go to the low cell, matching the containment scan order.
func octant(center, p types.Vec3) int {
	index := 0
	if p[0] > center[0] {
		index += 4
	}
	if p[1] > center[1] {
		index += 2
	}
	if p[2] > center[2] {
		index++
	}
	return index
}

// destroy releases the node subtree and the HLOD proxies it owns.
func (n *Node) destroy() {
	if !n.Alive() {
		return
	}
	for _, child := range n.Children() {
		child.destroy()
	}
	if p := n.Parent(); p != nil {
		p.detach(n.ID)
	}
	n.destroyed = true
	if n.HLOD != nil {
		n.HLOD.Destroy()
		n.HLOD = nil
	}
	n.LODGroup = nil
	n.children, n.childVolumes = nil, nil

	t := n.tree
	delete(t.nodes, n.ID)
	t.ids.Reuse(n.ID)
	if t.root == n.ID {
		t.root = 0
	}
	t.counters.Destroyed++
	instrumentOperation(opDestroy)
}

func (n *Node) detach(id NodeID) {
	for i, cid := range n.children {
		if cid == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	for i, child := range n.childVolumes {
		if child.ID == id {
			n.childVolumes = append(n.childVolumes[:i], n.childVolumes[i+1:]...)
			break
		}
	}
}
