package volume

import (
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
	"github.com/chewxy/math32"
)

// Indexable reports whether r may be indexed by the tree. Renderers on the
// HLOD layer and renderers without a triangle mesh are never indexed.
func Indexable(r *scene.Renderer) bool {
	return r.Alive() && !r.OnHLODLayer() && r.HasTriangleMesh()
}

// Insert indexes r into the subtree rooted at n. When r lies outside the root
// bounds the tree either expands the root leaf or grows a new root, so callers
// must re-resolve the root afterwards.
func (n *Node) Insert(r *scene.Renderer) {
	if !n.Alive() || !Indexable(r) {
		return
	}

	rb := r.Bounds()
	seeded := false
	if len(n.renderers) == 0 && n.Bounds.IsDegenerate() {
		n.Bounds = rb.Cuboid()
		seeded = true
	}

	centroid := rb.Center
	if seeded || n.Bounds.Contains(centroid) {
		n.add(r)
		if !n.IsLeaf() {
			if child := n.childFor(centroid); child != nil {
				child.Insert(r)
			}
			return
		}
		n.countInsert()
		if len(n.renderers) > SplitThreshold {
			n.Split()
		} else {
			n.MarkDirty()
		}
		return
	}

	if !n.IsRoot() {
		return
	}

	// A zero sized root cannot grow so it always absorbs the renderer.
	if n.IsLeaf() && (len(n.renderers) < SplitThreshold || n.Bounds.IsDegenerate()) {
		n.Bounds = n.Bounds.Encapsulate(rb).Cuboid()
		n.add(r)
		n.countInsert()
		if len(n.renderers) > SplitThreshold {
			n.Split()
		} else {
			n.MarkDirty()
		}
		return
	}

	target := n.Bounds.Encapsulate(rb).Cuboid()
	if newRoot := n.Grow(target); newRoot != nil {
		newRoot.Insert(r)
	}
}

func (n *Node) countInsert() {
	n.tree.counters.Inserts++
	instrumentOperation(opInsert)
}

// Split partitions a leaf into a 2x2x2 grid of children and distributes its
// renderers by centroid. Children that end up over the threshold are split in
// turn.
func (n *Node) Split() {
	if !n.Alive() || !n.IsLeaf() {
		return
	}
	if n.Bounds.MaxSide() < MinSideLength {
		n.tree.logger.Warningf("refusing to split %s: side %f below minimum; %d renderers share a single cell", n.Name(), n.Bounds.MaxSide(), len(n.renderers))
		n.MarkDirty()
		return
	}

	cells := n.Bounds.Subdivide(Splits)
	children := make([]*Node, len(cells))
	for i, cell := range cells {
		child := n.tree.newNode(cell)
		child.parentID = n.ID
		n.children = append(n.children, child.ID)
		children[i] = child
	}

	for _, r := range n.renderers {
		if !r.Alive() {
			continue
		}
		if child := n.childFor(r.Bounds().Center); child != nil {
			child.add(r)
		}
	}

	n.tree.counters.Splits++
	instrumentOperation(opSplit)

	n.MarkDirty()
	for _, child := range children {
		if len(child.renderers) == 0 {
			continue
		}
		if len(child.renderers) > SplitThreshold {
			child.Split()
			continue
		}
		child.MarkDirty()
	}
}

// Grow creates a new root of twice the side length that contains n as one of
// its 8 children, extending towards target. The new root is returned; the
// caller retries the failed insert against it.
func (n *Node) Grow(target types.Bounds) *Node {
	if !n.Alive() || !n.IsRoot() {
		return nil
	}
	side := n.Bounds.MaxSide()
	if types.ApproxZero(side) {
		n.tree.logger.Warningf("refusing to grow %s with degenerate bounds", n.Name())
		return nil
	}

	direction := target.Center.Sub(n.Bounds.Center).Normalize()
	if direction.Len() == 0 {
		direction = types.Splat(1).Normalize()
	}

	// Anchor the new root on the corner furthest along the growth direction
	// so n becomes the grid cell opposite to it.
	var anchor types.Vec3
	best := float32(-math32.MaxFloat32)
	for _, corner := range n.Bounds.Corners() {
		if dot := corner.Sub(n.Bounds.Center).Dot(direction); dot > best {
			best, anchor = dot, corner
		}
	}

	t := n.tree
	newRoot := t.newNode(types.NewBounds(anchor, types.Splat(side*Splits)))
	for _, r := range n.renderers {
		newRoot.add(r)
	}

	cells := newRoot.Bounds.Subdivide(Splits)
	slot, bestDist := 0, float32(math32.MaxFloat32)
	for i, cell := range cells {
		if d := cell.Center.Distance(n.Bounds.Center); d < bestDist {
			slot, bestDist = i, d
		}
	}

	for i, cell := range cells {
		if i == slot {
			n.parentID = newRoot.ID
			newRoot.children = append(newRoot.children, n.ID)
			continue
		}
		sibling := t.newNode(cell)
		sibling.parentID = newRoot.ID
		newRoot.children = append(newRoot.children, sibling.ID)
	}

	t.root = newRoot.ID
	t.counters.Grows++
	instrumentOperation(opGrow)

	newRoot.MarkDirty()
	return newRoot
}
