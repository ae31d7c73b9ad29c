package volume

import (
	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/types"
)

const (
	// A leaf splits once it holds more than SplitThreshold renderers.
	SplitThreshold = 32

	// Number of cells per axis created by Split and Grow.
	Splits = 2

	// Nodes smaller than this are never split further.
	MinSideLength float32 = 1e-3
)

// Proxy is the derived HLOD representation owned by a node. It is destroyed
// whenever the node is destroyed or the proxy is replaced.
type Proxy interface {
	Destroy()
}

// Counters tracks structural changes applied to a tree.
type Counters struct {
	Inserts   int
	Removes   int
	Splits    int
	Grows     int
	Shrinks   int
	Created   int
	Destroyed int
}

// Tree is the arena owning every volume node. Nodes refer to each other by id.
type Tree struct {
	logger log.Logger

	ids   idGenerator
	nodes map[NodeID]*Node
	root  NodeID

	counters Counters
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		logger: log.New("volume"),
		nodes:  make(map[NodeID]*Node),
	}
}

// NewRoot destroys the current root, if any, and replaces it with an empty
// node whose bounds get initialized by the first insert.
func (t *Tree) NewRoot() *Node {
	if root := t.Root(); root != nil {
		root.destroy()
	}
	root := t.newNode(types.Bounds{})
	t.root = root.ID
	return root
}

// Root returns the current root or nil.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// ResolveRoot returns the root of the tree that prev belonged to. Operations
// may grow or shrink the tree so callers re-resolve after every mutation.
func (t *Tree) ResolveRoot(prev *Node) *Node {
	if prev.Alive() {
		for prev.Parent() != nil {
			prev = prev.Parent()
		}
		return prev
	}
	return t.Root()
}

// Node looks up a live node by id.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Counters returns the structural counters.
func (t *Tree) Counters() Counters {
	return t.counters
}

// Destroy releases every node and the HLOD proxies they own.
func (t *Tree) Destroy() {
	if root := t.Root(); root != nil {
		root.destroy()
	}
	for _, n := range t.nodes {
		n.destroy()
	}
	t.root = 0
}

func (t *Tree) newNode(bounds types.Bounds) *Node {
	n := &Node{
		tree:   t,
		ID:     t.ids.New(),
		Bounds: bounds,
		index:  make(map[*scene.Renderer]struct{}),
	}
	t.nodes[n.ID] = n
	t.counters.Created++
	instrumentOperation(opCreate)
	return n
}
