package volume

import "sync"

// NodeID identifies a node inside a Tree. The zero value means "no node".
type NodeID uint32

// A sequential node id generator. Released ids are handed out again, lowest
// first, so that node names stay stable across rebuilds.
type idGenerator struct {
	mutex       sync.Mutex
	currentID   NodeID
	reusableIDs map[NodeID]struct{}
}

// New returns a sequential id.
func (g *idGenerator) New() NodeID {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if len(g.reusableIDs) != 0 {
		var lowest NodeID
		for id := range g.reusableIDs {
			if lowest == 0 || id < lowest {
				lowest = id
			}
		}
		delete(g.reusableIDs, lowest)
		return lowest
	}

	g.currentID++
	return g.currentID
}

// Reuse marks the given id as reusable. Reusable ids are returned in priority
// when using New.
func (g *idGenerator) Reuse(id NodeID) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.reusableIDs == nil {
		g.reusableIDs = make(map[NodeID]struct{})
	}

	g.reusableIDs[id] = struct{}{}
}
