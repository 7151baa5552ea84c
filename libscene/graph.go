// Package libscene is a small scene graph stored as an arena of node records.
//
// Nodes are addressed by generation-checked handles, so a handle to a removed node stays
// harmless: lookups fail and a second Remove is a no-op.
package libscene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrStaleNode = errors.New("node handle is stale")
	ErrCycle     = errors.New("cannot attach a node below itself")
)

// NodeID is a stable handle to a node. The zero value never refers to a node.
type NodeID struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the handle is the zero handle.
func (id NodeID) IsZero() bool {
	return id.generation == 0
}

type record struct {
	node       Node
	generation uint32
	alive      bool
}

// Graph owns all nodes.
type Graph struct {
	records []*record
	free    []uint32
	live    int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// NewNode creates a detached node.
func (g *Graph) NewNode(name string) NodeID {
	var index uint32

	if n := len(g.free); n > 0 {
		index = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		index = uint32(len(g.records))
		g.records = append(g.records, &record{})
	}

	rec := g.records[index]
	rec.generation++
	rec.alive = true
	rec.node = newNode(name)
	g.live++

	return NodeID{index: index, generation: rec.generation}
}

// NewChild creates a node attached below parent.
func (g *Graph) NewChild(name string, parent NodeID) (NodeID, error) {
	if !g.Valid(parent) {
		return NodeID{}, ErrStaleNode
	}

	id := g.NewNode(name)
	g.link(id, parent)

	return id, nil
}

func (g *Graph) lookup(id NodeID) *record {
	if id.IsZero() || int(id.index) >= len(g.records) {
		return nil
	}

	rec := g.records[id.index]

	if !rec.alive || rec.generation != id.generation {
		return nil
	}

	return rec
}

// Valid reports whether the handle refers to a live node.
func (g *Graph) Valid(id NodeID) bool {
	return g.lookup(id) != nil
}

// Get returns the node, or nil for a stale handle.
func (g *Graph) Get(id NodeID) *Node {
	rec := g.lookup(id)

	if rec == nil {
		return nil
	}

	return &rec.node
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return g.live
}

// Parent returns the parent handle, or the zero handle for a detached node.
func (g *Graph) Parent(id NodeID) NodeID {
	if rec := g.lookup(id); rec != nil {
		return rec.node.parent
	}

	return NodeID{}
}

// Children returns a copy of the child handles.
func (g *Graph) Children(id NodeID) []NodeID {
	rec := g.lookup(id)

	if rec == nil {
		return nil
	}

	return append([]NodeID(nil), rec.node.children...)
}

// Attach reparents child below parent. A zero parent detaches the node.
func (g *Graph) Attach(child, parent NodeID) error {
	if !g.Valid(child) {
		return ErrStaleNode
	}

	if !parent.IsZero() {
		if !g.Valid(parent) {
			return ErrStaleNode
		}

		for ancestor := parent; !ancestor.IsZero(); ancestor = g.Parent(ancestor) {
			if ancestor == child {
				return ErrCycle
			}
		}
	}

	g.unlink(child)

	if !parent.IsZero() {
		g.link(child, parent)
	}

	return nil
}

func (g *Graph) link(child, parent NodeID) {
	g.Get(child).parent = parent
	p := g.Get(parent)
	p.children = append(p.children, child)
}

func (g *Graph) unlink(child NodeID) {
	node := g.Get(child)

	if node.parent.IsZero() {
		return
	}

	if parent := g.Get(node.parent); parent != nil {
		for i, c := range parent.children {
			if c == child {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	}

	node.parent = NodeID{}
}

// Remove deletes the node and its subtree. It returns false if the node was already gone.
func (g *Graph) Remove(id NodeID) bool {
	if !g.Valid(id) {
		return false
	}

	g.unlink(id)
	g.release(id)

	return true
}

func (g *Graph) release(id NodeID) {
	rec := g.lookup(id)

	for _, child := range rec.node.children {
		g.release(child)
	}

	rec.alive = false
	rec.node = Node{}
	g.free = append(g.free, id.index)
	g.live--
}

// Walk visits the subtree rooted at id depth first, parents before children. Returning false
// from fn skips the children of that node.
func (g *Graph) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	node := g.Get(id)

	if node == nil {
		return
	}

	if !fn(id, node) {
		return
	}

	for _, child := range g.Children(id) {
		g.Walk(child, fn)
	}
}

// WorldMatrix returns the node transform composed with all of its ancestors.
func (g *Graph) WorldMatrix(id NodeID) mgl32.Mat4 {
	world := mgl32.Ident4()

	for current := id; !current.IsZero(); current = g.Parent(current) {
		node := g.Get(current)

		if node == nil {
			break
		}

		world = node.LocalMatrix().Mul4(world)
	}

	return world
}

// ViewMatrix returns the inverse world transform of a camera node.
func (g *Graph) ViewMatrix(id NodeID) mgl32.Mat4 {
	return g.WorldMatrix(id).Inv()
}
