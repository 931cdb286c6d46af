package dag

import (
	"errors"
	"fmt"

	"idle-dag/models"
	"idle-dag/progress"
)

var (
	// ErrUnknownHandle means an edge or lookup referenced a node that is not in the arena.
	ErrUnknownHandle = errors.New("unknown node handle")
	// ErrCycle means the blocking relation loops back on itself.
	ErrCycle = errors.New("blocking graph contains a cycle")
)

// Handle is a stable index into the node arena.
type Handle int

// Node is one vertex of the blocking graph.
type Node struct {
	Handle   Handle
	Position models.Vec2 // fixed at creation
	Type     models.NodeType
	Progress *progress.Timer

	SelfBlocked      bool
	InheritedBlocked bool // derived every tick

	Blockers []Handle // nodes that block this node
	ToBlock  []Handle // nodes this node blocks
}

// Blocked reports whether the node is blocked by itself or by an ancestor.
func (n *Node) Blocked() bool {
	return n.SelfBlocked || n.InheritedBlocked
}

// Graph owns every node and both edge relations. Nodes never own each other;
// edges are plain handles into the arena.
type Graph struct {
	nodes []*Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// AddNode stores a node with no edges and returns it.
func (g *Graph) AddNode(pos models.Vec2, typ models.NodeType, timer *progress.Timer) *Node {
	n := &Node{
		Handle:   Handle(len(g.nodes)),
		Position: pos,
		Type:     typ,
		Progress: timer,
	}
	n.SelfBlocked = selfBlocked(n)
	g.nodes = append(g.nodes, n)
	return n
}

// Link records that blocker blocks blocked, keeping Blockers and ToBlock
// mutually inverse. Linking twice is a no-op.
func (g *Graph) Link(blocker, blocked Handle) {
	from := g.MustGet(blocker)
	to := g.MustGet(blocked)
	if contains(from.ToBlock, blocked) {
		return
	}
	from.ToBlock = append(from.ToBlock, blocked)
	to.Blockers = append(to.Blockers, blocker)
}

// Get returns the node for h.
func (g *Graph) Get(h Handle) (*Node, bool) {
	if h < 0 || int(h) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[h], true
}

// MustGet returns the node for h and panics if it does not exist. Every edge
// must reference a live node, so a miss here is a construction bug.
func (g *Graph) MustGet(h Handle) *Node {
	n, ok := g.Get(h)
	if !ok {
		panic(fmt.Errorf("%w: %d (arena size %d)", ErrUnknownHandle, h, len(g.nodes)))
	}
	return n
}

func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the arena in handle order. Callers must not append to it.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Positions returns a snapshot of every node position.
func (g *Graph) Positions() []models.Vec2 {
	points := make([]models.Vec2, 0, len(g.nodes))
	for _, n := range g.nodes {
		points = append(points, n.Position)
	}
	return points
}

// Roots returns the nodes nothing blocks.
func (g *Graph) Roots() []Handle {
	var roots []Handle
	for _, n := range g.nodes {
		if len(n.Blockers) == 0 {
			roots = append(roots, n.Handle)
		}
	}
	return roots
}

// Clear drops every node and edge. Only used before a full reload.
func (g *Graph) Clear() {
	g.nodes = nil
}

func contains(hs []Handle, h Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
