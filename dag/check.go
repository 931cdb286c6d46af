package dag

import "fmt"

// Validate checks that every edge references a live node and that Blockers
// and ToBlock are inverse relations.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		for _, to := range n.ToBlock {
			target, ok := g.Get(to)
			if !ok {
				return fmt.Errorf("%w: node %d blocks %d", ErrUnknownHandle, n.Handle, to)
			}
			if !contains(target.Blockers, n.Handle) {
				return fmt.Errorf("node %d blocks %d but is missing from its blockers", n.Handle, to)
			}
		}
		for _, from := range n.Blockers {
			source, ok := g.Get(from)
			if !ok {
				return fmt.Errorf("%w: node %d blocked by %d", ErrUnknownHandle, n.Handle, from)
			}
			if !contains(source.ToBlock, n.Handle) {
				return fmt.Errorf("node %d lists blocker %d which does not block it", n.Handle, from)
			}
		}
	}
	return nil
}

const (
	white = iota
	grey
	black
)

type frame struct {
	handle Handle
	next   int
}

// DetectCycle returns ErrCycle if following ToBlock from any node can come
// back to it.
func (g *Graph) DetectCycle() error {
	colour := make([]int, len(g.nodes))
	for _, start := range g.nodes {
		if colour[start.Handle] != white {
			continue
		}
		colour[start.Handle] = grey
		stack := []frame{{handle: start.Handle}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := g.MustGet(top.handle)
			if top.next == len(n.ToBlock) {
				colour[top.handle] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := n.ToBlock[top.next]
			top.next++
			g.MustGet(child)
			switch colour[child] {
			case grey:
				return fmt.Errorf("%w: edge %d -> %d", ErrCycle, n.Handle, child)
			case white:
				colour[child] = grey
				stack = append(stack, frame{handle: child})
			}
		}
	}
	return nil
}
