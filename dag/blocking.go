package dag

import "idle-dag/models"

// selfBlocked derives a node's own blocked state. Blockers follow their
// manual toggle; every other archetype is blocked until its timer finishes.
func selfBlocked(n *Node) bool {
	if n.Type.Kind == models.KindBlocker {
		return n.Type.IsBlocked
	}
	return n.Progress != nil && !n.Progress.Finished()
}

// RecomputeSelfBlocked refreshes SelfBlocked on every node.
func (g *Graph) RecomputeSelfBlocked() {
	for _, n := range g.nodes {
		n.SelfBlocked = selfBlocked(n)
	}
}

type visit struct {
	handle  Handle
	blocked bool
}

// RecomputeInherited derives InheritedBlocked for every node by walking from
// each root along ToBlock, carrying whether anything upstream is blocked.
//
// A node already marked inherited-blocked is not expanded again: its whole
// downstream was already pushed a blocked flag. A node reached with an
// unblocked flag is expanded only the first time. Each node is expanded at
// most twice, so shared descendants see every blocked path and loops end.
func (g *Graph) RecomputeInherited() {
	for _, n := range g.nodes {
		n.InheritedBlocked = false
	}

	expanded := make([]bool, len(g.nodes))
	stack := make([]visit, 0, len(g.nodes))

	for _, root := range g.Roots() {
		stack = append(stack, visit{handle: root})
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			n := g.MustGet(v.handle)
			if n.InheritedBlocked {
				continue
			}
			if v.blocked {
				n.InheritedBlocked = true
			} else if expanded[n.Handle] {
				continue
			}
			expanded[n.Handle] = true

			effective := n.Blocked()
			for _, next := range n.ToBlock {
				stack = append(stack, visit{handle: next, blocked: effective})
			}
		}
	}
}

// ResetChain re-locks every Blocker upstream of from, following Blockers
// depth-first. Each one gets its manual flag set, resetDuration as its timer
// duration and zero elapsed. Other archetypes on the way are passed through
// unchanged. Returns the handles that were reset, in visit order.
func (g *Graph) ResetChain(from Handle, resetDuration float64) []Handle {
	start := g.MustGet(from)
	visited := map[Handle]bool{from: true}

	var reset []Handle
	stack := pushReversed(nil, start.Blockers)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[h] {
			continue
		}
		visited[h] = true

		n := g.MustGet(h)
		if n.Type.Kind == models.KindBlocker {
			n.Type.IsBlocked = true
			n.SelfBlocked = true
			n.Progress.SetDuration(resetDuration)
			n.Progress.Reset()
			reset = append(reset, h)
		}
		stack = pushReversed(stack, n.Blockers)
	}
	return reset
}

// pushReversed pushes hs so that hs[0] is popped first.
func pushReversed(stack []Handle, hs []Handle) []Handle {
	for i := len(hs) - 1; i >= 0; i-- {
		stack = append(stack, hs[i])
	}
	return stack
}
