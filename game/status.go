package game

import (
	"github.com/dustin/go-humanize"

	"idle-dag/dag"
	"idle-dag/models"
)

// Status returns the projection of one node.
func (g *Game) Status(h dag.Handle) (models.NodeStatus, error) {
	n, ok := g.graph.Get(h)
	if !ok {
		return models.NodeStatus{}, ErrUnknownNode
	}
	return status(n), nil
}

// Snapshot returns the projection of every node in handle order.
func (g *Game) Snapshot() models.Snapshot {
	nodes := g.graph.Nodes()
	snap := models.Snapshot{
		Currency: g.currency,
		Nodes:    make([]models.NodeStatus, 0, len(nodes)),
	}
	for _, n := range nodes {
		snap.Nodes = append(snap.Nodes, status(n))
	}
	return snap
}

func status(n *dag.Node) models.NodeStatus {
	isReady := ready(n)
	return models.NodeStatus{
		Handle:           int(n.Handle),
		Position:         n.Position,
		Kind:             n.Type.Kind,
		Level:            n.Type.Level,
		Finished:         n.Progress.Finished(),
		RemainingSeconds: n.Progress.Remaining(),
		Progress:         n.Progress.Fraction(),
		Blocked:          n.Blocked(),
		SelfBlocked:      n.SelfBlocked,
		InheritedBlocked: n.InheritedBlocked,
		ManualBlocked:    n.Type.Kind == models.KindBlocker && n.Type.IsBlocked,
		Ready:            isReady,
		Label:            label(n, isReady),
		ToBlock:          handlesToInts(n.ToBlock),
		Blockers:         handlesToInts(n.Blockers),
	}
}

func label(n *dag.Node, isReady bool) string {
	if !isReady {
		if n.Progress.Finished() {
			return "Blocked"
		}
		return humanize.FtoaWithDigits(n.Progress.Remaining(), 1) + "s"
	}
	switch n.Type.Kind {
	case models.KindGain:
		return "Gain!"
	case models.KindSave:
		return "Save"
	case models.KindBlocker:
		if n.Type.IsBlocked {
			return "Unlock"
		}
		return "Lock"
	}
	return ""
}

func handlesToInts(hs []dag.Handle) []int {
	out := make([]int, len(hs))
	for i, h := range hs {
		out[i] = int(h)
	}
	return out
}
