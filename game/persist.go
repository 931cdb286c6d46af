package game

import (
	"fmt"

	"idle-dag/dag"
	"idle-dag/models"
	"idle-dag/progress"
)

// Export captures the graph and currency. Edge lists become indices into
// the returned node list.
func (g *Game) Export() models.Save {
	nodes := g.graph.Nodes()
	index := make(map[dag.Handle]int, len(nodes))
	for i, n := range nodes {
		index[n.Handle] = i
	}

	save := models.Save{
		Currency: g.currency,
		Nodes:    make([]models.SavedNode, 0, len(nodes)),
	}
	for _, n := range nodes {
		save.Nodes = append(save.Nodes, models.SavedNode{
			Pos:                  n.Position,
			NodeType:             n.Type,
			TimerSecondsDuration: n.Progress.Duration(),
			TimerSecondsLeft:     n.Progress.Remaining(),
			ToBlock:              toIndices(n.ToBlock, index),
			Blockers:             toIndices(n.Blockers, index),
		})
	}
	return save
}

func toIndices(hs []dag.Handle, index map[dag.Handle]int) []int {
	out := make([]int, 0, len(hs))
	for _, h := range hs {
		out = append(out, index[h])
	}
	return out
}

// Restore replaces the whole state with save. Indices are remapped to fresh
// handles. A save with out-of-range indices, an unknown archetype or a
// blocking cycle is rejected and the current state is left untouched.
func (g *Game) Restore(save models.Save) error {
	graph := dag.NewGraph()
	handles := make([]dag.Handle, len(save.Nodes))

	for i, sn := range save.Nodes {
		switch sn.NodeType.Kind {
		case models.KindGain, models.KindSave, models.KindBlocker:
		default:
			return fmt.Errorf("%w: node %d has unknown type %q", ErrInvalidSave, i, sn.NodeType.Kind)
		}
		elapsed := sn.TimerSecondsDuration - sn.TimerSecondsLeft
		timer := progress.NewWithElapsed(sn.TimerSecondsDuration, elapsed)
		handles[i] = graph.AddNode(sn.Pos, sn.NodeType, timer).Handle
	}

	lookup := func(from, idx int) (dag.Handle, error) {
		if idx < 0 || idx >= len(handles) {
			return 0, fmt.Errorf("%w: node %d references index %d of %d", ErrInvalidSave, from, idx, len(handles))
		}
		return handles[idx], nil
	}
	for i, sn := range save.Nodes {
		for _, idx := range sn.ToBlock {
			to, err := lookup(i, idx)
			if err != nil {
				return err
			}
			graph.Link(handles[i], to)
		}
		for _, idx := range sn.Blockers {
			from, err := lookup(i, idx)
			if err != nil {
				return err
			}
			graph.Link(from, handles[i])
		}
	}

	if err := graph.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if err := graph.DetectCycle(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}

	g.graph = graph
	g.currency = save.Currency
	g.refresh()
	return nil
}
