package game

import (
	"idle-dag/dag"
	"idle-dag/models"
)

// click resolves one click. Clicks on missing, unfinished or blocked nodes
// change nothing and return an error for the caller to log.
func (g *Game) click(h dag.Handle, res *StepResult, spawns *[]spawnRequest, resets *[]dag.Handle) error {
	n, ok := g.graph.Get(h)
	if !ok {
		return ErrUnknownNode
	}
	if !ready(n) {
		return ErrNotReady
	}

	switch n.Type.Kind {
	case models.KindGain:
		g.currency++
		n.Progress.SetDuration(float64(g.currency)*g.cfg.TimerGainMult + g.cfg.TimerGainMultPerLevel*float64(n.Type.Level))
		n.Progress.Reset()
		n.Type.Level++

		*spawns = append(*spawns, spawnRequest{source: h, currency: g.currency})
		*resets = append(*resets, h)
		res.Events = append(res.Events,
			models.Event{Type: models.EventSpawnRequested, Node: int(h), Currency: g.currency},
			models.Event{Type: models.EventResetPropagation, Node: int(h), Currency: g.currency},
		)

	case models.KindSave:
		n.Type.Level++
		n.Progress.SetDuration(g.cfg.TimerSaveBase + g.cfg.TimerSaveMultPerLevel*float64(n.Type.Level))
		n.Progress.Reset()
		res.Events = append(res.Events, models.Event{Type: models.EventSaveRequested, Node: int(h), Currency: g.currency})

	case models.KindBlocker:
		n.Type.IsBlocked = !n.Type.IsBlocked
		res.Events = append(res.Events, models.Event{Type: models.EventBlockToggled, Node: int(h), Currency: g.currency})
	}
	return nil
}
