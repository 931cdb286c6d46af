package game

import (
	"go.uber.org/zap"

	"idle-dag/dag"
	"idle-dag/logger"
	"idle-dag/models"
	"idle-dag/placement"
	"idle-dag/progress"
)

type spawnRequest struct {
	source   dag.Handle
	currency int64
}

// spawn handles a tick's spawn requests against one position snapshot. Each
// placed node is added to the snapshot so a batch never overlaps itself.
func (g *Game) spawn(reqs []spawnRequest, res *StepResult) {
	if len(reqs) == 0 {
		return
	}
	points := g.graph.Positions()

	for _, req := range reqs {
		source := g.graph.MustGet(req.source)
		pos, ok := placement.ComputeNewPosition(points, source.Position, g.cfg.SpawnRadius, g.cfg.SpawnAttempts, g.rng)
		if !ok {
			logger.Logger.Debug("No room to spawn", zap.Int("source", int(req.source)))
			continue
		}

		typ, timer, ok := g.chooseArchetype(req.currency)
		if !ok {
			continue
		}

		n := g.graph.AddNode(pos, typ, timer)
		g.graph.Link(n.Handle, req.source)
		points = append(points, pos)

		res.Events = append(res.Events, models.Event{
			Type:     models.EventNodeSpawned,
			Node:     int(n.Handle),
			Source:   int(req.source),
			Currency: req.currency,
		})
		logger.Logger.Debug("Node spawned",
			zap.Int("node", int(n.Handle)), zap.Int("source", int(req.source)),
			zap.String("kind", string(typ.Kind)), zap.Float64("duration", timer.Duration()))
	}
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomeBlocker
	outcomeSave
	outcomeGain
)

// weights returns the odds of each outcome, indexed by outcome. Nothing is
// skipped while currency is at most 1.
func (g *Game) weights(currency int64) []int {
	w := g.cfg.SpawnWeights
	none := w.None
	if currency <= 1 {
		none = 0
	}
	return []int{none, w.Blocker, w.Save, w.Gain}
}

// pick draws an index with probability proportional to its weight.
func (g *Game) pick(weights []int) (int, bool) {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0, false
	}
	p := g.rng.IntN(total)
	acc := 0
	for i, w := range weights {
		acc += w
		if p < acc {
			return i, true
		}
	}
	return len(weights) - 1, true
}

// chooseArchetype draws the new node's type and sizes its timer. ok is false
// when the draw lands on nothing.
func (g *Game) chooseArchetype(currency int64) (models.NodeType, *progress.Timer, bool) {
	i, ok := g.pick(g.weights(currency))
	if !ok {
		return models.NodeType{}, nil, false
	}

	c := float64(currency)
	switch outcome(i) {
	case outcomeBlocker:
		return models.Blocker(true), progress.New(c * g.cfg.TimerBlockerMult), true
	case outcomeSave:
		return models.SaveNode(1), progress.New(g.cfg.TimerSaveBase + c*g.cfg.TimerSaveAddMultPerCurrency), true
	case outcomeGain:
		return models.Gain(1), progress.New(c*g.cfg.TimerGainMult + g.cfg.TimerGainMultPerLevel), true
	}
	return models.NodeType{}, nil, false
}
