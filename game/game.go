// Package game runs the simulation: timers, click resolution, spawning and
// blocked-status derivation, one tick at a time.
package game

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"idle-dag/config"
	"idle-dag/dag"
	"idle-dag/logger"
	"idle-dag/models"
	"idle-dag/progress"
)

var (
	ErrUnknownNode = errors.New("node does not exist")
	ErrNotReady    = errors.New("node is not ready")
	ErrInvalidSave = errors.New("invalid save")
)

// Game is the whole simulation state. It is not safe for concurrent use;
// Service serialises access to it.
type Game struct {
	cfg      config.Game
	graph    *dag.Graph
	currency int64
	rng      *rand.Rand
}

// StepResult is what one tick produced.
type StepResult struct {
	Events   []models.Event `json:"events"`
	Currency int64          `json:"currency"`
	Ignored  int            `json:"ignored"` // clicks dropped as stale or unknown
}

// New returns a game with an empty graph. src drives placement and spawn
// choices; nil derives one from cfg.Seed.
func New(cfg config.Game, src rand.Source) *Game {
	if src == nil {
		src = SourceFromSeed(cfg.Seed)
	}
	return &Game{
		cfg:   cfg,
		graph: dag.NewGraph(),
		rng:   rand.New(src),
	}
}

// NewSeeded returns a game holding the starting layout.
func NewSeeded(cfg config.Game, src rand.Source) *Game {
	g := New(cfg, src)
	g.seed()
	return g
}

// SourceFromSeed returns a deterministic source, or a random one for seed 0.
func SourceFromSeed(seed uint64) rand.Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// seed lays out the two starting nodes: a gain node, and a locked blocker
// above it that blocks it.
func (g *Game) seed() {
	gain := g.graph.AddNode(models.Vec2{}, models.Gain(1), progress.NewWithElapsed(2, 0))
	blocker := g.graph.AddNode(models.Vec2{X: 0, Y: 230}, models.Blocker(true), progress.NewWithElapsed(3, 2))
	g.graph.Link(blocker.Handle, gain.Handle)
	g.refresh()
}

// Reset discards every node and the currency and starts over from the
// starting layout.
func (g *Game) Reset() {
	g.graph.Clear()
	g.currency = 0
	g.seed()
}

func (g *Game) Currency() int64 { return g.currency }

func (g *Game) refresh() {
	g.graph.RecomputeSelfBlocked()
	g.graph.RecomputeInherited()
}

// Step advances the simulation by delta seconds and applies clicks. Stages run
// in a fixed order so that the inherited pass sees this tick's self-blocked
// state, spawns and resets.
func (g *Game) Step(delta float64, clicks []dag.Handle) StepResult {
	var res StepResult

	g.tickTimers(delta)

	queue := make([]dag.Handle, 0, len(clicks))
	queue = append(queue, clicks...)
	queue = append(queue, g.detectCompletions(&res)...)

	var spawns []spawnRequest
	var resets []dag.Handle
	for _, h := range queue {
		if err := g.click(h, &res, &spawns, &resets); err != nil {
			res.Ignored++
			logger.Logger.Debug("Click ignored", zap.Int("node", int(h)), zap.Error(err))
		}
	}
	for _, h := range resets {
		reset := g.graph.ResetChain(h, g.cfg.TimerResetBlockerFixed)
		if len(reset) > 0 {
			logger.Logger.Debug("Blocker chain re-locked", zap.Int("node", int(h)), zap.Int("count", len(reset)))
		}
	}

	g.graph.RecomputeSelfBlocked()
	g.spawn(spawns, &res)
	g.graph.RecomputeInherited()

	res.Currency = g.currency
	return res
}

// tickTimers advances every timer. Inherited-blocked nodes run at
// BlockedTickRate; a blocker that is also locked itself does not run at all.
func (g *Game) tickTimers(delta float64) {
	for _, n := range g.graph.Nodes() {
		rate := 1.0
		if n.InheritedBlocked {
			rate = g.cfg.BlockedTickRate
			if n.Type.Kind == models.KindBlocker && n.SelfBlocked {
				rate = 0
			}
		}
		n.Progress.Tick(delta * rate)
	}
}

// detectCompletions reports timers that finished this tick and, with
// auto-click on, returns the gain nodes to click.
func (g *Game) detectCompletions(res *StepResult) []dag.Handle {
	var auto []dag.Handle
	for _, n := range g.graph.Nodes() {
		if n.Progress.JustFinished() {
			res.Events = append(res.Events, models.Event{
				Type:     models.EventNodeFinished,
				Node:     int(n.Handle),
				Currency: g.currency,
			})
		}
		if g.cfg.AutoClick && n.Type.Kind == models.KindGain && ready(n) {
			auto = append(auto, n.Handle)
		}
	}
	return auto
}

// ready reports whether a click on n would be accepted.
func ready(n *dag.Node) bool {
	return n.Progress.Finished() && !n.InheritedBlocked
}
