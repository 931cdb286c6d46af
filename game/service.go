package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"idle-dag/dag"
	"idle-dag/logger"
	"idle-dag/models"
	"idle-dag/repository"
)

// EventSink receives the events of every tick.
type EventSink interface {
	Publish(events []models.Event)
}

var epoch2023 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// Service guards a Game for use from the tick loop and request handlers.
// Clicks are queued and applied by the next Step.
type Service struct {
	mu     sync.Mutex
	game   *Game
	repo   repository.SaveRepository
	sink   EventSink
	clicks []dag.Handle
	now    func() time.Time
}

// NewService wraps g. repo and sink may be nil.
func NewService(g *Game, repo repository.SaveRepository, sink EventSink) *Service {
	return &Service{game: g, repo: repo, sink: sink, now: time.Now}
}

// SetSink replaces where tick events are published.
func (s *Service) SetSink(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Click queues a click on h for the next tick.
func (s *Service) Click(h dag.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.game.graph.Get(h); !ok {
		return ErrUnknownNode
	}
	s.clicks = append(s.clicks, h)
	return nil
}

// Step runs one tick with every queued click. Save nodes clicked during the
// tick persist the resulting state.
func (s *Service) Step(delta float64) StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	clicks := s.clicks
	s.clicks = nil
	res := s.game.Step(delta, clicks)

	for _, ev := range res.Events {
		if ev.Type == models.EventSaveRequested {
			if _, err := s.saveLocked(); err != nil {
				logger.Logger.Error("Save node failed to persist", zap.Int("node", ev.Node), zap.Error(err))
			}
			break
		}
	}

	if s.sink != nil && len(res.Events) > 0 {
		s.sink.Publish(res.Events)
	}
	return res
}

// Run steps the game every interval with the measured real delta until ctx
// is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	logger.Logger.Info("Tick loop started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info("Tick loop stopped")
			return
		case <-ticker.C:
			now := s.now()
			s.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

func (s *Service) Status(h dag.Handle) (models.NodeStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status(h)
}

func (s *Service) Currency() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Currency()
}

// Save persists the current state and returns it.
func (s *Service) Save() (*models.Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Service) saveLocked() (*models.Save, error) {
	if s.repo == nil {
		return nil, errors.New("no save repository configured")
	}
	save := s.game.Export()
	now := s.now()
	save.ID = uuid.NewString()
	save.SavedAt = now.UnixMilli()
	save.LastTickTimeSince2023 = now.Sub(epoch2023).Seconds()

	if err := s.repo.PutSave(&save); err != nil {
		return nil, fmt.Errorf("persist save: %w", err)
	}
	logger.Logger.Info("Game saved",
		zap.String("save_id", save.ID), zap.Int("nodes", len(save.Nodes)), zap.Int64("currency", save.Currency))
	return &save, nil
}

// LatestSave returns the most recent persisted save.
func (s *Service) LatestSave() (*models.Save, error) {
	if s.repo == nil {
		return nil, repository.ErrNoSave
	}
	return s.repo.GetLatestSave()
}

// GetSave returns one persisted save by ID.
func (s *Service) GetSave(id string) (*models.Save, error) {
	if s.repo == nil {
		return nil, repository.ErrNoSave
	}
	return s.repo.GetSave(id)
}

// LoadLatest restores the most recent persisted save.
func (s *Service) LoadLatest() (*models.Save, error) {
	save, err := s.LatestSave()
	if err != nil {
		return nil, err
	}
	if err := s.Load(*save); err != nil {
		return nil, err
	}
	return save, nil
}

// Load replaces the state with save. Pending clicks are dropped since their
// handles refer to the old graph.
func (s *Service) Load(save models.Save) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Restore(save); err != nil {
		return err
	}
	s.clicks = nil
	logger.Logger.Info("Game loaded",
		zap.String("save_id", save.ID), zap.Int("nodes", len(save.Nodes)), zap.Int64("currency", save.Currency))
	return nil
}

// Reset starts a new game from the starting layout.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Reset()
	s.clicks = nil
	logger.Logger.Info("Game reset")
}
