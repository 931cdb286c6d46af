package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idle-dag/config"
	"idle-dag/models"
	"idle-dag/repository"
)

type memRepo struct {
	saves  map[string]*models.Save
	latest *models.Save
}

func newMemRepo() *memRepo {
	return &memRepo{saves: map[string]*models.Save{}}
}

func (r *memRepo) PutSave(save *models.Save) error {
	r.saves[save.ID] = save
	if r.latest == nil || save.SavedAt >= r.latest.SavedAt {
		r.latest = save
	}
	return nil
}

func (r *memRepo) GetSave(id string) (*models.Save, error) {
	if s, ok := r.saves[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNoSave
}

func (r *memRepo) GetLatestSave() (*models.Save, error) {
	if r.latest == nil {
		return nil, repository.ErrNoSave
	}
	return r.latest, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *recordingSink) Publish(events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

func TestService_ClickUnknown(t *testing.T) {
	svc := NewService(newTestGame(config.DefaultGame()), nil, nil)
	assert.ErrorIs(t, svc.Click(3), ErrUnknownNode)
}

func TestService_ClicksApplyOnStep(t *testing.T) {
	g := newTestGame(onlyGain())
	h := addNode(g, models.Vec2{}, models.Gain(1), 1, 1)
	g.refresh()
	sink := &recordingSink{}
	svc := NewService(g, nil, sink)

	require.NoError(t, svc.Click(h))
	assert.Equal(t, int64(0), svc.Currency(), "clicks wait for the next tick")

	res := svc.Step(0)

	assert.Equal(t, int64(1), res.Currency)
	assert.Equal(t, int64(1), svc.Currency())
	assert.Equal(t, res.Events, sink.events)

	res = svc.Step(0)
	assert.Empty(t, res.Events, "the queue is drained")
}

func TestService_SaveNodePersists(t *testing.T) {
	g := newTestGame(config.DefaultGame())
	h := addNode(g, models.Vec2{}, models.SaveNode(1), 1, 1)
	g.refresh()
	repo := newMemRepo()
	svc := NewService(g, repo, nil)
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	require.NoError(t, svc.Click(h))
	svc.Step(0)

	require.Len(t, repo.saves, 1)
	save, err := svc.LatestSave()
	require.NoError(t, err)
	assert.NotEmpty(t, save.ID)
	assert.Equal(t, at.UnixMilli(), save.SavedAt)
	assert.InDelta(t, at.Sub(epoch2023).Seconds(), save.LastTickTimeSince2023, 1e-6)
	require.Len(t, save.Nodes, 1)
	assert.Equal(t, models.SaveNode(2), save.Nodes[0].NodeType)
}

func TestService_SaveAndLoadLatest(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(NewSeeded(onlyGain(), nil), repo, nil)

	_, err := svc.LoadLatest()
	assert.ErrorIs(t, err, repository.ErrNoSave)

	saved, err := svc.Save()
	require.NoError(t, err)

	svc.Step(10)
	require.NoError(t, svc.Click(1))
	svc.Step(0)
	assert.NotEqual(t, saved.Nodes, svc.game.Export().Nodes)

	loaded, err := svc.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, saved.Nodes, svc.game.Export().Nodes)
}

func TestService_SaveWithoutRepository(t *testing.T) {
	svc := NewService(NewSeeded(config.DefaultGame(), nil), nil, nil)

	_, err := svc.Save()
	assert.Error(t, err)
	_, err = svc.LatestSave()
	assert.ErrorIs(t, err, repository.ErrNoSave)
	_, err = svc.GetSave("any")
	assert.ErrorIs(t, err, repository.ErrNoSave)
}

func TestService_GetSave(t *testing.T) {
	svc := NewService(NewSeeded(onlyGain(), nil), newMemRepo(), nil)

	saved, err := svc.Save()
	require.NoError(t, err)

	got, err := svc.GetSave(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = svc.GetSave("missing")
	assert.ErrorIs(t, err, repository.ErrNoSave)
}

func TestService_LoadDropsPendingClicks(t *testing.T) {
	g := newTestGame(onlyGain())
	h := addNode(g, models.Vec2{}, models.Gain(1), 1, 1)
	g.refresh()
	svc := NewService(g, nil, nil)
	save := g.Export()

	require.NoError(t, svc.Click(h))
	require.NoError(t, svc.Load(save))
	res := svc.Step(0)

	assert.Empty(t, res.Events)
	assert.Equal(t, int64(0), svc.Currency())
}

func TestService_Reset(t *testing.T) {
	g := newTestGame(onlyGain())
	addNode(g, models.Vec2{}, models.Gain(1), 1, 1)
	svc := NewService(g, nil, nil)

	svc.Reset()

	assert.Len(t, svc.Snapshot().Nodes, 2)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	svc := NewService(NewSeeded(config.DefaultGame(), nil), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	st, err := svc.Status(1)
	require.NoError(t, err)
	assert.Less(t, st.RemainingSeconds, 1.0, "the loop advanced the root timer")
}
