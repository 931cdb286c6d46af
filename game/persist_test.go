package game

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idle-dag/config"
	"idle-dag/dag"
	"idle-dag/models"
)

func loadFixture(t *testing.T) models.Save {
	t.Helper()
	data, err := os.ReadFile("testdata/save_14_nodes.json")
	require.NoError(t, err)
	var save models.Save
	require.NoError(t, json.Unmarshal(data, &save))
	return save
}

func TestRestore_Fixture(t *testing.T) {
	save := loadFixture(t)
	g := newTestGame(config.DefaultGame())

	require.NoError(t, g.Restore(save))
	require.Equal(t, 14, g.graph.Len())
	require.NoError(t, g.graph.Validate())

	first := g.graph.MustGet(0)
	assert.Equal(t, models.Gain(2), first.Type)
	assert.ElementsMatch(t, []dag.Handle{4, 7}, first.Blockers)
	assert.True(t, first.InheritedBlocked)
	assert.InDelta(t, 3.044175, first.Progress.Remaining(), 1e-9)

	// 6 -> 5 -> 1 are all open
	second := g.graph.MustGet(1)
	assert.False(t, second.Blocked())
	assert.Equal(t, "Gain!", status(second).Label)

	last := g.graph.MustGet(13)
	assert.Equal(t, models.Blocker(true), last.Type)
	assert.Empty(t, last.Blockers)
	assert.Equal(t, []dag.Handle{12}, last.ToBlock)
}

func TestExportRestore_RoundTrip(t *testing.T) {
	g := newTestGame(config.DefaultGame())
	a := addNode(g, models.Vec2{X: 1, Y: 2}, models.Gain(3), 4, 1.5)
	b := addNode(g, models.Vec2{X: 300}, models.Blocker(true), 0.5, 0.5)
	c := addNode(g, models.Vec2{Y: 300}, models.SaveNode(2), 15, 0)
	g.graph.Link(b, a)
	g.graph.Link(c, a)
	g.graph.Link(c, b)
	g.currency = 42
	g.refresh()

	data, err := json.Marshal(g.Export())
	require.NoError(t, err)
	var save models.Save
	require.NoError(t, json.Unmarshal(data, &save))

	restored := newTestGame(config.DefaultGame())
	require.NoError(t, restored.Restore(save))

	assert.Equal(t, int64(42), restored.Currency())
	require.Equal(t, g.graph.Len(), restored.graph.Len())
	for i, want := range g.graph.Nodes() {
		got := restored.graph.Nodes()[i]
		assert.Equal(t, want.Position, got.Position)
		assert.Equal(t, want.Type, got.Type)
		assert.InDelta(t, want.Progress.Duration(), got.Progress.Duration(), 1e-9)
		assert.InDelta(t, want.Progress.Remaining(), got.Progress.Remaining(), 1e-9)
		assert.Equal(t, len(want.Blockers), len(got.Blockers), "in-degree of node %d", i)
		assert.Equal(t, len(want.ToBlock), len(got.ToBlock), "out-degree of node %d", i)
		assert.Equal(t, want.InheritedBlocked, got.InheritedBlocked)
	}
}

func TestRestore_RejectsBadSaves(t *testing.T) {
	node := func(typ models.NodeType, toBlock, blockers []int) models.SavedNode {
		return models.SavedNode{NodeType: typ, TimerSecondsDuration: 1, ToBlock: toBlock, Blockers: blockers}
	}
	tests := []struct {
		name string
		save models.Save
	}{
		{"index out of range", models.Save{Nodes: []models.SavedNode{
			node(models.Gain(1), []int{3}, nil),
		}}},
		{"negative index", models.Save{Nodes: []models.SavedNode{
			node(models.Gain(1), nil, []int{-1}),
		}}},
		{"unknown archetype", models.Save{Nodes: []models.SavedNode{
			node(models.NodeType{Kind: "Teleport"}, nil, nil),
		}}},
		{"cycle", models.Save{Nodes: []models.SavedNode{
			node(models.Gain(1), []int{1}, nil),
			node(models.Blocker(false), []int{0}, nil),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSeeded(config.DefaultGame(), nil)
			g.currency = 5
			before := g.Export()

			err := g.Restore(tt.save)

			assert.ErrorIs(t, err, ErrInvalidSave)
			assert.Equal(t, before, g.Export())
			assert.Equal(t, int64(5), g.Currency())
		})
	}
}
