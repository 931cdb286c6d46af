package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idle-dag/models"
)

// fixedSource returns the same value forever and counts draws.
type fixedSource struct {
	value uint64
	draws int
}

func (s *fixedSource) Uint64() uint64 {
	s.draws++
	return s.value
}

func TestComputeNewPosition_EmptyFirstAttempt(t *testing.T) {
	anchors := []models.Vec2{{X: 0, Y: 0}, {X: -37.5, Y: 410}}
	for _, anchor := range anchors {
		src := &fixedSource{}
		pos, ok := ComputeNewPosition(nil, anchor, 200, 10, src)
		require.True(t, ok)

		dist := math.Sqrt(DistanceSquared(anchor, pos))
		assert.InDelta(t, 200+Epsilon, dist, 1e-9)
		// seed fraction 0 and attempt 0 put the candidate on the +X axis
		assert.InDelta(t, anchor.X+200+Epsilon, pos.X, 1e-9)
		assert.InDelta(t, anchor.Y, pos.Y, 1e-9)
		assert.Equal(t, 1, src.draws)
	}
}

func TestComputeNewPosition_DenseRingSaturates(t *testing.T) {
	const radius = 200.0
	anchor := models.Vec2{X: 10, Y: -20}

	var ring []models.Vec2
	for i := 0; i < 64; i++ {
		a := 2 * math.Pi * float64(i) / 64
		ring = append(ring, models.Vec2{
			X: anchor.X + radius*math.Cos(a),
			Y: anchor.Y + radius*math.Sin(a),
		})
	}

	for _, seed := range []uint64{0, math.MaxUint64 / 3, math.MaxUint64 / 7 * 5} {
		src := &fixedSource{value: seed}
		_, ok := ComputeNewPosition(ring, anchor, radius, 10, src)
		assert.False(t, ok)
		assert.Equal(t, 1, src.draws, "one draw per call regardless of attempts")
	}
}

func TestComputeNewPosition_SkipsBlockedAngles(t *testing.T) {
	const radius = 100.0
	anchor := models.Vec2{}
	// occupy the +X direction so attempt 0 is rejected
	existing := []models.Vec2{anchor, {X: radius + Epsilon, Y: 0}}

	pos, ok := ComputeNewPosition(existing, anchor, radius, 4, &fixedSource{})
	require.True(t, ok)
	// attempt 1 of 4 is a quarter turn
	assert.InDelta(t, 0, pos.X, 1e-9)
	assert.InDelta(t, radius+Epsilon, pos.Y, 1e-9)

	for _, p := range existing {
		assert.Greater(t, DistanceSquared(p, pos), radius*radius)
	}
}

func TestComputeNewPosition_ZeroAttempts(t *testing.T) {
	_, ok := ComputeNewPosition(nil, models.Vec2{}, 10, 0, &fixedSource{})
	assert.False(t, ok)
}
