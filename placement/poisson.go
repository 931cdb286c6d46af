// Package placement finds free positions for new nodes.
//
// The sampler tries a single ring of evenly spaced angles around an anchor,
// at one fixed radius. It never shrinks the radius or tries a second ring.
package placement

import (
	"math"

	"idle-dag/models"
)

// Epsilon pushes candidates just past the separation radius so a candidate
// never ties with the point it was placed next to.
const Epsilon = 0.01

// Source is the random source consumed by the sampler. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Uint64() uint64
}

// ComputeNewPosition returns the first candidate on the ring of radius
// radius+Epsilon around near that is farther than radius from every existing
// point. It draws exactly one value from src to offset the ring. ok is false
// when all attempts are rejected.
func ComputeNewPosition(existing []models.Vec2, near models.Vec2, radius float64, attempts int, src Source) (pos models.Vec2, ok bool) {
	seed := float64(src.Uint64()) / float64(math.MaxUint64)
	ringRadius := radius + Epsilon
	radiusSquared := radius * radius

	for attempt := 0; attempt < attempts; attempt++ {
		theta := 2 * math.Pi * (seed + float64(attempt)/float64(attempts))
		candidate := models.Vec2{
			X: near.X + ringRadius*math.Cos(theta),
			Y: near.Y + ringRadius*math.Sin(theta),
		}
		if isFree(existing, candidate, radiusSquared) {
			return candidate, true
		}
	}
	return models.Vec2{}, false
}

func isFree(existing []models.Vec2, candidate models.Vec2, radiusSquared float64) bool {
	for _, p := range existing {
		if DistanceSquared(p, candidate) <= radiusSquared {
			return false
		}
	}
	return true
}

// DistanceSquared returns the squared euclidean distance between a and b.
func DistanceSquared(a, b models.Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
