package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/components"
)

// HitSystem finds the particle under a screen point.
type HitSystem struct {
	filter ecs.Filter2[components.Position, components.Body]
}

// NewHitSystem creates a hit tester.
func NewHitSystem(w *ecs.World) *HitSystem {
	return &HitSystem{
		filter: *ecs.NewFilter2[components.Position, components.Body](w),
	}
}

// Test returns the topmost particle within radius+slop of (x, y).
// Particles are drawn in insertion order, so the last hit wins.
func (s *HitSystem) Test(x, y, slop float32) (ecs.Entity, bool) {
	var hit ecs.Entity
	found := false

	query := s.filter.Query()
	for query.Next() {
		pos, body := query.Get()
		r := body.Radius + slop
		if distanceSq(x, y, pos.X, pos.Y) <= r*r {
			hit = query.Entity()
			found = true
		}
	}
	return hit, found
}
