// Package systems contains ECS systems for the particle field.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/components"
	"github.com/kolloid-cable/drift/config"
)

// StepParams holds the per-frame physics constants.
type StepParams struct {
	BoundsMargin     float32 // respawn once this far outside the canvas
	ZonePushMin      float32
	ZonePushMax      float32
	ZoneDownwardKick float32
}

// StepParamsFromConfig converts the physics config section.
func StepParamsFromConfig(c config.PhysicsConfig) StepParams {
	return StepParams{
		BoundsMargin:     float32(c.BoundsMargin),
		ZonePushMin:      float32(c.ZonePushMin),
		ZonePushMax:      float32(c.ZonePushMax),
		ZoneDownwardKick: float32(c.ZoneDownwardKick),
	}
}

// PhysicsSystem integrates particle motion and keeps particles out of the forbidden zone.
type PhysicsSystem struct {
	filter  ecs.Filter3[components.Position, components.Velocity, components.Body]
	bounds  Bounds
	params  StepParams
	spawner *Spawner
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, bounds Bounds, params StepParams, spawner *Spawner) *PhysicsSystem {
	return &PhysicsSystem{
		filter:  *ecs.NewFilter3[components.Position, components.Velocity, components.Body](w),
		bounds:  bounds,
		params:  params,
		spawner: spawner,
	}
}

// StepStats counts the corrections made during one Update.
type StepStats struct {
	Respawned  int
	ZonePushes int
}

// Update advances every particle one tick, in insertion order.
// The frozen particle, when hasFrozen is set, is not integrated.
// Particles whose centre enters zone are pushed below it.
func (s *PhysicsSystem) Update(zone Rect, frozen ecs.Entity, hasFrozen bool) StepStats {
	var stats StepStats
	margin := s.params.BoundsMargin

	query := s.filter.Query()
	for query.Next() {
		if hasFrozen && query.Entity() == frozen {
			continue
		}
		pos, vel, body := query.Get()

		pos.X += vel.X
		pos.Y += vel.Y

		if zone.Contains(pos.X, pos.Y) {
			pos.Y = zone.Bottom + body.Radius + s.spawner.ZonePush(s.params.ZonePushMin, s.params.ZonePushMax)
			if vel.Y < 0 {
				vel.Y = -vel.Y + s.params.ZoneDownwardKick
			}
			stats.ZonePushes++
		}

		if pos.X < -margin || pos.X > s.bounds.Width+margin ||
			pos.Y < -margin || pos.Y > s.bounds.Height+margin {
			s.spawner.Reset(pos, vel, body, false)
			stats.Respawned++
		}
	}
	return stats
}
