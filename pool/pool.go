// Package pool owns one build of the particle field: an ECS world holding one
// particle per sampled item plus decorative filler.
package pool

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/components"
	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/systems"
)

// Options describes a pool build.
type Options struct {
	Config     *config.Config
	Items      []content.Item // sampled items, one particle each
	Target     int            // particle count; filler makes up any shortfall
	Bounds     systems.Bounds
	RNG        *rand.Rand
	Probe      device.Probe
	Generation uint64
}

// Pool is a single, immutable-membership set of particles.
// A rebuild replaces the whole Pool rather than patching it.
type Pool struct {
	world      *ecs.World
	generation uint64
	bounds     systems.Bounds

	mapper  *ecs.Map4[components.Position, components.Velocity, components.Body, components.Binding]
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	bodyMap *ecs.Map1[components.Body]
	bindMap *ecs.Map1[components.Binding]
	all     ecs.Filter4[components.Position, components.Velocity, components.Body, components.Binding]

	spawner *systems.Spawner
	physics *systems.PhysicsSystem
	overlap *systems.OverlapSystem
	hits    *systems.HitSystem

	members map[ecs.Entity]struct{}
	bound   int
}

// New builds a pool. Particles are created in item order, followed by filler.
func New(opts Options) *Pool {
	cfg := opts.Config
	world := ecs.NewWorld()

	spawner := systems.NewSpawner(
		opts.RNG,
		opts.Bounds,
		systems.MotionFromConfig(cfg.Motion),
		systems.ProfilesFromConfig(cfg.Sizes),
		opts.Probe,
	)
	overlap := systems.NewOverlapSystem(world,
		float32(cfg.Physics.OverlapPadding),
		cfg.Physics.OverlapPasses,
		float32(cfg.Physics.MinSeparation))

	p := &Pool{
		world:      world,
		generation: opts.Generation,
		bounds:     opts.Bounds,
		mapper:     ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Binding](world),
		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		bindMap:    ecs.NewMap1[components.Binding](world),
		all:        *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Binding](world),
		spawner:    spawner,
		physics:    systems.NewPhysicsSystem(world, opts.Bounds, systems.StepParamsFromConfig(cfg.Physics), spawner),
		overlap:    overlap,
		hits:       systems.NewHitSystem(world),
		members:    make(map[ecs.Entity]struct{}),
	}

	for i := range opts.Items {
		item := opts.Items[i]
		p.spawn(&item)
	}
	for len(p.members) < opts.Target {
		p.spawn(nil)
	}
	return p
}

func (p *Pool) spawn(item *content.Item) {
	pos := &components.Position{}
	vel := &components.Velocity{}
	body := &components.Body{}
	p.spawner.Reset(pos, vel, body, true)
	e := p.mapper.NewEntity(pos, vel, body, &components.Binding{Item: item})

	p.members[e] = struct{}{}
	if item != nil {
		p.bound++
	}
}

// Step runs one frame of physics: integration, zone push-out and respawn,
// then overlap relaxation. frozen is skipped by integration when hasFrozen is set.
func (p *Pool) Step(zone systems.Rect, frozen ecs.Entity, hasFrozen bool) systems.StepStats {
	stats := p.physics.Update(zone, frozen, hasFrozen && p.has(frozen))
	p.overlap.Update()
	return stats
}

// Integrate runs only the physics half of Step, for callers timing the phases separately.
func (p *Pool) Integrate(zone systems.Rect, frozen ecs.Entity, hasFrozen bool) systems.StepStats {
	return p.physics.Update(zone, frozen, hasFrozen && p.has(frozen))
}

// Relax runs only the overlap half of Step.
func (p *Pool) Relax() {
	p.overlap.Update()
}

// has reports whether e is a particle of this pool. Lookups never reach the
// world for unknown entities.
func (p *Pool) has(e ecs.Entity) bool {
	_, ok := p.members[e]
	return ok
}

// HitTest returns the topmost particle within radius+slop of (x, y).
func (p *Pool) HitTest(x, y, slop float32) (ecs.Entity, bool) {
	return p.hits.Test(x, y, slop)
}

// Item returns the item bound to e, nil for filler or unknown entities.
func (p *Pool) Item(e ecs.Entity) *content.Item {
	if !p.has(e) {
		return nil
	}
	return p.bindMap.Get(e).Item
}

// Freeze stops e in place.
func (p *Pool) Freeze(e ecs.Entity) {
	if p.has(e) {
		p.spawner.Freeze(p.velMap.Get(e))
	}
}

// Resume gives e a small random drift.
func (p *Pool) Resume(e ecs.Entity) {
	if p.has(e) {
		p.spawner.Resume(p.velMap.Get(e))
	}
}

// Position returns the centre of e.
func (p *Pool) Position(e ecs.Entity) (x, y float32, ok bool) {
	if !p.has(e) {
		return 0, 0, false
	}
	pos := p.posMap.Get(e)
	return pos.X, pos.Y, true
}

// Velocity returns the velocity of e.
func (p *Pool) Velocity(e ecs.Entity) (components.Velocity, bool) {
	if !p.has(e) {
		return components.Velocity{}, false
	}
	return *p.velMap.Get(e), true
}

// Body returns the shape of e.
func (p *Pool) Body(e ecs.Entity) (components.Body, bool) {
	if !p.has(e) {
		return components.Body{}, false
	}
	return *p.bodyMap.Get(e), true
}

// Particle is a read-only view of one particle, passed to Each.
type Particle struct {
	Entity ecs.Entity
	Pos    components.Position
	Vel    components.Velocity
	Body   components.Body
	Item   *content.Item
}

// Each calls fn for every particle in insertion (draw) order.
func (p *Pool) Each(fn func(Particle)) {
	query := p.all.Query()
	for query.Next() {
		pos, vel, body, bind := query.Get()
		fn(Particle{
			Entity: query.Entity(),
			Pos:    *pos,
			Vel:    *vel,
			Body:   *body,
			Item:   bind.Item,
		})
	}
}

// Len returns the number of particles.
func (p *Pool) Len() int { return len(p.members) }

// BoundCount returns the number of particles carrying an item.
func (p *Pool) BoundCount() int { return p.bound }

// Generation identifies the rebuild that produced this pool.
func (p *Pool) Generation() uint64 { return p.generation }

// Bounds returns the canvas size the pool was built for.
func (p *Pool) Bounds() systems.Bounds { return p.bounds }

// Components returns pointers to the live components of e for debug inspection.
// The pointers are valid until the next Step.
func (p *Pool) Components(e ecs.Entity) []any {
	if !p.has(e) {
		return nil
	}
	return []any{p.posMap.Get(e), p.velMap.Get(e), p.bodyMap.Get(e)}
}
