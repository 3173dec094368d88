// Package renderer draws the particle field with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/pool"
)

const (
	outlineAlpha = 120
	outlineWidth = 1.2
)

// ParticleRenderer renders pool particles as translucent discs.
type ParticleRenderer struct {
	segments int32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{segments: 36}
}

// Draw renders all particles in insertion order, so later particles sit on top,
// matching the hit test. outlined, when set, gets a thin ring in its own colour.
func (r *ParticleRenderer) Draw(p *pool.Pool, outlined ecs.Entity, hasOutline bool) {
	p.Each(func(pt pool.Particle) {
		color := FillerColor(pt.Body.Alpha)
		if pt.Item != nil {
			color = GenreColor(pt.Item.Genre, pt.Body.Alpha)
		}
		center := rl.Vector2{X: pt.Pos.X, Y: pt.Pos.Y}

		rl.DrawCircleV(center, pt.Body.Radius, color)

		if hasOutline && pt.Entity == outlined {
			ring := color
			ring.A = outlineAlpha
			half := float32(outlineWidth / 2)
			rl.DrawRing(center, pt.Body.Radius-half, pt.Body.Radius+half, 0, 360, r.segments, ring)
		}
	})
}
