package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/components"
)

// OverlapSystem pushes apart bodies closer than the sum of their radii plus padding.
type OverlapSystem struct {
	filter        ecs.Filter2[components.Position, components.Body]
	padding       float32
	passes        int
	minSeparation float32

	// reused between frames
	pos   []*components.Position
	radii []float32
}

// NewOverlapSystem creates an overlap resolver.
func NewOverlapSystem(w *ecs.World, padding float32, passes int, minSeparation float32) *OverlapSystem {
	return &OverlapSystem{
		filter:        *ecs.NewFilter2[components.Position, components.Body](w),
		padding:       padding,
		passes:        passes,
		minSeparation: minSeparation,
	}
}

// Update gathers the particles and runs the configured number of relaxation passes.
func (s *OverlapSystem) Update() {
	s.pos = s.pos[:0]
	s.radii = s.radii[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, body := query.Get()
		s.pos = append(s.pos, pos)
		s.radii = append(s.radii, body.Radius)
	}

	for range s.passes {
		ResolvePass(s.pos, s.radii, s.padding, s.minSeparation)
	}
}

// ResolvePass visits every pair once in index order. An overlapping pair is
// separated along the line between centres, each body moving a quarter of the
// shortfall; bodies on the same centre use the x axis. Positions update in place, so later pairs see earlier corrections.
func ResolvePass(pos []*components.Position, radii []float32, padding, minSeparation float32) {
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			a, b := pos[i], pos[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := sqrt32(dx*dx + dy*dy)
			minDist := radii[i] + radii[j] + padding
			var ux, uy float32
			if dist == 0 {
				// Coincident centres separate along +x
				dist = minSeparation
				ux = 1
			} else {
				ux, uy = dx/dist, dy/dist
			}
			if dist >= minDist {
				continue
			}

			push := (minDist - dist) / 2 * 0.5
			a.X -= ux * push
			a.Y -= uy * push
			b.X += ux * push
			b.Y += uy * push
		}
	}
}
