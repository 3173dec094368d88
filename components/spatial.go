// Package components defines ECS components for the particle field.
package components

// Position is a particle's centre in screen coordinates.
type Position struct {
	X float32 `inspect:"label,fmt:%.1f"`
	Y float32 `inspect:"label,fmt:%.1f"`
}

// Velocity is a particle's displacement per tick.
type Velocity struct {
	X float32 `inspect:"label,fmt:%+.3f"`
	Y float32 `inspect:"label,fmt:%+.3f"`
}

// Stopped reports whether the particle is frozen in place.
func (v Velocity) Stopped() bool {
	return v.X == 0 && v.Y == 0
}
