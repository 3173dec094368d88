package systems

import (
	"math/rand"

	"github.com/kolloid-cable/drift/components"
	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/device"
)

// Inset is the first-spawn region as fractions of the canvas.
type Inset struct {
	Left, Top, Right, Bottom float32
}

// Motion holds the velocity and opacity ranges of spawned particles.
type Motion struct {
	Speed       float32 // spawn velocity per axis is uniform in [-Speed, Speed]
	ResumeSpeed float32 // velocity range after a selection is released
	AlphaMin    float32
	AlphaMax    float32
	SafeInset   Inset
}

// MotionFromConfig converts the motion config section.
func MotionFromConfig(c config.MotionConfig) Motion {
	return Motion{
		Speed:       float32(c.Speed),
		ResumeSpeed: float32(c.ResumeSpeed),
		AlphaMin:    float32(c.AlphaMin),
		AlphaMax:    float32(c.AlphaMax),
		SafeInset: Inset{
			Left:   float32(c.SafeInset.Left),
			Top:    float32(c.SafeInset.Top),
			Right:  float32(c.SafeInset.Right),
			Bottom: float32(c.SafeInset.Bottom),
		},
	}
}

// Spawner assigns fresh random state to particles.
type Spawner struct {
	rng      *rand.Rand
	bounds   Bounds
	motion   Motion
	profiles Profiles
	probe    device.Probe
}

// NewSpawner creates a spawner for a canvas of the given size.
// probe is queried on every reset so the size preset follows the live modality.
func NewSpawner(rng *rand.Rand, bounds Bounds, motion Motion, profiles Profiles, probe device.Probe) *Spawner {
	if probe == nil {
		probe = device.Fixed(device.Pointer)
	}
	return &Spawner{
		rng:      rng,
		bounds:   bounds,
		motion:   motion,
		profiles: profiles,
		probe:    probe,
	}
}

// Reset gives a particle a new position, velocity, radius and opacity.
// The first reset of a pool build places particles inside the safe inset;
// later resets use the whole canvas.
func (s *Spawner) Reset(pos *components.Position, vel *components.Velocity, body *components.Body, first bool) {
	w, h := s.bounds.Width, s.bounds.Height
	if first {
		in := s.motion.SafeInset
		pos.X = randRange(s.rng, w*in.Left, w*in.Right)
		pos.Y = randRange(s.rng, h*in.Top, h*in.Bottom)
	} else {
		pos.X = randRange(s.rng, 0, w)
		pos.Y = randRange(s.rng, 0, h)
	}

	vel.X = randRange(s.rng, -s.motion.Speed, s.motion.Speed)
	vel.Y = randRange(s.rng, -s.motion.Speed, s.motion.Speed)

	body.Radius = MixSize(s.rng, s.profiles.For(s.probe()))
	body.Alpha = uint8(randRange(s.rng, s.motion.AlphaMin, s.motion.AlphaMax))
}

// Resume sets a small random drift on a released particle.
func (s *Spawner) Resume(vel *components.Velocity) {
	vel.X = randRange(s.rng, -s.motion.ResumeSpeed, s.motion.ResumeSpeed)
	vel.Y = randRange(s.rng, -s.motion.ResumeSpeed, s.motion.ResumeSpeed)
}

// Freeze stops a particle in place.
func (s *Spawner) Freeze(vel *components.Velocity) {
	vel.X, vel.Y = 0, 0
}

// ZonePush returns the offset below a forbidden zone for a pushed-out particle.
func (s *Spawner) ZonePush(lo, hi float32) float32 {
	return randRange(s.rng, lo, hi)
}
