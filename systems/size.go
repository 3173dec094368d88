package systems

import (
	"math"
	"math/rand"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/device"
)

// SizeProfile is a radius distribution skewed towards small bodies, with a rare oversized tail.
type SizeProfile struct {
	Min, Max  float32
	Power     float32
	BigChance float32
	BigMin    float32
	BigMax    float32
	BigPower  float32
}

// ProfileFromConfig converts a config preset.
func ProfileFromConfig(c config.SizeProfileConfig) SizeProfile {
	return SizeProfile{
		Min:       float32(c.Min),
		Max:       float32(c.Max),
		Power:     float32(c.Power),
		BigChance: float32(c.BigChance),
		BigMin:    float32(c.BigMin),
		BigMax:    float32(c.BigMax),
		BigPower:  float32(c.BigPower),
	}
}

// Profiles holds one size preset per input modality.
type Profiles struct {
	Touch   SizeProfile
	Pointer SizeProfile
}

// ProfilesFromConfig converts the sizes config section.
func ProfilesFromConfig(c config.SizesConfig) Profiles {
	return Profiles{
		Touch:   ProfileFromConfig(c.Touch),
		Pointer: ProfileFromConfig(c.Pointer),
	}
}

// For returns the preset for m.
func (p Profiles) For(m device.Modality) SizeProfile {
	if m == device.Touch {
		return p.Touch
	}
	return p.Pointer
}

// BiasedRandom draws u in [0,1) and maps u^power linearly into [lo, hi].
// A power above 1 favours lo.
func BiasedRandom(rng *rand.Rand, lo, hi, power float32) float32 {
	u := rng.Float64()
	return lo + (hi-lo)*float32(math.Pow(u, float64(power)))
}

// MixSize draws a radius from p: the oversized range with probability BigChance,
// the regular range otherwise.
func MixSize(rng *rand.Rand, p SizeProfile) float32 {
	if rng.Float32() < p.BigChance {
		return BiasedRandom(rng, p.BigMin, p.BigMax, p.BigPower)
	}
	return BiasedRandom(rng, p.Min, p.Max, p.Power)
}
