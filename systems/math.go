package systems

import (
	"math"
	"math/rand"
)

// randRange returns a uniform float32 in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
