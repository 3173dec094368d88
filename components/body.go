package components

// Body holds the drawn shape of a particle.
type Body struct {
	Radius float32 `inspect:"label,fmt:%.1f"`
	Alpha  uint8   `inspect:"bar,max:255"` // fill opacity, 0..255
}
