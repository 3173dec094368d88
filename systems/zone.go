package systems

// Bounds represents the canvas size.
type Bounds struct {
	Width, Height float32
}

// Rect is an axis-aligned screen rectangle, edges inclusive.
// The zero Rect is empty and contains nothing.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	if r.Empty() {
		return false
	}
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}
