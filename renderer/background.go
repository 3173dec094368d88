package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer clears the canvas to a flat paper tone.
type BackgroundRenderer struct {
	color rl.Color
}

// NewBackgroundRenderer creates a background renderer. A zero colour uses Paper.
func NewBackgroundRenderer(color rl.Color) *BackgroundRenderer {
	if color == (rl.Color{}) {
		color = Paper
	}
	return &BackgroundRenderer{color: color}
}

// Draw clears the frame.
func (b *BackgroundRenderer) Draw() {
	rl.ClearBackground(b.color)
}
