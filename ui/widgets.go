package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/renderer"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
	Face  *renderer.Typeface
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer(face *renderer.Typeface) *Renderer {
	return &Renderer{Theme: DefaultTheme(), Face: face}
}

// DrawCard draws a rounded card background.
func (r *Renderer) DrawCard(rect rl.Rectangle, fill rl.Color) {
	rl.DrawRectangleRounded(rect, roundness(rect, r.Theme.CardRadius), 8, fill)
}

// DrawCardOutline draws the card border.
func (r *Renderer) DrawCardOutline(rect rl.Rectangle) {
	rl.DrawRectangleRoundedLinesEx(rect, roundness(rect, r.Theme.CardRadius), 8, 1, r.Theme.PanelBorder)
}

// DrawText draws text at the theme's body size.
func (r *Renderer) DrawText(text string, x, y float32, color rl.Color) {
	r.Face.Draw(text, x, y, r.Theme.FontSize, color)
}

// Measure returns the width of text at the theme's body size.
func (r *Renderer) Measure(text string) float32 {
	return r.Face.Measure(text, r.Theme.FontSize)
}

// roundness converts a corner radius in pixels to raylib's relative roundness.
func roundness(rect rl.Rectangle, radius float32) float32 {
	short := min(rect.Width, rect.Height)
	if short <= 0 {
		return 0
	}
	return min(1, 2*radius/short)
}
