package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/content"
)

// Paper is the canvas colour.
var Paper = tintColor(content.PaperTint, 255)

// GenreColor returns the fill for a genre at the given opacity.
func GenreColor(genre string, alpha uint8) rl.Color {
	return tintColor(content.GenreTint(genre), alpha)
}

// FillerColor returns the fill for a particle without an item.
func FillerColor(alpha uint8) rl.Color {
	return tintColor(content.FillerTint, alpha)
}

func tintColor(t content.Tint, alpha uint8) rl.Color {
	return rl.Color{R: t[0], G: t[1], B: t[2], A: alpha}
}
