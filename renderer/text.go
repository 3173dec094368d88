package renderer

import (
	"log/slog"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Typeface draws and measures text with a TTF/OTF font when one is configured,
// falling back to raylib's built-in font. The built-in font has no CJK glyphs, so
// titles and genres in Japanese need a configured font.
//
// raylib bakes only the requested codepoints into the atlas; Require reloads the
// font whenever new runes show up (each pool rebuild at most).
type Typeface struct {
	path    string
	size    int32
	font    rl.Font
	loaded  bool
	runes   map[rune]struct{}
	spacing float32
}

// NewTypeface creates a typeface. An empty path uses the default font.
func NewTypeface(path string, size int32) *Typeface {
	return &Typeface{
		path:    path,
		size:    size,
		runes:   make(map[rune]struct{}),
		spacing: 1,
	}
}

// Require makes sure every rune of texts has a glyph. Must be called on the
// render thread after the window exists.
func (t *Typeface) Require(texts ...string) {
	if t.path == "" {
		return
	}
	added := false
	for _, s := range texts {
		for _, r := range s {
			if _, ok := t.runes[r]; !ok {
				t.runes[r] = struct{}{}
				added = true
			}
		}
	}
	if !added && t.loaded {
		return
	}

	// Printable ASCII is always present for labels and numbers
	for r := rune(32); r < 127; r++ {
		t.runes[r] = struct{}{}
	}
	codepoints := make([]rune, 0, len(t.runes))
	for r := range t.runes {
		codepoints = append(codepoints, r)
	}
	slices.Sort(codepoints)

	if t.loaded {
		rl.UnloadFont(t.font)
	}
	t.font = rl.LoadFontEx(t.path, t.size, codepoints)
	t.loaded = true
	slog.Debug("font atlas rebuilt", "path", t.path, "glyphs", len(codepoints))
}

func (t *Typeface) current() rl.Font {
	if t.loaded {
		return t.font
	}
	return rl.GetFontDefault()
}

// Measure returns the width of s at size.
func (t *Typeface) Measure(s string, size float32) float32 {
	return rl.MeasureTextEx(t.current(), s, size, t.spacing).X
}

// Draw renders s with its top-left corner at (x, y).
func (t *Typeface) Draw(s string, x, y, size float32, color rl.Color) {
	rl.DrawTextEx(t.current(), s, rl.Vector2{X: x, Y: y}, size, t.spacing, color)
}

// Unload frees the font atlas.
func (t *Typeface) Unload() {
	if t.loaded {
		rl.UnloadFont(t.font)
		t.loaded = false
	}
}
