package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/systems"
)

const linksButtonWidth = 120

// Header is the title bar across the top of the window. Particles are pushed out
// of it and input over it never reaches the field.
type Header struct {
	r      *Renderer
	title  string
	height float32
	rect   systems.Rect
}

// NewHeader creates a header of the given height.
func NewHeader(r *Renderer, title string, height float32) *Header {
	return &Header{r: r, title: title, height: height}
}

// Refresh recomputes the cached rectangle for the current window width.
func (h *Header) Refresh(screenW float32) {
	h.rect = systems.Rect{Left: 0, Top: 0, Right: screenW, Bottom: h.height}
}

// Rect returns the rectangle from the last Refresh.
func (h *Header) Rect() systems.Rect {
	return h.rect
}

// LinksLabel is the switch caption for the current mode.
func LinksLabel(enabled bool) string {
	if enabled {
		return "Links: on"
	}
	return "Links: off"
}

// Draw renders the header and its links switch. It reports whether the switch
// was pressed this frame.
func (h *Header) Draw(linksEnabled bool) bool {
	if h.rect.Empty() {
		return false
	}
	th := h.r.Theme
	w := h.rect.Right - h.rect.Left

	rl.DrawRectangleRec(rl.Rectangle{X: 0, Y: 0, Width: w, Height: h.height}, th.HeaderBg)
	rl.DrawLineEx(rl.Vector2{X: 0, Y: h.height}, rl.Vector2{X: w, Y: h.height}, 1, th.HeaderRule)

	titleY := (h.height - th.TitleFontSize) / 2
	h.r.Face.Draw(h.title, th.Padding*2, titleY, th.TitleFontSize, th.HeaderText)

	button := rl.Rectangle{
		X:      w - linksButtonWidth - th.Padding*2,
		Y:      (h.height - th.ButtonHeight) / 2,
		Width:  linksButtonWidth,
		Height: th.ButtonHeight,
	}
	return gui.Button(button, LinksLabel(linksEnabled))
}
