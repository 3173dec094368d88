package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/systems"
)

// PanelAction is what the user did with the info panel this frame.
type PanelAction uint8

const (
	PanelNone PanelAction = iota
	PanelOpen
	PanelClose
)

const panelButtonWidth = 96

// InfoPanel describes the selected particle in touch mode and carries the
// button that opens its link. It follows the selection through the
// interaction.Listener methods.
type InfoPanel struct {
	r      *Renderer
	dir    content.Directory
	width  float32
	height float32

	item    *content.Item
	visible bool
	rect    rl.Rectangle
}

// NewInfoPanel creates a hidden panel with a minimum size of width x height.
func NewInfoPanel(r *Renderer, dir content.Directory, width, height float32) *InfoPanel {
	return &InfoPanel{r: r, dir: dir, width: width, height: height}
}

// SetDirectory swaps the contributor directory.
func (p *InfoPanel) SetDirectory(dir content.Directory) {
	p.dir = dir
}

// Selected shows the panel for item. Filler particles have no item and no panel.
func (p *InfoPanel) Selected(item *content.Item) {
	p.item = item
	p.visible = item != nil
}

// Cleared hides the panel.
func (p *InfoPanel) Cleared() {
	p.item = nil
	p.visible = false
}

// Visible reports whether the panel is showing.
func (p *InfoPanel) Visible() bool { return p.visible }

// Item returns the described item.
func (p *InfoPanel) Item() *content.Item { return p.item }

// Place anchors the panel at the selected particle. Call it once per frame before
// input is dispatched so the protected zone matches what is drawn.
func (p *InfoPanel) Place(anchorX, anchorY, screenW, screenH float32, measure func(string) float32) {
	if !p.visible {
		return
	}
	w := p.width
	if measure != nil {
		for _, l := range CardLines(p.item, p.dir) {
			w = max(w, measure(l)+p.r.Theme.Padding*2)
		}
	}
	p.rect = PlaceCard(anchorX, anchorY, w, p.height, screenW, screenH, p.r.Theme)
}

// Zone returns the screen area covered by the panel, empty while hidden.
func (p *InfoPanel) Zone() systems.Rect {
	if !p.visible {
		return systems.Rect{}
	}
	return systems.Rect{
		Left:   p.rect.X,
		Top:    p.rect.Y,
		Right:  p.rect.X + p.rect.Width,
		Bottom: p.rect.Y + p.rect.Height,
	}
}

// Draw renders the panel and reports which button, if any, was pressed.
func (p *InfoPanel) Draw() PanelAction {
	if !p.visible || p.item == nil {
		return PanelNone
	}
	th := p.r.Theme
	rect := p.rect

	p.r.DrawCard(rect, th.CardBg)
	p.r.DrawCardOutline(rect)

	lines := CardLines(p.item, p.dir)
	colors := [3]rl.Color{th.CardTitle, th.CardByline, th.CardGenre}
	for i, l := range lines {
		p.r.DrawText(l, rect.X+th.Padding, rect.Y+th.Padding+float32(i)*th.LineHeight, colors[i])
	}

	buttonY := rect.Y + rect.Height - th.Padding - th.ButtonHeight
	closeBtn := rl.Rectangle{
		X:      rect.X + rect.Width - th.Padding - panelButtonWidth,
		Y:      buttonY,
		Width:  panelButtonWidth,
		Height: th.ButtonHeight,
	}

	action := PanelNone
	if p.item.HasLink() {
		openBtn := closeBtn
		openBtn.X -= panelButtonWidth + th.Padding
		if gui.Button(openBtn, "Open") {
			action = PanelOpen
		}
	}
	if gui.Button(closeBtn, "Close") {
		action = PanelClose
	}
	return action
}
