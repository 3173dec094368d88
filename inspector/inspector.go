// Package inspector renders a debug panel listing the live ECS components of the
// focused particle, driven by `inspect` struct tags.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 230}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector is a toggleable panel in the top-right corner, below the header.
type Inspector struct {
	visible     bool
	panelX      int32
	panelY      int32
	screenWidth int32
}

// NewInspector creates a hidden inspector. top is the first free row below the header.
func NewInspector(screenWidth, top int32) *Inspector {
	ins := &Inspector{panelY: top + 10}
	ins.Resize(screenWidth)
	return ins
}

// Toggle switches visibility.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is drawn.
func (ins *Inspector) Visible() bool { return ins.visible }

// Resize re-anchors the panel to the right edge.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.screenWidth = screenWidth
	ins.panelX = screenWidth - PanelWidth - 10
}

// Layout groups fields by component, in the order given.
func Layout(components []any) [][]Field {
	var groups [][]Field
	for _, c := range components {
		if fields := ExtractFields(c); len(fields) > 0 {
			groups = append(groups, fields)
		}
	}
	return groups
}

// PanelHeight returns the height needed for groups.
func PanelHeight(groups [][]Field) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, g := range groups {
		h += 20 + int32(len(g))*18 + 4
	}
	return h + PanelPadding
}

// Draw renders the panel for the focused particle. title names the particle;
// components are pointers to its live component values. Nothing is drawn while
// hidden or when there is no focus.
func (ins *Inspector) Draw(title string, components []any) {
	if !ins.visible || len(components) == 0 {
		return
	}
	groups := Layout(components)
	height := PanelHeight(groups)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, g := range groups {
		rl.DrawText(g[0].Component, x, y, 14, ColorSectionText)
		y += 20
		for _, f := range g {
			y += DrawField(x+8, y, f)
		}
		y += 4
	}
}
