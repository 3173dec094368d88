package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/telemetry"
	"github.com/kolloid-cable/drift/ui"
)

// Draw renders the frame: background, particles, header, then the hover card or
// info panel and the debug overlays.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	g.background.Draw()

	outlined, hasOutline := g.machine.Frozen()
	g.particles.Draw(g.pool, outlined, hasOutline)

	if g.header.Draw(g.links.Enabled()) {
		on := g.links.Toggle()
		g.logger.Info("links toggled", "enabled", on, "source", "header")
	}

	g.drawFocus()
	g.drawDebug()

	rl.EndDrawing()

	g.perf.RecordFrame()
	g.endFrame()
}

// drawFocus shows the hovered item's card in pointer mode, or the selected
// item's panel in touch mode.
func (g *Game) drawFocus() {
	if !g.links.Enabled() {
		return
	}
	switch g.machine.Modality() {
	case device.Pointer:
		if _, ok := g.machine.Hovered(); ok {
			g.card.Draw(g.machine.Focus(), g.mouseX, g.mouseY, g.width, g.height)
		}
	case device.Touch:
		switch g.panel.Draw() {
		case ui.PanelOpen:
			g.machine.Confirm()
		case ui.PanelClose:
			g.machine.Clear()
		}
	}
}

func (g *Game) drawDebug() {
	if e, ok := g.focusEntity(); ok {
		title := fmt.Sprintf("particle %d", e.ID())
		if g.pool.Item(e) == nil {
			title += " (filler)"
		}
		g.inspector.Draw(title, g.pool.Components(e))
	}

	if g.hud.Visible() {
		g.hud.Draw(ui.HUDData{
			Generation: g.field.Generation(),
			Particles:  g.pool.Len(),
			Bound:      g.pool.BoundCount(),
			Pending:    g.field.Pending(),
			Links:      g.links.Enabled(),
			Modality:   g.machine.Modality().String(),
			State:      g.machine.State().String(),
			Perf:       g.perf.Stats(),
		}, g.height)
	}
}
