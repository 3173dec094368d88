package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/interaction"
)

// handleKeys processes keyboard shortcuts.
func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		on := g.links.Toggle()
		g.logger.Info("links toggled", "enabled", on, "source", "keyboard")
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.hud.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		g.inspector.Toggle()
	}
}

// handleResize checks for window resize and rebuilds for the new size.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

// handlePointer classifies this frame's input and feeds the interaction machine.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	delta := rl.GetMouseDelta()
	touches := int(rl.GetTouchPointCount())

	g.tracker.Observe(touches, delta.X != 0 || delta.Y != 0)
	modality := g.tracker.Current()
	g.machine.Sync(modality)
	g.placePanel()

	switch modality {
	case device.Pointer:
		g.mouseX, g.mouseY = mouse.X, mouse.Y
		// Particles drift under a still cursor, so hover is refreshed every frame
		g.machine.PointerMove(mouse.X, mouse.Y)
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			g.machine.PointerClick(mouse.X, mouse.Y)
		}
	case device.Touch:
		// raylib reports the first touch of a gesture as a left press
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			at := mouse
			if touches > 0 {
				at = rl.GetTouchPosition(0)
			}
			if !g.machine.Tap(at.X, at.Y) {
				g.logger.Debug("tap passed through", "x", at.X, "y", at.Y)
			}
		}
	}

	g.trackHover()
	g.applyCursor()
}

// placePanel anchors the info panel at the selected particle.
func (g *Game) placePanel() {
	e, ok := g.machine.Selected()
	if !ok {
		return
	}
	x, y, ok := g.pool.Position(e)
	if !ok {
		return
	}
	var measure func(string) float32
	if g.face != nil {
		measure = g.ui.Measure
	}
	g.panel.Place(x, y, g.width, g.height, measure)
}

// trackHover counts hover starts for the activity log.
func (g *Game) trackHover() {
	e, ok := g.machine.Hovered()
	if !ok {
		g.lastHover = 0
		return
	}
	if id := e.ID(); id != g.lastHover {
		g.lastHover = id
		g.collector.RecordHover()
	}
}

func (g *Game) applyCursor() {
	if g.machine.Cursor() == interaction.CursorPointer {
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

// focusEntity returns the selected particle, else the hovered one.
func (g *Game) focusEntity() (ecs.Entity, bool) {
	if e, ok := g.machine.Selected(); ok {
		return e, true
	}
	return g.machine.Hovered()
}
