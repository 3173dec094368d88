package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/telemetry"
)

// HUDData holds everything the debug HUD shows for one frame.
type HUDData struct {
	Generation uint64
	Particles  int
	Bound      int
	Pending    bool // a fetch for the current generation is still running
	Links      bool
	Modality   string
	State      string
	Perf       telemetry.PerfStats
}

// HUD is the debug overlay in the bottom-left corner, hidden by default.
type HUD struct {
	r       *Renderer
	visible bool
}

// NewHUD creates a hidden HUD.
func NewHUD(r *Renderer) *HUD {
	return &HUD{r: r}
}

// Toggle switches visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Visible reports whether the HUD is shown.
func (h *HUD) Visible() bool { return h.visible }

// StatusLines returns the text rows above the phase table.
func StatusLines(d HUDData) []string {
	load := "ready"
	if d.Pending {
		load = "loading"
	}
	return []string{
		fmt.Sprintf("gen %d  %s  fps %.0f", d.Generation, load, d.Perf.FPS),
		fmt.Sprintf("particles %d (%d bound)", d.Particles, d.Bound),
		fmt.Sprintf("%s  %s  links %t", d.Modality, d.State, d.Links),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(d HUDData, screenH float32) {
	if !h.visible {
		return
	}
	const (
		width    = 260
		fontSize = 12
		rowH     = 14
	)
	status := StatusLines(d)
	phases := telemetry.Phases()
	height := float32(len(status)+len(phases)+1)*rowH + h.r.Theme.Padding*2
	x := h.r.Theme.Padding
	y := screenH - height - h.r.Theme.Padding

	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: width, Height: height}, h.r.Theme.HUDBg)

	tx := int32(x + h.r.Theme.Padding)
	ty := int32(y + h.r.Theme.Padding)
	for _, line := range status {
		rl.DrawText(line, tx, ty, fontSize, rl.White)
		ty += rowH
	}

	rl.DrawText(fmt.Sprintf("tick %s  p95 %s  slow %d", d.Perf.AvgTick.Round(time.Microsecond), d.Perf.P95Tick.Round(time.Microsecond), d.Perf.SlowTicks), tx, ty, fontSize, rl.Yellow)
	ty += rowH

	for _, ph := range phases {
		avg := d.Perf.PhaseAvg[ph]
		pct := d.Perf.PhasePct[ph]

		color := h.r.Theme.HUDText
		if pct > 50 {
			color = h.r.Theme.HUDHot
		} else if pct > 25 {
			color = h.r.Theme.HUDWarm
		}
		rl.DrawText(fmt.Sprintf("%-8s %8s %5.1f%%", ph, avg.Round(time.Microsecond), pct), tx, ty, fontSize, color)
		ty += rowH
	}
}
