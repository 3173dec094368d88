package game

import "github.com/kolloid-cable/drift/telemetry"

// Update runs one frame of the windowed app: layout and loading, physics, then
// input. Draw must follow.
func (g *Game) Update() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseLoad)
	g.handleKeys()
	g.handleResize()
	g.field.SyncLinks()
	g.field.Poll()
	g.refreshLayout()

	g.step()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handlePointer()
}

// UpdateHeadless runs one frame without a window or input.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseLoad)
	g.field.SyncLinks()
	g.field.Poll()
	g.refreshLayout()

	g.machine.Sync(g.tracker.Current())
	g.step()

	g.endFrame()
}

// refreshLayout re-reads the header rectangle every few frames.
func (g *Game) refreshLayout() {
	every := int32(g.cfg.Layout.HeaderRefreshTicks)
	if every <= 0 || g.tick%every == 0 {
		g.header.Refresh(g.width)
	}
}

// step advances the particles by one tick.
func (g *Game) step() {
	g.perf.StartPhase(telemetry.PhasePhysics)
	frozen, hasFrozen := g.machine.Frozen()
	stats := g.pool.Integrate(g.header.Rect(), frozen, hasFrozen)
	g.collector.RecordStep(stats.Respawned, stats.ZonePushes)

	g.perf.StartPhase(telemetry.PhaseOverlap)
	g.pool.Relax()
}

// endFrame closes the frame's timing and flushes telemetry windows.
func (g *Game) endFrame() {
	g.perf.EndTick()
	g.tick++
	g.flushTelemetry()
}
