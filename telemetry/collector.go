// Package telemetry provides selection stats, activity counters, frame timing and CSV output.
package telemetry

import "log/slog"

// ActivityStats holds interaction and physics counters for one window.
type ActivityStats struct {
	WindowEnd  int32 `csv:"window_end"`
	Hovers     int   `csv:"hovers"`     // hover target changes
	Selections int   `csv:"selections"` // touch selections, filler included
	Clears     int   `csv:"clears"`
	Opens      int   `csv:"opens"`
	Rebuilds   int   `csv:"rebuilds"`
	Respawns   int   `csv:"respawns"`
	ZonePushes int   `csv:"zone_pushes"`
}

// Collector accumulates counters within fixed windows of frames.
type Collector struct {
	windowTicks     int32
	windowStartTick int32
	current         ActivityStats
}

// NewCollector creates a collector that closes a window every windowTicks frames.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordHover records a change of hover target.
func (c *Collector) RecordHover() { c.current.Hovers++ }

// RecordSelection records a touch selection.
func (c *Collector) RecordSelection() { c.current.Selections++ }

// RecordClear records a released selection.
func (c *Collector) RecordClear() { c.current.Clears++ }

// RecordOpen records an opened link.
func (c *Collector) RecordOpen() { c.current.Opens++ }

// RecordRebuild records a pool rebuild.
func (c *Collector) RecordRebuild() { c.current.Rebuilds++ }

// RecordStep adds the physics corrections of one frame.
func (c *Collector) RecordStep(respawned, zonePushes int) {
	c.current.Respawns += respawned
	c.current.ZonePushes += zonePushes
}

// ShouldFlush reports whether tick closes the current window.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush returns the finished window and starts the next one at tick.
func (c *Collector) Flush(tick int32) ActivityStats {
	out := c.current
	out.WindowEnd = tick
	c.current = ActivityStats{}
	c.windowStartTick = tick
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s ActivityStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEnd)),
		slog.Int("hovers", s.Hovers),
		slog.Int("selections", s.Selections),
		slog.Int("clears", s.Clears),
		slog.Int("opens", s.Opens),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("respawns", s.Respawns),
		slog.Int("zone_pushes", s.ZonePushes),
	)
}
