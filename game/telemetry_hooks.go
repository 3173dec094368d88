package game

import (
	"time"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/interaction"
	"github.com/kolloid-cable/drift/sampler"
	"github.com/kolloid-cable/drift/telemetry"
)

// setupOutput opens the CSV output directory and snapshots the config into it.
// Output problems are logged and disable output; they never stop the app.
func (g *Game) setupOutput(dir string) {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		g.logger.Error("failed to create output manager", "error", err)
		return
	}
	if om == nil {
		return
	}
	if err := om.WriteConfig(g.cfg); err != nil {
		g.logger.Error("failed to write config snapshot", "error", err)
	}
	g.output = om
	g.logger.Info("writing telemetry", "dir", om.Dir(), "run_id", om.RunID())
}

// recordSelection logs and stores the report of one sampling pass.
func (g *Game) recordSelection(generation uint64, rep sampler.Report, cached bool) {
	stats := telemetry.NewSelectionStats(g.output.RunID(), generation, cached, time.Now(), rep)
	if g.logStats {
		stats.LogStats(g.logger)
	}
	if g.output != nil {
		if err := g.output.WriteSelection(stats); err != nil {
			g.logger.Error("failed to write selection", "error", err)
		}
	}
}

// flushTelemetry closes the activity and perf windows when due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	activity := g.collector.Flush(g.tick)
	perfStats := g.perf.Stats()

	if g.logStats {
		g.logger.Info("activity", "stats", activity)
		g.logger.Info("perf", "stats", perfStats)
	}

	if g.output != nil {
		if err := g.output.WriteActivity(activity); err != nil {
			g.logger.Error("failed to write activity", "error", err)
		}
		if err := g.output.WritePerf(perfStats, g.tick, g.pool.Len()); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
}

// countingOpener counts successful opens.
type countingOpener struct {
	next      interaction.Opener
	collector *telemetry.Collector
}

func (o countingOpener) Open(url string) error {
	if err := o.next.Open(url); err != nil {
		return err
	}
	o.collector.RecordOpen()
	return nil
}

// activityListener counts selection changes before forwarding them to the panel.
type activityListener struct {
	next      interaction.Listener
	collector *telemetry.Collector
}

func (l activityListener) Selected(item *content.Item) {
	l.collector.RecordSelection()
	l.next.Selected(item)
}

func (l activityListener) Cleared() {
	l.collector.RecordClear()
	l.next.Cleared()
}
