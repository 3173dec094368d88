package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseOverlap)
		time.Sleep(400 * time.Microsecond)
		pc.EndTick()
	}

	s := pc.Stats()
	assert.Equal(t, 5, s.Samples)
	assert.True(t, s.AvgTick > 0)
	assert.True(t, s.PhaseAvg[PhasePhysics] > 0)
	assert.Greater(t, s.PhasePct[PhaseOverlap], s.PhasePct[PhasePhysics])
	assert.Zero(t, s.PhaseAvg[PhaseDraw])
	assert.True(t, s.P95Tick <= s.MaxTick, "p95 %s above max %s", s.P95Tick, s.MaxTick)
	assert.Zero(t, s.SlowTicks, "no budget, no slow ticks")
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5, time.Nanosecond)

	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLoad)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	s := pc.Stats()
	assert.Equal(t, 5, s.Samples)
	assert.Equal(t, 5, s.SlowTicks, "every frame exceeds a 1ns budget")
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(10, time.Second/30).Stats()
	assert.Zero(t, s.Samples)
	assert.Zero(t, s.AvgTick)
	assert.Zero(t, s.FPS)
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	assert.True(t, s.FrameDuration >= 15*time.Millisecond, "frame %s", s.FrameDuration)
	assert.Greater(t, s.FPS, 0.0)
	assert.Less(t, s.FPS, 70.0)
}

func TestPhaseNames(t *testing.T) {
	var names []string
	for _, ph := range Phases() {
		names = append(names, ph.String())
	}
	assert.Equal(t, []string{"load", "input", "physics", "overlap", "draw"}, names)
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTick = 2 * time.Millisecond
	s.P95Tick = 3 * time.Millisecond
	s.SlowTicks = 4
	s.PhasePct[PhasePhysics] = 40
	s.PhasePct[PhaseDraw] = 55

	row := s.ToCSV(300, 56)
	require.Equal(t, int32(300), row.WindowEnd)
	assert.Equal(t, 56, row.Particles)
	assert.Equal(t, int64(2000), row.AvgTickUS)
	assert.Equal(t, int64(3000), row.P95TickUS)
	assert.Equal(t, 4, row.SlowTicks)
	assert.Equal(t, 40.0, row.PhysicsPct)
	assert.Equal(t, 55.0, row.DrawPct)
	assert.Zero(t, row.OverlapPct)
}
