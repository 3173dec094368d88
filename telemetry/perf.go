package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one section of a frame.
type Phase uint8

const (
	PhaseLoad    Phase = iota // links sync, loader poll, layout refresh
	PhaseInput                // modality detection and interaction events
	PhasePhysics              // integration, zone push-out and respawn
	PhaseOverlap              // relaxation passes
	PhaseDraw

	NumPhases = int(PhaseDraw) + 1
)

var phaseNames = [NumPhases]string{"load", "input", "physics", "overlap", "draw"}

func (p Phase) String() string {
	if int(p) < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases returns every phase in frame order.
func Phases() []Phase {
	out := make([]Phase, NumPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

type frameSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector times frames over a rolling window. A frame is bracketed by
// StartTick and EndTick; StartPhase switches the phase the clock is charged to.
type PerfCollector struct {
	budget time.Duration

	ring  []frameSample
	next  int
	count int

	cur        frameSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frameDur  time.Duration
}

// NewPerfCollector keeps the last window frames. Frames longer than budget are
// counted as slow; a zero budget disables the count.
func NewPerfCollector(window int, budget time.Duration) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		budget: budget,
		ring:   make([]frameSample, window),
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = frameSample{}
	p.inPhase = false
}

// StartPhase charges time from now on to phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = int(phase) < NumPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the frame and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a presented frame; the gap to the previous one gives FPS.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDur = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	Samples   int
	AvgTick   time.Duration
	P95Tick   time.Duration
	MaxTick   time.Duration
	SlowTicks int // frames over budget

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of the average frame

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Samples: p.count, FrameDuration: p.frameDur}
	if p.frameDur > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDur)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	for i := 0; i < p.count; i++ {
		f := p.ring[i]
		ticks[i] = float64(f.total)
		total += f.total
		s.MaxTick = max(s.MaxTick, f.total)
		if p.budget > 0 && f.total > p.budget {
			s.SlowTicks++
		}
		for ph, d := range f.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	sort.Float64s(ticks)
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("slow_ticks", s.SlowTicks),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd  int32   `csv:"window_end"`
	Particles  int     `csv:"particles"`
	Samples    int     `csv:"samples"`
	AvgTickUS  int64   `csv:"avg_tick_us"`
	P95TickUS  int64   `csv:"p95_tick_us"`
	MaxTickUS  int64   `csv:"max_tick_us"`
	SlowTicks  int     `csv:"slow_ticks"`
	FPS        float64 `csv:"fps"`
	LoadPct    float64 `csv:"load_pct"`
	InputPct   float64 `csv:"input_pct"`
	PhysicsPct float64 `csv:"physics_pct"`
	OverlapPct float64 `csv:"overlap_pct"`
	DrawPct    float64 `csv:"draw_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32, particles int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:  windowEnd,
		Particles:  particles,
		Samples:    s.Samples,
		AvgTickUS:  s.AvgTick.Microseconds(),
		P95TickUS:  s.P95Tick.Microseconds(),
		MaxTickUS:  s.MaxTick.Microseconds(),
		SlowTicks:  s.SlowTicks,
		FPS:        s.FPS,
		LoadPct:    s.PhasePct[PhaseLoad],
		InputPct:   s.PhasePct[PhaseInput],
		PhysicsPct: s.PhasePct[PhasePhysics],
		OverlapPct: s.PhasePct[PhaseOverlap],
		DrawPct:    s.PhasePct[PhaseDraw],
	}
}
