package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kolloid-cable/drift/sampler"
)

// SelectionStats summarises one sampling pass.
type SelectionStats struct {
	RunID      string    `csv:"run_id"`
	Generation uint64    `csv:"generation"`
	At         time.Time `csv:"-"`
	Timestamp  string    `csv:"timestamp"`
	Cached     bool      `csv:"cached"`

	Target       int  `csv:"target"`
	Valid        int  `csv:"valid"`
	Capped       int  `csv:"capped"`
	Contributors int  `csv:"contributors"`
	NewPool      int  `csv:"new_pool"`
	FallbackPool bool `csv:"fallback_pool"`
	NewPicked    int  `csv:"new_picked"`
	RandomTarget int  `csv:"random_target"`
	RandomPicked int  `csv:"random_picked"`
	AutoCap      int  `csv:"auto_cap"`
	RelaxRounds  int  `csv:"relax_rounds"`
	Final        int  `csv:"final"`
	Shortfall    int  `csv:"shortfall"`

	// Per-contributor picks across the final set
	Represented int     `csv:"represented"`
	CountMean   float64 `csv:"count_mean"`
	CountStd    float64 `csv:"count_std"`
	CountP50    float64 `csv:"count_p50"`
	CountP90    float64 `csv:"count_p90"`
	CountMax    float64 `csv:"count_max"`
}

// NewSelectionStats derives stats from a sampler report.
func NewSelectionStats(runID string, generation uint64, cached bool, at time.Time, rep sampler.Report) SelectionStats {
	s := SelectionStats{
		RunID:        runID,
		Generation:   generation,
		At:           at,
		Timestamp:    at.UTC().Format(time.RFC3339),
		Cached:       cached,
		Target:       rep.Target,
		Valid:        rep.Valid,
		Capped:       rep.Capped,
		Contributors: rep.Contributors,
		NewPool:      rep.NewPool,
		FallbackPool: rep.FallbackPool,
		NewPicked:    rep.NewPicked,
		RandomTarget: rep.RandomTarget,
		RandomPicked: rep.RandomPicked,
		AutoCap:      rep.AutoCap,
		RelaxRounds:  rep.RelaxRounds,
		Final:        rep.Final,
		Shortfall:    max(0, rep.Target-rep.Final),
	}

	counts := make([]float64, 0, len(rep.ContributorCounts))
	for _, n := range rep.ContributorCounts {
		counts = append(counts, float64(n))
	}
	s.Represented = len(counts)
	s.CountMean, s.CountStd, s.CountP50, s.CountP90, s.CountMax = ComputeCountStats(counts)
	return s
}

// ComputeCountStats returns mean, standard deviation, median, p90 and max of values.
func ComputeCountStats(values []float64) (mean, std, p50, p90, maxVal float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	maxVal = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p50, p90, maxVal
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s SelectionStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("generation", s.Generation),
		slog.Bool("cached", s.Cached),
		slog.Int("target", s.Target),
		slog.Int("valid", s.Valid),
		slog.Int("capped", s.Capped),
		slog.Int("contributors", s.Contributors),
		slog.Int("new_pool", s.NewPool),
		slog.Bool("fallback_pool", s.FallbackPool),
		slog.Int("new_picked", s.NewPicked),
		slog.Int("random_picked", s.RandomPicked),
		slog.Int("auto_cap", s.AutoCap),
		slog.Int("relax_rounds", s.RelaxRounds),
		slog.Int("final", s.Final),
		slog.Int("shortfall", s.Shortfall),
		slog.Float64("count_mean", s.CountMean),
		slog.Float64("count_std", s.CountStd),
		slog.Float64("count_max", s.CountMax),
	)
}

// LogStats logs the selection stats using slog.
func (s SelectionStats) LogStats(logger *slog.Logger) {
	logger.Info("selection", "stats", s)
}
