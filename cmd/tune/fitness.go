package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/sampler"
)

// Fitness component weights.
const (
	weightFill     = 2.0 // unfilled slots dominate
	weightEvenness = 1.0
	weightShare    = 0.5
	weightRecency  = 0.5
)

// FitnessEvaluator samples a fixed corpus under candidate parameters and scores the result.
type FitnessEvaluator struct {
	params     *ParamVector
	items      []content.Item
	seeds      []int64
	baseConfig *config.Config
	now        time.Time

	mu          sync.Mutex
	lastMetrics Metrics
}

// Metrics summarises one evaluation, averaged over seeds and density tiers.
type Metrics struct {
	Fill     float64 // final / achievable
	Evenness float64 // normalized contributor entropy of the final set
	MaxShare float64 // largest single-contributor share
	Recency  float64 // |recent share - new_ratio|
}

func (m Metrics) String() string {
	return fmt.Sprintf("fill=%.3f even=%.3f share=%.3f recency=%.3f", m.Fill, m.Evenness, m.MaxShare, m.Recency)
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, items []content.Item, seeds []int64, baseCfg *config.Config, now time.Time) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		items:      items,
		seeds:      seeds,
		baseConfig: baseCfg,
		now:        now,
	}
}

// LastMetrics returns the metrics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	results := make([]Metrics, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(&cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var avg Metrics
	for _, r := range results {
		avg.Fill += r.Fill
		avg.Evenness += r.Evenness
		avg.MaxShare += r.MaxShare
		avg.Recency += r.Recency
	}
	n := float64(len(results))
	avg.Fill /= n
	avg.Evenness /= n
	avg.MaxShare /= n
	avg.Recency /= n

	fe.mu.Lock()
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return computeFitness(avg)
}

// runSeed samples the corpus once per density tier.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed int64) Metrics {
	rng := rand.New(rand.NewSource(seed))
	var sum Metrics
	tiers := 0
	for _, tier := range cfg.Density {
		opts := sampler.OptionsFromConfig(cfg.Sampling, tier.Count)
		out, rep := sampler.Select(fe.items, opts, rng, fe.now)
		m := measure(out, rep, opts, fe.now)
		sum.Fill += m.Fill
		sum.Evenness += m.Evenness
		sum.MaxShare += m.MaxShare
		sum.Recency += m.Recency
		tiers++
	}
	if tiers == 0 {
		return Metrics{}
	}
	t := float64(tiers)
	return Metrics{
		Fill:     sum.Fill / t,
		Evenness: sum.Evenness / t,
		MaxShare: sum.MaxShare / t,
		Recency:  sum.Recency / t,
	}
}

// measure scores a single sampled set.
func measure(out []content.Item, rep sampler.Report, opts sampler.Options, now time.Time) Metrics {
	achievable := min(rep.Target, rep.Capped)
	if achievable == 0 || len(out) == 0 {
		return Metrics{Fill: 1, Evenness: 1}
	}

	m := Metrics{Fill: float64(len(out)) / float64(achievable)}

	counts := make([]float64, 0, len(rep.ContributorCounts))
	for _, n := range rep.ContributorCounts {
		counts = append(counts, float64(n))
	}
	total := floats.Sum(counts)
	m.MaxShare = floats.Max(counts) / total
	if len(counts) > 1 {
		p := make([]float64, len(counts))
		floats.ScaleTo(p, 1/total, counts)
		m.Evenness = stat.Entropy(p) / math.Log(float64(len(counts)))
	} else {
		m.Evenness = 1
	}

	cutoff := now.Add(-time.Duration(opts.RecentDays) * 24 * time.Hour)
	recent := 0
	for _, it := range out {
		if t := it.UpdatedTime(); !t.IsZero() && !t.Before(cutoff) {
			recent++
		}
	}
	m.Recency = math.Abs(float64(recent)/float64(len(out)) - opts.NewRatio)
	return m
}

// computeFitness combines metrics into a scalar (lower = better).
func computeFitness(m Metrics) float64 {
	return weightFill*(1-m.Fill) +
		weightEvenness*(1-m.Evenness) +
		weightShare*m.MaxShare +
		weightRecency*m.Recency
}
