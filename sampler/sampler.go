// Package sampler reduces a merged item list to a fixed-size, fairness-balanced display set.
//
// A pass reserves a share of the slots for recently updated items and fills the rest at
// random under a per-contributor ceiling derived from the number of slots and the number
// of distinct contributors. When the ceiling leaves slots empty it is relaxed step by step
// so that only true data exhaustion yields a short result.
package sampler

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
)

// Options controls a sampling pass.
type Options struct {
	TotalCount             int
	NewRatio               float64
	RecentDays             int
	InstagramPerAccountCap int
	FallbackRatio          float64
	CapMin                 int
	CapMax                 int
	RelaxSteps             []int
}

// DefaultOptions returns the stock parameters for the given target size.
func DefaultOptions(totalCount int) Options {
	return Options{
		TotalCount:             totalCount,
		NewRatio:               0.3,
		RecentDays:             30,
		InstagramPerAccountCap: 12,
		FallbackRatio:          0.5,
		CapMin:                 2,
		CapMax:                 5,
		RelaxSteps:             []int{1, 2, 9999},
	}
}

// OptionsFromConfig builds options from the sampling config section.
func OptionsFromConfig(cfg config.SamplingConfig, totalCount int) Options {
	return Options{
		TotalCount:             totalCount,
		NewRatio:               cfg.NewRatio,
		RecentDays:             cfg.RecentDays,
		InstagramPerAccountCap: cfg.InstagramPerAccountCap,
		FallbackRatio:          cfg.FallbackRatio,
		CapMin:                 cfg.CapMin,
		CapMax:                 cfg.CapMax,
		RelaxSteps:             cfg.RelaxSteps,
	}
}

// Report describes how a pass filled its slots.
type Report struct {
	Target            int  // requested size
	Valid             int  // items left after validation and dedup
	Capped            int  // items left after the per-account cap
	Contributors      int  // distinct contributors among capped items (min 1)
	NewPool           int  // candidates for the recency slice
	FallbackPool      bool // no item was recent; newest items were used instead
	NewPicked         int
	RandomTarget      int
	RandomPicked      int
	AutoCap           int
	RelaxRounds       int // relaxation rounds that ran
	Final             int
	ContributorCounts map[string]int // picks per contributor across the whole set
	RandomCounts      map[string]int // picks per contributor in the random slice
}

// SelectItems returns the sampled set for items.
func SelectItems(items []content.Item, opts Options, rng *rand.Rand, now time.Time) []content.Item {
	out, _ := Select(items, opts, rng, now)
	return out
}

// Select is SelectItems plus a report of the pass.
func Select(items []content.Item, opts Options, rng *rand.Rand, now time.Time) ([]content.Item, Report) {
	rep := Report{Target: opts.TotalCount}

	valid := content.Dedup(content.Validate(items))
	rep.Valid = len(valid)
	if len(valid) == 0 || opts.TotalCount <= 0 {
		return []content.Item{}, rep
	}

	pool := capPerAccount(valid, opts.InstagramPerAccountCap)
	rep.Capped = len(pool)
	rep.Contributors = countContributors(pool)

	// Recency slice
	newPool := recentItems(pool, now.Add(-time.Duration(opts.RecentDays)*24*time.Hour))
	if len(newPool) == 0 {
		rep.FallbackPool = true
		newPool = newestItems(pool, int(math.Ceil(float64(opts.TotalCount)*opts.FallbackRatio)))
	}
	rep.NewPool = len(newPool)

	newCount := min(len(newPool), int(math.Round(float64(opts.TotalCount)*opts.NewRatio)))
	newPicked := shuffle(rng, append([]content.Item(nil), newPool...))[:newCount]
	rep.NewPicked = len(newPicked)

	picked := keySet(newPicked)
	remaining := without(pool, picked)

	// Random slice under the contributor ceiling
	randomCount := max(0, opts.TotalCount-len(newPicked))
	rep.RandomTarget = randomCount
	autoCap := clampInt(randomCount/rep.Contributors, opts.CapMin, opts.CapMax)
	rep.AutoCap = autoCap

	counts := make(map[string]int)
	randomPicked := pickWithCap(rng, remaining, randomCount, autoCap, counts)

	for _, extra := range opts.RelaxSteps {
		if len(randomPicked) >= randomCount {
			break
		}
		rep.RelaxRounds++
		rest := without(remaining, keySet(randomPicked))
		more := pickWithCap(rng, rest, randomCount-len(randomPicked), autoCap+extra, counts)
		randomPicked = append(randomPicked, more...)
	}
	rep.RandomPicked = len(randomPicked)
	rep.RandomCounts = counts

	final := make([]content.Item, 0, len(newPicked)+len(randomPicked))
	final = append(final, newPicked...)
	final = append(final, randomPicked...)
	shuffle(rng, final)

	rep.Final = len(final)
	rep.ContributorCounts = make(map[string]int)
	for _, it := range final {
		rep.ContributorCounts[it.Contributor]++
	}
	return final, rep
}

// capPerAccount keeps at most limit Instagram items per account, newest first.
// Other items pass through uncapped and come first.
func capPerAccount(items []content.Item, limit int) []content.Item {
	var out []content.Item
	groups := make(map[string][]content.Item)
	var order []string

	for _, it := range items {
		if !it.IsInstagram() {
			out = append(out, it)
			continue
		}
		key := it.AccountKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	for _, key := range order {
		group := sortNewest(groups[key])
		if len(group) > limit {
			group = group[:max(limit, 0)]
		}
		out = append(out, group...)
	}
	return out
}

func countContributors(items []content.Item) int {
	seen := make(map[string]struct{})
	for _, it := range items {
		seen[it.Contributor] = struct{}{}
	}
	return max(len(seen), 1)
}

// recentItems returns items updated at or after cutoff. Items without a timestamp never qualify.
func recentItems(items []content.Item, cutoff time.Time) []content.Item {
	var out []content.Item
	for _, it := range items {
		t := it.UpdatedTime()
		if !t.IsZero() && !t.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// newestItems returns the n most recently updated items; untimestamped items rank last.
func newestItems(items []content.Item, n int) []content.Item {
	sorted := sortNewest(append([]content.Item(nil), items...))
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:max(n, 0)]
}

func sortNewest(items []content.Item) []content.Item {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortKey() > items[j].SortKey()
	})
	return items
}

// pickWithCap shuffles candidates and greedily takes up to want items, skipping any
// contributor whose count has reached limit. counts carries over between calls.
func pickWithCap(rng *rand.Rand, candidates []content.Item, want, limit int, counts map[string]int) []content.Item {
	var out []content.Item
	for _, it := range shuffle(rng, append([]content.Item(nil), candidates...)) {
		if len(out) >= want {
			break
		}
		if counts[it.Contributor] >= limit {
			continue
		}
		counts[it.Contributor]++
		out = append(out, it)
	}
	return out
}

// shuffle is an in-place Fisher-Yates shuffle driven by rng.
func shuffle(rng *rand.Rand, items []content.Item) []content.Item {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}

func keySet(items []content.Item) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it.Key()] = struct{}{}
	}
	return set
}

func without(items []content.Item, exclude map[string]struct{}) []content.Item {
	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		if _, ok := exclude[it.Key()]; !ok {
			out = append(out, it)
		}
	}
	return out
}

func clampInt(x, lo, hi int) int {
	return max(lo, min(hi, x))
}
