// Package field owns the lifecycle of the particle pool: generations, background
// loading and the rebuild policy shared by the window and terminal frontends.
//
// Every rebuild starts a new generation. With links on, the pool is sampled from
// the newest known items at once and a fetch is requested; a fetch result is only
// applied while its generation is current. With links off the pool is filler only.
package field

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/loader"
	"github.com/kolloid-cable/drift/modeflag"
	"github.com/kolloid-cable/drift/pool"
	"github.com/kolloid-cable/drift/sampler"
	"github.com/kolloid-cable/drift/sources"
	"github.com/kolloid-cable/drift/systems"
)

// Hooks are called synchronously from the goroutine driving the Field.
type Hooks struct {
	// Sampled receives the report of every sampling pass.
	Sampled func(generation uint64, rep sampler.Report, cached bool)
	// Rebuilt is called once the new pool is in place. selected holds the
	// items bound to particles.
	Rebuilt func(p *pool.Pool, selected []content.Item)
}

// Options configures a Field.
type Options struct {
	Config        *config.Config
	RNG           *rand.Rand
	Probe         device.Probe
	Links         *modeflag.Flag
	Fetch         loader.FetchFunc
	Width, Height float32
	Hooks         Hooks
	Logger        *slog.Logger
}

// Field holds the current pool and decides when to replace it.
type Field struct {
	cfg    *config.Config
	rng    *rand.Rand
	probe  device.Probe
	hooks  Hooks
	logger *slog.Logger

	links        *modeflag.Flag
	linksVersion uint64
	loader       *loader.Loader

	width, height float32

	generation uint64
	pool       *pool.Pool
	lastItems  []content.Item // newest non-empty fetch
	usedItems  []content.Item // items the current pool was sampled from
	pending    bool           // a fetch for the current generation is outstanding
}

// New creates a field and its loader. No pool exists until Start.
func New(opts Options) *Field {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	links := opts.Links
	if links == nil {
		links = modeflag.New(true)
	}
	probe := opts.Probe
	if probe == nil {
		probe = device.Fixed(device.Pointer)
	}
	cfg := opts.Config

	return &Field{
		cfg:          cfg,
		rng:          opts.RNG,
		probe:        probe,
		hooks:        opts.Hooks,
		logger:       logger,
		links:        links,
		linksVersion: links.Version(),
		loader: loader.New(opts.Fetch, loader.Options{
			Timeout:      cfg.Loader.Timeout,
			RefetchEvery: cfg.Loader.RefetchEvery,
			RefetchBurst: cfg.Loader.RefetchBurst,
			Logger:       logger,
		}),
		width:  opts.Width,
		height: opts.Height,
	}
}

// NewFetcher opens every source URI on each fetch and merges them. URIs that
// cannot be opened are skipped, so a bad entry never blocks the others.
func NewFetcher(uris []string, opts sources.Options, limit int, logger *slog.Logger) loader.FetchFunc {
	return func(ctx context.Context) []content.Item {
		srcs := make([]sources.Source, 0, len(uris))
		for _, uri := range uris {
			src, err := sources.Open(ctx, uri, opts)
			if err != nil {
				logger.Warn("skipping source", "uri", uri, "error", err)
				continue
			}
			srcs = append(srcs, src)
		}
		return sources.Merge(ctx, logger, limit, srcs...)
	}
}

// Start builds the first pool.
func (f *Field) Start() {
	f.Rebuild("startup")
}

// Rebuild starts a new generation.
func (f *Field) Rebuild(reason string) {
	f.generation++

	var items []content.Item
	if f.links.Enabled() {
		items = f.lastItems
		f.pending = true
		f.loader.Request(f.generation)
	} else {
		f.pending = false
	}
	f.build(items, true, reason)
}

// build replaces the pool for the current generation.
func (f *Field) build(items []content.Item, cached bool, reason string) {
	target := f.cfg.TargetCount(int(f.width))

	var selected []content.Item
	if len(items) > 0 {
		var rep sampler.Report
		selected, rep = sampler.Select(items, sampler.OptionsFromConfig(f.cfg.Sampling, target), f.rng, time.Now())
		if f.hooks.Sampled != nil {
			f.hooks.Sampled(f.generation, rep, cached)
		}
	}

	f.pool = pool.New(pool.Options{
		Config:     f.cfg,
		Items:      selected,
		Target:     target,
		Bounds:     systems.Bounds{Width: f.width, Height: f.height},
		RNG:        f.rng,
		Probe:      f.probe,
		Generation: f.generation,
	})
	f.usedItems = items
	if f.hooks.Rebuilt != nil {
		f.hooks.Rebuilt(f.pool, selected)
	}

	f.logger.Info("pool rebuilt",
		"generation", f.generation,
		"reason", reason,
		"particles", f.pool.Len(),
		"bound", f.pool.BoundCount(),
		"links", f.links.Enabled(),
	)
}

// Apply takes a fetch result. It reports whether the pool was replaced, which
// only happens when the result is current and its item set differs from the
// one already on screen.
func (f *Field) Apply(res loader.Result) bool {
	if res.Generation != f.generation || !f.links.Enabled() {
		return false
	}
	f.pending = false

	attrs := []any{
		"generation", res.Generation,
		"items", len(res.Items),
		"cached", res.Cached,
		"elapsed", res.Elapsed,
	}
	if res.Err != nil {
		f.logger.Warn("fetch cut short", append(attrs, "error", res.Err)...)
	} else {
		f.logger.Info("items loaded", attrs...)
	}

	// An empty fetch keeps whatever is showing
	if len(res.Items) == 0 {
		return false
	}
	f.lastItems = res.Items
	if sameKeys(res.Items, f.usedItems) {
		return false
	}
	f.build(res.Items, res.Cached, "items")
	return true
}

// Poll applies the newest fetch result, if any.
func (f *Field) Poll() bool {
	if res, ok := f.loader.Poll(); ok {
		return f.Apply(res)
	}
	return false
}

// Wait blocks until the outstanding fetch completes or timeout passes.
// It reports whether a result arrived.
func (f *Field) Wait(timeout time.Duration) bool {
	if !f.pending {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, ok := f.loader.Wait(ctx)
	if !ok {
		f.logger.Warn("no items before deadline, continuing with filler", "timeout", timeout)
		return false
	}
	f.Apply(res)
	return true
}

// Resize adopts a new canvas size and rebuilds for it. It reports whether the
// size changed.
func (f *Field) Resize(w, h float32) bool {
	if w == f.width && h == f.height {
		return false
	}
	f.width, f.height = w, h
	f.Rebuild("resize")
	return true
}

// SyncLinks rebuilds when the links switch changed since the last call.
func (f *Field) SyncLinks() bool {
	v := f.links.Version()
	if v == f.linksVersion {
		return false
	}
	f.linksVersion = v
	f.Rebuild("links")
	return true
}

// Pool returns the current pool.
func (f *Field) Pool() *pool.Pool { return f.pool }

// Generation returns the current generation.
func (f *Field) Generation() uint64 { return f.generation }

// Pending reports whether a fetch for the current generation is outstanding.
func (f *Field) Pending() bool { return f.pending }

// Links returns the links switch.
func (f *Field) Links() *modeflag.Flag { return f.links }

// Size returns the canvas size.
func (f *Field) Size() (w, h float32) { return f.width, f.height }

// Close stops background loading.
func (f *Field) Close() {
	f.loader.Close()
}

// sameKeys reports whether a and b hold the same item keys in the same order.
func sameKeys(a, b []content.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}
