// Package loader fetches items off the render thread and hands results back by generation.
package loader

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kolloid-cable/drift/content"
)

// FetchFunc loads the merged item list. It must honour ctx and never fail:
// unreachable sources contribute nothing.
type FetchFunc func(ctx context.Context) []content.Item

// Result is one completed fetch.
type Result struct {
	Generation uint64
	Items      []content.Item
	Cached     bool // served from the last fetch because refetching was rate limited
	Elapsed    time.Duration
	Err        error // context error when the fetch was cut short
}

// Options configures a Loader.
type Options struct {
	Timeout      time.Duration // per fetch; 0 means no timeout
	RefetchEvery time.Duration // minimum spacing of network fetches; 0 disables limiting
	RefetchBurst int
	Logger       *slog.Logger
}

// Loader runs fetches in the background. Request and Poll are called from the
// render thread; only Poll delivers results, so pool state is never touched concurrently.
type Loader struct {
	fetch   FetchFunc
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	results chan Result

	mu         sync.Mutex
	latest     uint64
	cancelPrev context.CancelFunc
	last       []content.Item
	haveLast   bool
}

// New creates a loader around fetch.
func New(fetch FetchFunc, opts Options) *Loader {
	limit := rate.Inf
	if opts.RefetchEvery > 0 {
		limit = rate.Every(opts.RefetchEvery)
	}
	burst := opts.RefetchBurst
	if burst < 1 {
		burst = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetch:   fetch,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 8),
	}
}

// Request asks for items for generation gen. Any in-flight fetch for an older
// generation is cancelled. When refetching is rate limited and a previous fetch
// succeeded, its items are delivered straight away instead.
func (l *Loader) Request(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx.Err() != nil {
		return
	}
	l.latest = gen
	if l.cancelPrev != nil {
		l.cancelPrev()
		l.cancelPrev = nil
	}

	// Every request spends a token, so a storm of rebuilds is throttled from the start
	allowed := l.limiter.Allow()
	if l.haveLast && !allowed {
		l.logger.Debug("refetch rate limited, reusing items", "generation", gen, "items", len(l.last))
		l.deliver(Result{Generation: gen, Items: l.last, Cached: true})
		return
	}

	ctx := l.ctx
	var cancel context.CancelFunc
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	l.cancelPrev = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		start := time.Now()
		items := l.fetch(ctx)
		res := Result{Generation: gen, Items: items, Elapsed: time.Since(start), Err: ctx.Err()}

		// Superseded or closed: nobody is waiting for this generation
		if errors.Is(res.Err, context.Canceled) {
			return
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		// A timed-out merge still carries whatever sources answered in time
		l.last = items
		l.haveLast = true
		l.deliver(res)
	}()
}

// deliver queues a result without blocking. Caller holds mu.
func (l *Loader) deliver(res Result) {
	if l.ctx.Err() != nil {
		return
	}
	select {
	case l.results <- res:
	default:
		// The queue only overflows with stale results; drop the oldest.
		select {
		case <-l.results:
		default:
		}
		select {
		case l.results <- res:
		default:
		}
	}
}

// Poll returns the newest result for the latest requested generation, if one
// has arrived. Results for older generations are discarded.
func (l *Loader) Poll() (Result, bool) {
	l.mu.Lock()
	latest := l.latest
	l.mu.Unlock()

	var out Result
	found := false
	for {
		select {
		case res := <-l.results:
			if res.Generation < latest {
				l.logger.Debug("dropping stale fetch", "generation", res.Generation, "latest", latest)
				continue
			}
			out, found = res, true
		default:
			return out, found
		}
	}
}

// Wait blocks until a result for the latest requested generation arrives or ctx
// is done. Headless runs use it to start from real items.
func (l *Loader) Wait(ctx context.Context) (Result, bool) {
	for {
		select {
		case <-ctx.Done():
			return Result{}, false
		case res := <-l.results:
			if res.Generation < l.Latest() {
				continue
			}
			return res, true
		}
	}
}

// Latest returns the most recently requested generation.
func (l *Loader) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// Close cancels in-flight fetches and waits for them to return.
func (l *Loader) Close() {
	l.mu.Lock()
	l.cancel()
	l.mu.Unlock()
	l.wg.Wait()
}
