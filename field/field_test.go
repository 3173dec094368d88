package field

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/loader"
	"github.com/kolloid-cable/drift/modeflag"
	"github.com/kolloid-cable/drift/pool"
	"github.com/kolloid-cable/drift/sampler"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testItems(n, perContributor int) []content.Item {
	now := time.Now()
	var items []content.Item
	for c := 0; c < n; c++ {
		for i := 0; i < perContributor; i++ {
			items = append(items, content.Item{
				ID:          fmt.Sprintf("c%d-%d", c, i),
				Link:        fmt.Sprintf("https://example.com/c%d/%d", c, i),
				Title:       fmt.Sprintf("post %d", i),
				Contributor: fmt.Sprintf("c%d", c),
				UpdatedAt:   now.AddDate(0, 0, -i).Format(time.RFC3339),
			})
		}
	}
	return items
}

type recorder struct {
	rebuilds int
	sampled  []uint64
	last     *pool.Pool
}

func newTestField(t *testing.T, items []content.Item, links bool) (*Field, *recorder, *atomic.Int32) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	calls := &atomic.Int32{}
	rec := &recorder{}
	f := New(Options{
		Config: cfg,
		RNG:    rand.New(rand.NewSource(1)),
		Links:  modeflag.New(links),
		Fetch: func(context.Context) []content.Item {
			calls.Add(1)
			return items
		},
		Width:  1280,
		Height: 800,
		Hooks: Hooks{
			Sampled: func(gen uint64, _ sampler.Report, _ bool) { rec.sampled = append(rec.sampled, gen) },
			Rebuilt: func(p *pool.Pool, _ []content.Item) {
				rec.rebuilds++
				rec.last = p
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(f.Close)
	return f, rec, calls
}

func TestStartThenLoad(t *testing.T) {
	f, rec, calls := newTestField(t, testItems(8, 5), true)
	f.Start()

	assert.Equal(t, uint64(1), f.Generation())
	assert.True(t, f.Pending())
	assert.Equal(t, 56, f.Pool().Len())
	assert.Zero(t, f.Pool().BoundCount(), "filler only before the first load")
	assert.Empty(t, rec.sampled)

	require.True(t, f.Wait(2*time.Second))
	assert.False(t, f.Pending())
	assert.Equal(t, 40, f.Pool().BoundCount())
	assert.Equal(t, uint64(1), f.Pool().Generation(), "a load does not start a new generation")
	assert.Equal(t, []uint64{1}, rec.sampled)
	assert.Equal(t, 2, rec.rebuilds)
	assert.Same(t, f.Pool(), rec.last)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLinksOffNeverFetches(t *testing.T) {
	f, _, calls := newTestField(t, testItems(8, 5), false)
	f.Start()

	assert.False(t, f.Pending())
	assert.False(t, f.Wait(10*time.Millisecond))
	assert.Zero(t, f.Pool().BoundCount())
	assert.Zero(t, calls.Load())
}

func TestSyncLinksRebuildsOnce(t *testing.T) {
	f, _, _ := newTestField(t, testItems(8, 5), true)
	f.Start()
	require.True(t, f.Wait(2*time.Second))

	assert.False(t, f.SyncLinks(), "no change yet")

	f.Links().Set(false)
	assert.True(t, f.SyncLinks())
	assert.False(t, f.SyncLinks())
	assert.Equal(t, uint64(2), f.Generation())
	assert.Zero(t, f.Pool().BoundCount())

	// Turning links back on samples the last items straight away
	f.Links().Set(true)
	assert.True(t, f.SyncLinks())
	assert.Equal(t, 40, f.Pool().BoundCount())
	assert.True(t, f.Pending())
}

func TestApplyIgnoresStaleAndEmpty(t *testing.T) {
	f, rec, _ := newTestField(t, nil, true)
	f.Start()
	before := f.Pool()

	assert.False(t, f.Apply(loader.Result{Generation: f.Generation() - 1, Items: testItems(4, 4)}))
	assert.Same(t, before, f.Pool())
	assert.True(t, f.Pending(), "a stale result does not settle the current fetch")

	assert.False(t, f.Apply(loader.Result{Generation: f.Generation()}))
	assert.Same(t, before, f.Pool(), "an empty fetch keeps the current pool")
	assert.False(t, f.Pending())
	assert.Equal(t, 1, rec.rebuilds)
}

func TestApplySameItemsKeepsPool(t *testing.T) {
	items := testItems(8, 5)
	f, _, _ := newTestField(t, items, true)
	f.Start()
	require.True(t, f.Wait(2*time.Second))
	p := f.Pool()

	assert.False(t, f.Apply(loader.Result{Generation: f.Generation(), Items: items}))
	assert.Same(t, p, f.Pool())
}

func TestResize(t *testing.T) {
	f, _, _ := newTestField(t, testItems(8, 5), true)
	f.Start()
	require.True(t, f.Wait(2*time.Second))

	assert.False(t, f.Resize(1280, 800))
	require.True(t, f.Resize(500, 700))
	assert.Equal(t, 32, f.Pool().Len())
	assert.Equal(t, 32, f.Pool().BoundCount())

	w, h := f.Size()
	assert.Equal(t, float32(500), w)
	assert.Equal(t, float32(700), h)
	assert.Equal(t, float32(500), f.Pool().Bounds().Width)
}

func TestSameKeys(t *testing.T) {
	a := testItems(2, 2)
	b := append([]content.Item(nil), a...)
	b[0].Title = "edited"

	tests := []struct {
		name string
		x, y []content.Item
		want bool
	}{
		{"both empty", nil, nil, true},
		{"same keys, different fields", a, b, true},
		{"different length", a, a[:3], false},
		{"reordered", a, []content.Item{a[1], a[0], a[2], a[3]}, false},
	}
	for _, tt := range tests {
		if got := sameKeys(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: sameKeys = %v, want %v", tt.name, got, tt.want)
		}
	}
}
