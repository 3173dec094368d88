package loader

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kolloid-cable/drift/content"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func itemsFor(ids ...string) []content.Item {
	out := make([]content.Item, len(ids))
	for i, id := range ids {
		out[i] = content.Item{ID: id, Link: "https://example.com/" + id, Title: id, Contributor: "c"}
	}
	return out
}

// pollUntil polls the loader until a result arrives or the deadline passes.
func pollUntil(t *testing.T, l *Loader) Result {
	t.Helper()
	var res Result
	require.Eventually(t, func() bool {
		var ok bool
		res, ok = l.Poll()
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	return res
}

func TestRequestDeliversItems(t *testing.T) {
	l := New(func(ctx context.Context) []content.Item {
		return itemsFor("a", "b")
	}, Options{})
	defer l.Close()

	l.Request(1)
	res := pollUntil(t, l)

	assert.Equal(t, uint64(1), res.Generation)
	assert.Len(t, res.Items, 2)
	assert.False(t, res.Cached)
	assert.NoError(t, res.Err)
}

func TestStaleGenerationDropped(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32

	l := New(func(ctx context.Context) []content.Item {
		n := calls.Add(1)
		if n == 1 {
			// The first fetch ignores cancellation and finishes late
			<-release
			return itemsFor("old")
		}
		return itemsFor("new")
	}, Options{})
	defer l.Close()

	l.Request(1)
	l.Request(2)

	res := pollUntil(t, l)
	assert.Equal(t, uint64(2), res.Generation)
	assert.Equal(t, "new", res.Items[0].ID)

	close(release)
	// The late generation-1 result must never surface
	assert.Never(t, func() bool {
		_, ok := l.Poll()
		return ok
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestOlderFetchIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	var calls atomic.Int32

	l := New(func(ctx context.Context) []content.Item {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			close(cancelled)
			return nil
		}
		return itemsFor("x")
	}, Options{})
	defer l.Close()

	l.Request(1)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	l.Request(2)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	assert.Equal(t, uint64(2), pollUntil(t, l).Generation)
}

func TestCancelledFetchDeliversNothing(t *testing.T) {
	cancelled := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	l := New(func(ctx context.Context) []content.Item {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			close(cancelled)
			return itemsFor("old")
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return itemsFor("new")
	}, Options{})
	defer l.Close()

	l.Request(1)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	l.Request(2)
	<-cancelled

	assert.Never(t, func() bool { return len(l.results) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"a superseded fetch must not queue a result")
	l.mu.Lock()
	haveLast := l.haveLast
	l.mu.Unlock()
	assert.False(t, haveLast, "a superseded fetch must not become the cached items")

	close(release)
	res := pollUntil(t, l)
	assert.Equal(t, uint64(2), res.Generation)
	assert.Equal(t, "new", res.Items[0].ID)
}

func TestRateLimitedRequestReusesItems(t *testing.T) {
	var calls atomic.Int32
	l := New(func(ctx context.Context) []content.Item {
		calls.Add(1)
		return itemsFor("a")
	}, Options{RefetchEvery: time.Hour, RefetchBurst: 1})
	defer l.Close()

	l.Request(1)
	pollUntil(t, l)

	l.Request(2)
	res, ok := l.Poll()
	require.True(t, ok, "rate-limited request should deliver synchronously")
	assert.True(t, res.Cached)
	assert.Equal(t, uint64(2), res.Generation)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeoutStillDelivers(t *testing.T) {
	l := New(func(ctx context.Context) []content.Item {
		<-ctx.Done()
		return itemsFor("partial")
	}, Options{Timeout: 20 * time.Millisecond})
	defer l.Close()

	l.Request(1)
	res := pollUntil(t, l)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Len(t, res.Items, 1)
}

func TestCloseWaitsForFetches(t *testing.T) {
	started := make(chan struct{})
	l := New(func(ctx context.Context) []content.Item {
		close(started)
		<-ctx.Done()
		return nil
	}, Options{})

	l.Request(1)
	<-started
	l.Close()

	// Requests after Close are ignored
	l.Request(2)
	_, ok := l.Poll()
	assert.False(t, ok)
}

func TestWaitBlocksForCurrentGeneration(t *testing.T) {
	l := New(func(ctx context.Context) []content.Item {
		time.Sleep(20 * time.Millisecond)
		return itemsFor("w")
	}, Options{})
	defer l.Close()

	l.Request(4)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, ok := l.Wait(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(4), res.Generation)
	assert.Len(t, res.Items, 1)

	// Nothing else is coming
	short, cancelShort := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancelShort()
	_, ok = l.Wait(short)
	assert.False(t, ok)
}
