package sampler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kolloid-cable/drift/content"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// makeItems builds n items per contributor, all updated daysAgo+i days before testNow.
func makeItems(contributors []string, perContributor, daysAgo int) []content.Item {
	var items []content.Item
	for _, c := range contributors {
		for i := 0; i < perContributor; i++ {
			items = append(items, content.Item{
				ID:          fmt.Sprintf("%s-%d", c, i),
				Link:        fmt.Sprintf("https://example.com/%s/%d", c, i),
				Title:       fmt.Sprintf("%s post %d", c, i),
				Contributor: c,
				UpdatedAt:   testNow.AddDate(0, 0, -(daysAgo + i)).Format(time.RFC3339),
			})
		}
	}
	return items
}

func checkInvariants(t *testing.T, in []content.Item, out []content.Item, opts Options) {
	t.Helper()
	valid := content.Dedup(content.Validate(in))
	if len(out) > opts.TotalCount && opts.TotalCount >= 0 {
		t.Errorf("len(out) = %d exceeds TotalCount %d", len(out), opts.TotalCount)
	}
	if len(out) > len(valid) {
		t.Errorf("len(out) = %d exceeds valid input %d", len(out), len(valid))
	}

	seen := make(map[string]bool)
	perAccount := make(map[string]int)
	for _, it := range out {
		if seen[it.Key()] {
			t.Errorf("duplicate key %q", it.Key())
		}
		seen[it.Key()] = true
		if it.IsInstagram() {
			perAccount[it.AccountKey()]++
		}
	}
	for acct, n := range perAccount {
		if n > opts.InstagramPerAccountCap {
			t.Errorf("instagram account %q has %d items, cap %d", acct, n, opts.InstagramPerAccountCap)
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if out := SelectItems(nil, DefaultOptions(56), rng, testNow); len(out) != 0 {
		t.Errorf("nil input gave %d items", len(out))
	}

	invalid := []content.Item{{Title: "no link", Contributor: "a"}, {Link: "x", Title: "no contributor"}}
	if out := SelectItems(invalid, DefaultOptions(56), rng, testNow); len(out) != 0 {
		t.Errorf("invalid-only input gave %d items", len(out))
	}

	items := makeItems([]string{"a", "b"}, 5, 1)
	if out := SelectItems(items, DefaultOptions(0), rng, testNow); len(out) != 0 {
		t.Errorf("TotalCount 0 gave %d items", len(out))
	}
}

func TestSelectFallbackScenario(t *testing.T) {
	// 100 items from 5 contributors, nothing updated within 30 days
	items := makeItems([]string{"ann", "bo", "cy", "di", "ed"}, 20, 60)
	opts := DefaultOptions(56)

	out, rep := Select(items, opts, rand.New(rand.NewSource(7)), testNow)
	checkInvariants(t, items, out, opts)

	if !rep.FallbackPool {
		t.Error("expected fallback to newest items")
	}
	if rep.NewPool != 28 {
		t.Errorf("NewPool = %d, want ceil(56*0.5) = 28", rep.NewPool)
	}
	if rep.NewPicked != 17 {
		t.Errorf("NewPicked = %d, want round(56*0.3) = 17", rep.NewPicked)
	}
	if rep.RandomTarget != 39 {
		t.Errorf("RandomTarget = %d, want 39", rep.RandomTarget)
	}
	if rep.Contributors != 5 {
		t.Errorf("Contributors = %d, want 5", rep.Contributors)
	}
	if rep.AutoCap != 5 {
		t.Errorf("AutoCap = %d, want clamp(39/5, 2, 5) = 5", rep.AutoCap)
	}
	// Five contributors at caps 5, 6 and 7 fill at most 35 of 39 slots
	if rep.RelaxRounds != 3 {
		t.Errorf("RelaxRounds = %d, want 3", rep.RelaxRounds)
	}
	if len(out) != 56 {
		t.Errorf("len(out) = %d, want 56", len(out))
	}
}

func TestSelectFallbackPoolIsNewest(t *testing.T) {
	// Distinct ages: the 28 newest are exactly the 0..27 day-old offsets
	var items []content.Item
	for i := 0; i < 100; i++ {
		items = append(items, content.Item{
			ID:          fmt.Sprintf("i%d", i),
			Link:        fmt.Sprintf("https://example.com/%d", i),
			Title:       "t",
			Contributor: fmt.Sprintf("c%d", i%5),
			UpdatedAt:   testNow.AddDate(0, 0, -(40 + i)).Format(time.RFC3339),
		})
	}
	pool := newestItems(items, 28)
	if len(pool) != 28 {
		t.Fatalf("newestItems returned %d", len(pool))
	}
	for i, it := range pool {
		if it.ID != fmt.Sprintf("i%d", i) {
			t.Errorf("pool[%d] = %s, want i%d", i, it.ID, i)
		}
	}
}

func TestSelectFairnessWithoutBackfill(t *testing.T) {
	contributors := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	items := makeItems(contributors, 10, 90)
	opts := DefaultOptions(20)

	for seed := int64(1); seed <= 20; seed++ {
		out, rep := Select(items, opts, rand.New(rand.NewSource(seed)), testNow)
		checkInvariants(t, items, out, opts)

		if rep.AutoCap != 2 {
			t.Fatalf("AutoCap = %d, want 2", rep.AutoCap)
		}
		if rep.RelaxRounds != 0 {
			t.Errorf("seed %d: RelaxRounds = %d, want 0", seed, rep.RelaxRounds)
		}
		for c, n := range rep.RandomCounts {
			if n > rep.AutoCap {
				t.Errorf("seed %d: contributor %s has %d random picks, cap %d", seed, c, n, rep.AutoCap)
			}
		}
		if len(out) != 20 {
			t.Errorf("seed %d: len(out) = %d, want 20", seed, len(out))
		}
	}
}

func TestSelectRecentItemsAlwaysPicked(t *testing.T) {
	items := makeItems([]string{"old1", "old2", "old3"}, 10, 100)
	recent := makeItems([]string{"fresh"}, 3, 1)
	items = append(items, recent...)

	opts := DefaultOptions(10) // round(10*0.3) = 3 recent slots
	out, rep := Select(items, opts, rand.New(rand.NewSource(3)), testNow)

	if rep.FallbackPool {
		t.Error("unexpected fallback with recent items present")
	}
	if rep.NewPool != 3 || rep.NewPicked != 3 {
		t.Errorf("NewPool/NewPicked = %d/%d, want 3/3", rep.NewPool, rep.NewPicked)
	}
	got := make(map[string]bool)
	for _, it := range out {
		got[it.Key()] = true
	}
	for _, it := range recent {
		if !got[it.Key()] {
			t.Errorf("recent item %s missing from output", it.Key())
		}
	}
}

func TestSelectUntimestampedExcludedFromRecentPool(t *testing.T) {
	items := []content.Item{
		{ID: "a", Link: "la", Title: "t", Contributor: "x", UpdatedAt: "not a date"},
		{ID: "b", Link: "lb", Title: "t", Contributor: "y"},
		{ID: "c", Link: "lc", Title: "t", Contributor: "z", UpdatedAt: testNow.Add(-time.Hour).Format(time.RFC3339)},
	}
	pool := recentItems(items, testNow.AddDate(0, 0, -30))
	if len(pool) != 1 || pool[0].ID != "c" {
		t.Errorf("recentItems = %v, want only c", pool)
	}
}

func TestSelectInstagramCap(t *testing.T) {
	var items []content.Item
	for i := 0; i < 30; i++ {
		items = append(items, content.Item{
			ID:          fmt.Sprintf("ig-%d", i),
			Link:        fmt.Sprintf("https://instagram.com/p/%d", i),
			Title:       "photo",
			Contributor: "mika",
			SiteType:    "Instagram",
			Account:     "mika_photo",
			UpdatedAt:   testNow.AddDate(0, 0, -i).Format(time.RFC3339),
		})
	}
	items = append(items, makeItems([]string{"a", "b", "c"}, 4, 5)...)

	opts := DefaultOptions(56)
	opts.CapMax = 100 // let the contributor ceiling stay out of the way
	out, rep := Select(items, opts, rand.New(rand.NewSource(11)), testNow)
	checkInvariants(t, items, out, opts)

	if rep.Capped != 12+12 {
		t.Errorf("Capped = %d, want 24", rep.Capped)
	}
	// Data exhaustion: only 24 items survive the cap
	if len(out) != 24 {
		t.Errorf("len(out) = %d, want 24", len(out))
	}
}

func TestCapPerAccountKeepsNewest(t *testing.T) {
	items := []content.Item{
		{ID: "old", Link: "1", Title: "t", Contributor: "c", SiteType: "instagram", UpdatedAt: "2025-01-01"},
		{ID: "none", Link: "2", Title: "t", Contributor: "c", SiteType: "instagram"},
		{ID: "new", Link: "3", Title: "t", Contributor: "c", SiteType: "instagram", UpdatedAt: "2025-06-01"},
		{ID: "mid", Link: "4", Title: "t", Contributor: "c", SiteType: "instagram", UpdatedAt: "2025-03-01"},
		{ID: "web", Link: "5", Title: "t", Contributor: "c", SiteType: "web"},
	}

	got := capPerAccount(items, 2)
	var ids []string
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	want := []string{"web", "new", "mid"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("capPerAccount mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectDataExhaustion(t *testing.T) {
	items := makeItems([]string{"solo"}, 5, 2)
	opts := DefaultOptions(56)

	out, rep := Select(items, opts, rand.New(rand.NewSource(5)), testNow)
	checkInvariants(t, items, out, opts)
	if len(out) != 5 {
		t.Errorf("len(out) = %d, want all 5 items", len(out))
	}
	if rep.RelaxRounds == 0 {
		t.Error("single contributor above cap should need relaxation")
	}
}

func TestSelectDuplicateKeysInInput(t *testing.T) {
	items := makeItems([]string{"a", "b"}, 5, 40)
	items = append(items, items...)
	opts := DefaultOptions(32)

	out := SelectItems(items, opts, rand.New(rand.NewSource(9)), testNow)
	checkInvariants(t, items, out, opts)
	if len(out) != 10 {
		t.Errorf("len(out) = %d, want 10 distinct items", len(out))
	}
}

func TestSelectDeterministic(t *testing.T) {
	items := makeItems([]string{"ann", "bo", "cy", "di"}, 15, 3)
	opts := DefaultOptions(44)

	first := SelectItems(items, opts, rand.New(rand.NewSource(42)), testNow)
	second := SelectItems(items, opts, rand.New(rand.NewSource(42)), testNow)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different output (-first +second):\n%s", diff)
	}
}

func TestSelectPropertiesAcrossSizes(t *testing.T) {
	items := makeItems([]string{"a", "b", "c", "d", "e", "f", "g"}, 9, 0)
	for _, total := range []int{1, 2, 5, 32, 44, 56, 63, 100} {
		opts := DefaultOptions(total)
		out := SelectItems(items, opts, rand.New(rand.NewSource(int64(total))), testNow)
		checkInvariants(t, items, out, opts)
		if want := min(total, len(items)); len(out) != want {
			t.Errorf("total %d: len(out) = %d, want %d", total, len(out), want)
		}
	}
}
