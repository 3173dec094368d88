package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/sources"
)

// loadCorpus fetches and merges the given source URIs.
func loadCorpus(ctx context.Context, uris []string, cfg *config.Config, logger *slog.Logger) ([]content.Item, error) {
	srcs := make([]sources.Source, 0, len(uris))
	for _, uri := range uris {
		src, err := sources.Open(ctx, uri, sources.Options{AWSRegion: cfg.Sources.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", uri, err)
		}
		srcs = append(srcs, src)
	}
	return sources.Merge(ctx, logger, cfg.Loader.MaxConcurrency, srcs...), nil
}

// syntheticCorpus builds a skewed corpus: contributor activity follows a Zipf law,
// so a handful of prolific contributors own most items, and ages spread over a year.
func syntheticCorpus(contributors, items int, seed int64, now time.Time) []content.Item {
	rng := rand.New(rand.NewSource(seed))
	zipf := rand.NewZipf(rng, 1.3, 1, uint64(max(contributors-1, 0)))

	out := make([]content.Item, 0, items)
	for i := 0; i < items; i++ {
		c := zipf.Uint64()
		it := content.Item{
			ID:          fmt.Sprintf("syn-%d", i),
			Link:        fmt.Sprintf("https://example.com/c%d/%d", c, i),
			Title:       fmt.Sprintf("post %d", i),
			Contributor: fmt.Sprintf("c%d", c),
			UpdatedAt:   now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour).Format(time.RFC3339),
		}
		if c%7 == 0 {
			it.SiteType = content.SiteInstagram
		}
		out = append(out, it)
	}
	return out
}
