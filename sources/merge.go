package sources

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kolloid-cable/drift/content"
)

// DefaultConcurrency bounds parallel fetches when Merge is given a non-positive limit.
const DefaultConcurrency = 4

// Merge fetches every source concurrently and deduplicates the union by item key.
// A failing source contributes nothing. For duplicate keys the record from the later
// source (in argument order) wins; the position of the first occurrence is kept.
func Merge(ctx context.Context, logger *slog.Logger, limit int, srcs ...Source) []content.Item {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([][]content.Item, len(srcs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, src := range srcs {
		g.Go(func() error {
			items, err := src.Fetch(ctx)
			if err != nil {
				logger.Warn("source unavailable", "source", src.Name(), "error", err)
				return nil
			}
			results[i] = items
			logger.Debug("source fetched", "source", src.Name(), "items", len(items))
			return nil
		})
	}
	_ = g.Wait()

	return content.Dedup(results...)
}
