package feeds

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/okanehq/moneta/internal/content"
)

// FetchAll fetches every source concurrently and merges the results into
// one pool sorted by publish time, newest first (stable, so ties keep
// source fetch order). Each fetch settles independently: a failing source
// is logged and contributes zero items, never aborting the batch.
func FetchAll(ctx context.Context, fetcher Fetcher, sources []content.FeedSource) []Item {
	type result struct {
		items []Item
		err   error
	}

	results := make([]result, len(sources))
	done := make(chan int, len(sources))

	for i, source := range sources {
		go func(i int, source content.FeedSource) {
			items, err := fetcher.Fetch(ctx, source)
			results[i] = result{items: items, err: err}
			done <- i
		}(i, source)
	}

	for range sources {
		<-done
	}

	var pool []Item
	for i, r := range results {
		if r.err != nil {
			slog.Warn("Feed source failed, contributing zero items",
				"source", sources[i].Name,
				"error", r.err.Error(),
			)
			continue
		}
		pool = append(pool, r.items...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].PublishedAt.After(pool[j].PublishedAt)
	})

	return pool
}

// FilterRecent removes items published before the window horizon.
func FilterRecent(items []Item, windowHours int, now time.Time) []Item {
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	recent := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.PublishedAt.Before(cutoff) {
			recent = append(recent, item)
		}
	}
	return recent
}
