package summarize

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/okanehq/moneta/internal/feeds"
)

// maxConcurrent bounds in-flight summarizer calls to respect the API's
// rate limits.
const maxConcurrent = 3

// Batch summarizes every item with the given tone, at most maxConcurrent
// calls in flight. Results keep input order. A failed item is logged and
// dropped from the batch; it never fails the segment.
func Batch(ctx context.Context, summarizer Summarizer, items []feeds.Item, tone string) []Article {
	sem := semaphore.NewWeighted(maxConcurrent)
	results := make([]*Article, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled; remaining items are simply not summarized.
			break
		}

		wg.Add(1)
		go func(i int, item feeds.Item) {
			defer wg.Done()
			defer sem.Release(1)

			summary, err := summarizer.Summarize(ctx, item, tone)
			if err != nil {
				slog.Warn("Failed to summarize article, dropping from batch",
					"title", item.Title,
					"source", item.Source,
					"error", err.Error(),
				)
				return
			}
			results[i] = &Article{Item: item, Summary: *summary}
		}(i, item)
	}
	wg.Wait()

	articles := make([]Article, 0, len(items))
	for _, r := range results {
		if r != nil {
			articles = append(articles, *r)
		}
	}
	return articles
}
