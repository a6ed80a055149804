package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/okanehq/moneta/internal/content"
)

// Fetcher retrieves and normalizes one feed source. Implementations must
// honor the context for cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, source content.FeedSource) ([]Item, error)
}

// RSSFetcher fetches RSS/Atom feeds over HTTP with bounded timeout and
// redirect count.
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher creates an RSSFetcher with the default bounds.
func NewRSSFetcher() *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{
		Timeout: fetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &RSSFetcher{parser: parser}
}

// Fetch retrieves one source and normalizes its entries. Missing fields
// default to empty strings; a missing publish date defaults to fetch time.
func (f *RSSFetcher) Fetch(ctx context.Context, source content.FeedSource) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", source.Name, err)
	}

	now := time.Now()
	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		}

		body := entry.Description
		if body == "" {
			body = entry.Content
		}

		items = append(items, Item{
			Title:       entry.Title,
			Link:        entry.Link,
			Content:     body,
			PublishedAt: published,
			Source:      source.Name,
			Category:    source.Category,
		})
	}

	return items, nil
}
