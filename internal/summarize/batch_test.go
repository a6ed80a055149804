package summarize

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okanehq/moneta/internal/feeds"
)

// fakeSummarizer fails for titles listed in failTitles and tracks the
// maximum number of concurrent calls.
type fakeSummarizer struct {
	failTitles map[string]bool

	mu        sync.Mutex
	inFlight  int32
	maxSeen   int32
	calls     int
	seenTones map[string]bool
}

func (f *fakeSummarizer) Summarize(_ context.Context, item feeds.Item, tone string) (*Summary, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls++
	if f.seenTones == nil {
		f.seenTones = map[string]bool{}
	}
	f.seenTones[tone] = true
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if f.failTitles[item.Title] {
		return nil, fmt.Errorf("summarizer unavailable")
	}
	return &Summary{
		Summary:   "summary of " + item.Title,
		KeyPoints: []string{"p1"},
		Relevance: "relevant (" + tone + ")",
	}, nil
}

func testItems(n int) []feeds.Item {
	items := make([]feeds.Item, n)
	for i := range items {
		items[i] = feeds.Item{Title: fmt.Sprintf("item-%d", i), Link: fmt.Sprintf("l%d", i)}
	}
	return items
}

func TestBatch_KeepsInputOrder(t *testing.T) {
	fake := &fakeSummarizer{}
	articles := Batch(context.Background(), fake, testItems(7), "a tone")

	if len(articles) != 7 {
		t.Fatalf("got %d articles, want 7", len(articles))
	}
	for i, article := range articles {
		want := fmt.Sprintf("item-%d", i)
		if article.Title != want {
			t.Errorf("articles[%d] = %s, want %s (input order)", i, article.Title, want)
		}
	}
}

func TestBatch_DropsFailedItems(t *testing.T) {
	fake := &fakeSummarizer{failTitles: map[string]bool{"item-2": true, "item-4": true}}
	articles := Batch(context.Background(), fake, testItems(6), "a tone")

	if len(articles) != 4 {
		t.Fatalf("got %d articles, want 4 (two dropped)", len(articles))
	}
	for _, article := range articles {
		if article.Title == "item-2" || article.Title == "item-4" {
			t.Errorf("failed item %s survived the batch", article.Title)
		}
	}
}

func TestBatch_BoundsConcurrency(t *testing.T) {
	fake := &fakeSummarizer{}
	Batch(context.Background(), fake, testItems(12), "a tone")

	if fake.maxSeen > maxConcurrent {
		t.Errorf("observed %d concurrent calls, bound is %d", fake.maxSeen, maxConcurrent)
	}
	if fake.calls != 12 {
		t.Errorf("summarizer called %d times, want 12", fake.calls)
	}
}

func TestBatch_EmptyInput(t *testing.T) {
	fake := &fakeSummarizer{}
	articles := Batch(context.Background(), fake, nil, "a tone")
	if len(articles) != 0 {
		t.Errorf("got %d articles from empty input, want 0", len(articles))
	}
}
