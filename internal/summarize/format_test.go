package summarize

import (
	"strings"
	"testing"

	"github.com/okanehq/moneta/internal/feeds"
)

func TestFormatDigest(t *testing.T) {
	articles := []Article{
		{
			Item: feeds.Item{Title: "Rates held steady", Link: "https://example.com/rates"},
			Summary: Summary{
				Summary:   "The central bank left rates unchanged.",
				Relevance: "Savings yields stay where they are.",
			},
		},
		{
			Item: feeds.Item{Title: "Index funds 101", Link: "https://example.com/funds"},
			Summary: Summary{
				Summary:   "A primer on low-cost index investing.",
				Relevance: "A starting point for first investments.",
			},
		},
	}

	out := FormatDigest("Aoi", articles)

	for _, want := range []string{
		"📰 Your Weekly Money Digest",
		"Aoi, here are this week's stories",
		"■ Rates held steady",
		"The central bank left rates unchanged.",
		"💡 Savings yields stay where they are.",
		"👉 Read more: https://example.com/rates",
		"■ Index funds 101",
		"See you next week!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("digest missing %q:\n%s", want, out)
		}
	}

	if got := strings.Index(out, "Rates held steady"); got > strings.Index(out, "Index funds 101") {
		t.Error("articles rendered out of order")
	}
}

func TestFormatDigest_NoArticles(t *testing.T) {
	out := FormatDigest("Aoi", nil)
	if !strings.Contains(out, "📰 Your Weekly Money Digest") {
		t.Error("empty digest missing header")
	}
	if strings.Contains(out, "■") {
		t.Error("empty digest should list no articles")
	}
}

func TestPersonalizeStep(t *testing.T) {
	content := "Good morning! Today we talk about budgets. Good morning!"
	got := PersonalizeStep(content, "Aoi")
	want := "Aoi, good morning! Today we talk about budgets. Good morning!"
	if got != want {
		t.Errorf("PersonalizeStep = %q, want %q", got, want)
	}

	noGreeting := "No greeting here."
	if got := PersonalizeStep(noGreeting, "Aoi"); got != noGreeting {
		t.Errorf("content without greeting changed: %q", got)
	}
}
