package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/okanehq/moneta/internal/feeds"
)

func TestParseSummary_PlainJSON(t *testing.T) {
	text := `{"summary":"Markets rose.","keyPoints":["a","b"],"relevance":"Helps beginners."}`
	summary, err := parseSummary(text)
	if err != nil {
		t.Fatalf("parseSummary failed: %v", err)
	}
	if summary.Summary != "Markets rose." {
		t.Errorf("summary = %q", summary.Summary)
	}
	if len(summary.KeyPoints) != 2 {
		t.Errorf("keyPoints = %v, want 2 entries", summary.KeyPoints)
	}
	if summary.Relevance != "Helps beginners." {
		t.Errorf("relevance = %q", summary.Relevance)
	}
}

func TestParseSummary_CodeFencedJSON(t *testing.T) {
	text := "Here is the summary:\n```json\n{\"summary\":\"S\",\"keyPoints\":[],\"relevance\":\"R\"}\n```"
	summary, err := parseSummary(text)
	if err != nil {
		t.Fatalf("parseSummary failed on fenced response: %v", err)
	}
	if summary.Summary != "S" {
		t.Errorf("summary = %q, want S", summary.Summary)
	}
}

func TestParseSummary_Malformed(t *testing.T) {
	cases := []string{
		"no json here at all",
		`{"summary": }`,
		`{"keyPoints":["a"],"relevance":"R"}`, // missing summary
		"",
	}
	for _, text := range cases {
		if _, err := parseSummary(text); err == nil {
			t.Errorf("parseSummary(%q) succeeded, want error", text)
		}
	}
}

func TestStubSummarizer_Deterministic(t *testing.T) {
	stub := StubSummarizer{}
	item := feeds.Item{Title: "T"}
	s1, err := stub.Summarize(context.Background(), item, "a tone")
	if err != nil {
		t.Fatalf("stub failed: %v", err)
	}
	s2, _ := stub.Summarize(context.Background(), item, "a tone")
	if s1.Summary != s2.Summary {
		t.Error("stub output is not deterministic")
	}
	if !strings.Contains(s1.Summary, "T") {
		t.Errorf("stub summary %q does not mention the title", s1.Summary)
	}
}
