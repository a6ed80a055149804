// Package summarize turns selected feed items into archetype-toned
// summaries and formats the digest message.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/okanehq/moneta/internal/feeds"
)

// Summary is the structured summarizer output for one article.
type Summary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Relevance string   `json:"relevance"`
}

// Article pairs a feed item with its archetype-scoped summary.
type Article struct {
	feeds.Item
	Summary
}

// Summarizer produces one toned summary per (item, archetype) pair.
// The tone hint is the archetype's configured tone phrase.
type Summarizer interface {
	Summarize(ctx context.Context, item feeds.Item, tone string) (*Summary, error)
}

const geminiModel = "gemini-2.0-flash"

// Per-call bound so one hung API call cannot stall the whole segment.
const summarizeTimeout = 30 * time.Second

// GeminiSummarizer calls the Gemini API for article summaries.
type GeminiSummarizer struct {
	client *genai.Client
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(ctx context.Context, apiKey string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiSummarizer{client: client}, nil
}

// Summarize asks the model for a structured summary of one article, toned
// for the given reader. The response must be the JSON contract
// {summary, keyPoints, relevance}; anything else is an error.
func (s *GeminiSummarizer) Summarize(ctx context.Context, item feeds.Item, tone string) (*Summary, error) {
	prompt := fmt.Sprintf(`Summarize the following financial news article for %s who is new to investing.

Title: %s
Content: %s

Respond with only this JSON:
{
  "summary": "2-3 sentence summary",
  "keyPoints": ["point 1", "point 2", "point 3"],
  "relevance": "one sentence on why this matters for this reader"
}`, tone, item.Title, item.Content)

	ctx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	result, err := s.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("summarizer call failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("summarizer returned no text content")
	}

	return parseSummary(text)
}

// parseSummary decodes the model's JSON response, tolerating surrounding
// prose or code fences by extracting the outermost object.
func parseSummary(text string) (*Summary, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("summarizer response contains no JSON object")
	}

	var summary Summary
	if err := json.Unmarshal([]byte(text[start:end+1]), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summarizer response: %w", err)
	}
	if summary.Summary == "" {
		return nil, fmt.Errorf("summarizer response missing summary field")
	}
	return &summary, nil
}

// StubSummarizer returns canned summaries for local development.
type StubSummarizer struct{}

// Summarize returns a deterministic summary without any external call.
func (StubSummarizer) Summarize(_ context.Context, item feeds.Item, tone string) (*Summary, error) {
	return &Summary{
		Summary:   fmt.Sprintf("Stub summary of %q.", item.Title),
		KeyPoints: []string{"stub point one", "stub point two"},
		Relevance: fmt.Sprintf("Relevant for %s.", tone),
	}, nil
}
