package summarize

import (
	"fmt"
	"strings"
)

const sectionRule = "━━━━━━━━━━━━━━━━"

// FormatDigest renders the weekly digest message for one recipient.
func FormatDigest(displayName string, articles []Article) string {
	var b strings.Builder

	b.WriteString("📰 Your Weekly Money Digest\n\n")
	fmt.Fprintf(&b, "%s, here are this week's stories worth your time!\n\n", displayName)
	b.WriteString(sectionRule + "\n\n")

	for _, article := range articles {
		fmt.Fprintf(&b, "■ %s\n\n", article.Title)
		fmt.Fprintf(&b, "%s\n\n", article.Summary.Summary)
		fmt.Fprintf(&b, "💡 %s\n\n", article.Relevance)
		fmt.Fprintf(&b, "👉 Read more: %s\n\n", article.Link)
		b.WriteString(sectionRule + "\n\n")
	}

	b.WriteString("See you next week!")
	return b.String()
}

// PersonalizeStep substitutes the recipient's display name into a step
// message's generic greeting.
func PersonalizeStep(content, displayName string) string {
	return strings.Replace(content, "Good morning!", fmt.Sprintf("%s, good morning!", displayName), 1)
}
