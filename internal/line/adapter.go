package line

import "context"

// Send pushes a single text message. Satisfies the delivery Sender
// capability.
func (c *Client) Send(ctx context.Context, userID string, text string) error {
	return c.Push(ctx, userID, []Message{NewTextMessage(text)})
}

// ResolveDisplayName returns the recipient's display name, or "" when the
// profile lookup fails. Satisfies the delivery ProfileResolver capability.
func (c *Client) ResolveDisplayName(ctx context.Context, userID string) string {
	profile := c.GetProfile(ctx, userID)
	if profile == nil {
		return ""
	}
	return profile.DisplayName
}
