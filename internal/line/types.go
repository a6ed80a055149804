// Package line provides the LINE Messaging API client used for push and
// reply delivery, profile lookups, and webhook signature verification.
package line

// Message is one outgoing text message.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage builds a text message.
func NewTextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// Profile is a channel user's public profile.
type Profile struct {
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Webhook event payloads, as delivered by the platform.

// WebhookBody is the top-level webhook request body.
type WebhookBody struct {
	Events []Event `json:"events"`
}

// Event is one webhook event.
type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventSource identifies the sender.
type EventSource struct {
	UserID string `json:"userId"`
}

// EventMessage is the message content of a message event.
type EventMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
