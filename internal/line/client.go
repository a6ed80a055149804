package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.line.me/v2/bot"

// Multicast pushes are capped by the platform.
const maxMulticastRecipients = 500

// Client handles communication with the LINE Messaging API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a client authenticated with the channel access token.
func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     defaultAPIBase,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Push sends messages to a single recipient.
func (c *Client) Push(ctx context.Context, userID string, messages []Message) error {
	body := map[string]interface{}{
		"to":       userID,
		"messages": messages,
	}
	return c.post(ctx, "/message/push", body)
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	body := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   messages,
	}
	return c.post(ctx, "/message/reply", body)
}

// Multicast sends the same messages to many recipients, chunked to the
// platform's per-call limit. The first failing chunk aborts and returns
// its error.
func (c *Client) Multicast(ctx context.Context, userIDs []string, messages []Message) error {
	for start := 0; start < len(userIDs); start += maxMulticastRecipients {
		end := start + maxMulticastRecipients
		if end > len(userIDs) {
			end = len(userIDs)
		}
		body := map[string]interface{}{
			"to":       userIDs[start:end],
			"messages": messages,
		}
		if err := c.post(ctx, "/message/multicast", body); err != nil {
			return err
		}
	}
	return nil
}

// GetProfile looks up a recipient's profile. Returns nil (not an error)
// when the profile is unavailable, so callers fall back to a placeholder
// name instead of aborting delivery.
func (c *Client) GetProfile(ctx context.Context, userID string) *Profile {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile/"+userID, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil
	}
	return &profile
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("LINE API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
