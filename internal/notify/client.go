package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Notifier is the outbound dispatch capability: send one message, get
// success or failure. Implementations must bound their own timeouts.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// SendError reports a failed or timed-out dispatch. It fails only the
// article being sent, never the run.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("sending notification: %v", e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

// Client posts messages to a Notebrook channel.
type Client struct {
	baseURL string
	token   string
	channel string
	http    *http.Client
}

func NewClient(baseURL, token, channel string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		channel: channel,
		http:    &http.Client{Timeout: timeout},
	}
}

type messagePayload struct {
	Content string `json:"content"`
}

func (c *Client) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(messagePayload{Content: message})
	if err != nil {
		return &SendError{Err: err}
	}

	url := fmt.Sprintf("%s/api/channel/%s/messages", c.baseURL, c.channel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &SendError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	// Request IDs make failed sends traceable on the server side.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &SendError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &SendError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return nil
}
