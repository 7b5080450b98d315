package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Poster sends a measurement payload to the analytics backend.
type Poster interface {
	Post(ctx context.Context, url string, payload []byte, headers map[string]string) error
}

// Client is a thin JSON POST client with a bounded request timeout.
type Client struct {
	client *http.Client
	logger zerolog.Logger
}

// NewClient creates a Client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "http_client").Logger(),
	}
}

// Post sends payload as a JSON body to url. Any non-2xx response is an
// error.
func (c *Client) Post(ctx context.Context, url string, payload []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain the body so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("received status code: %d", resp.StatusCode)
	}

	c.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("Payload delivered")
	return nil
}
