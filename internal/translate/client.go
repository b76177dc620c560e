// Package translate calls the RapidAPI multi-traduction endpoint and runs
// title batches against it at a bounded rate.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// ErrMalformedResponse means the endpoint answered 2xx with a body that
// holds no translation.
var ErrMalformedResponse = errors.New("malformed translation response")

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translation endpoint returned %d: %s", e.Code, e.Body)
}

// Translator turns one text from one language into another.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

type Options struct {
	Endpoint string
	Host     string
	APIKey   string
	Timeout  time.Duration
}

// Client is a Translator backed by the HTTP endpoint.
type Client struct {
	httpClient *http.Client
	opts       Options
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

type translateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Q    string `json:"q"`
}

func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	payload, err := json.Marshal(translateRequest{From: from, To: to, Q: text})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", c.opts.APIKey)
	if c.opts.Host != "" {
		req.Header.Set("x-rapidapi-host", c.opts.Host)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: snippet(body)}
	}

	return decodeTranslation(body)
}

// decodeTranslation accepts either ["text", ...] or "text".
func decodeTranslation(body []byte) (string, error) {
	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 {
			if text := strings.TrimSpace(list[0]); text != "" {
				return text, nil
			}
		}
		return "", fmt.Errorf("%w: empty list", ErrMalformedResponse)
	}

	var single string
	if err := json.Unmarshal(body, &single); err == nil {
		if text := strings.TrimSpace(single); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%w: empty string", ErrMalformedResponse)
	}

	return "", fmt.Errorf("%w: %s", ErrMalformedResponse, snippet(body))
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
