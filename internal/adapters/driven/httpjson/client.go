// Package httpjson is the small JSON-over-HTTP client shared by the language
// model and embedding adapters. It maps transport failures, rate limiting and
// server errors onto the domain sentinels so callers can degrade uniformly.
package httpjson

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

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// maxErrorBody bounds how much of an unparseable error body is quoted.
const maxErrorBody = 200

// Client talks to one provider API.
type Client struct {
	name        string
	baseURL     string
	http        *http.Client
	header      http.Header
	unavailable error
}

// New returns a client for the provider called name. Transport failures and
// 5xx responses wrap unavailable, which is typically domain.ErrLLMUnavailable
// or domain.ErrEmbeddingUnavailable.
func New(name, baseURL string, timeout time.Duration, unavailable error) *Client {
	return &Client{
		name:        name,
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		header:      make(http.Header),
		unavailable: unavailable,
	}
}

// SetHeader adds a header sent with every request.
func (c *Client) SetHeader(key, value string) *Client {
	c.header.Set(key, value)
	return c
}

// BaseURL returns the URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// StatusError is a non-200 response.
type StatusError struct {
	Provider string
	Code     int
	Message  string
	cause    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.cause }

// Post sends in as JSON to path and decodes a 200 response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// Ping issues GET path and expects a 200.
func (c *Client) Ping(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: create ping request: %w", c.name, err)
	}
	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", c.unavailable, c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %w", c.unavailable, c.name, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", c.name, domain.ErrRateLimited)
	}

	serr := &StatusError{Provider: c.name, Code: resp.StatusCode, Message: errorMessage(raw)}
	if resp.StatusCode >= http.StatusInternalServerError {
		serr.cause = c.unavailable
	}
	return nil, serr
}

// errorMessage extracts the message from the error bodies providers use:
// {"error":{"message":...}}, {"error":"..."} or {"message":...}.
func errorMessage(raw []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		var nested struct {
			Message string `json:"message"`
		}
		var flat string
		switch {
		case json.Unmarshal(body.Error, &nested) == nil && nested.Message != "":
			return nested.Message
		case json.Unmarshal(body.Error, &flat) == nil && flat != "":
			return flat
		case body.Message != "":
			return body.Message
		}
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "empty response body"
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Code == code
}
