package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aseed/a-seed/backend/internal/config"
)

var (
	ErrEmptyMessage       = errors.New("empty message")
	ErrBackendTimeout     = errors.New("backend timed out")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// completionWait caps one blocking completion round trip.
const completionWait = 120 * time.Second

// tagsWait keeps the admin dashboard responsive when the backend is down.
const tagsWait = 2 * time.Second

// chatMessage is one entry of the backend's messages array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// Client speaks the Ollama-compatible chat completion protocol.
type Client struct {
	host string
	http *http.Client
}

// NewClient returns a client for the backend at host.
func NewClient(host string) *Client {
	return &Client{
		host: strings.TrimRight(host, "/"),
		http: &http.Client{Timeout: completionWait},
	}
}

// Complete issues exactly one blocking, non-streaming completion
// request. There are no retries: a duplicate attempt could duplicate
// side effects on the backend, so failures surface to the caller.
func (c *Client) Complete(ctx context.Context, cfg config.AIConfig, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			NumCtx:      cfg.NumCtx,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrBackendUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", ErrBackendTimeout, completionWait)
		}
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: backend returned %s: %s", ErrBackendUnavailable, resp.Status, bodySnippet(resp.Body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrBackendUnavailable, err)
	}
	return parsed.Message.Content, nil
}

// Tags asks the backend for its model catalog and returns the count.
func (c *Client) Tags(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, tagsWait)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: backend returned %s", ErrBackendUnavailable, resp.Status)
	}

	var parsed struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("%w: decoding tags: %v", ErrBackendUnavailable, err)
	}
	return len(parsed.Models), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func bodySnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(data))
}
