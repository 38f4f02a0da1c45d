// Package summarizer sends scraped markdown to a locally hosted Ollama model
// for cleanup and summarization.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Summarizer errors
var (
	ErrEmptyResponse    = errors.New("model returned no content")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrInvalidHost      = errors.New("invalid Ollama host")
)

// DefaultTimeout bounds a single generate request
const DefaultTimeout = 120 * time.Second

const instructions = "You are an expert research assistant. " +
	"Given the following markdown scraped from a website, clean up the content (remove navigation, ads, unrelated text), " +
	"and provide a concise summary at the top. Output only clean, readable markdown.\n\n"

// BuildPrompt prefixes the cleanup instructions to the scraped markdown
func BuildPrompt(markdown string) string {
	return instructions + markdown
}

// Client calls the Ollama generate endpoint
type Client struct {
	api     *api.Client
	model   string
	timeout time.Duration
}

// NewClient creates a client for the Ollama server at host
// (e.g. http://localhost:11434). A non-positive timeout means DefaultTimeout.
func NewClient(host, model string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(host)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: statusCheck{next: http.DefaultTransport},
	}
	return &Client{
		api:     api.NewClient(base, httpClient),
		model:   model,
		timeout: timeout,
	}, nil
}

// Summarize sends one non-streaming generate request and returns the
// model's text. Any non-2xx status, transport error, undecodable body or
// empty response is an error.
func (c *Client) Summarize(ctx context.Context, markdown string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: BuildPrompt(markdown),
		Stream: &stream,
	}

	var out strings.Builder
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}

	if out.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}

// statusCheck fails every response outside 2xx. The Ollama client only
// reports error statuses that carry a JSON body.
type statusCheck struct {
	next http.RoundTripper
}

func (s statusCheck) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
}
