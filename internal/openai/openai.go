// Package openai implements the completion transport for OpenAI-compatible
// chat completions endpoints.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/longkey1/omnichat/internal/omnichat"
	"go.uber.org/zap"
)

// maxLineSize bounds a single event stream line.
const maxLineSize = 1024 * 1024

// Config defines the configuration interface for the completion client
type Config interface {
	GetBaseURL() string
	GetToken() string
	GetRequestTimeout() time.Duration
}

// APIError is returned when the endpoint answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// ModelsResponse represents the response from the models endpoint
type ModelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	config Config
	http   *http.Client
	logger *zap.SugaredLogger
}

// NewClient creates a new client instance
func NewClient(config Config, logger *zap.SugaredLogger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Bound only the wait for response headers.
	transport.ResponseHeaderTimeout = config.GetRequestTimeout()

	return &Client{
		config: config,
		http:   &http.Client{Transport: transport},
		logger: logger,
	}
}

// StreamCompletion posts a streaming request and returns the response body
// split into lines. The body is closed when iteration ends.
func (c *Client) StreamCompletion(ctx context.Context, req *omnichat.CompletionRequest) (iter.Seq2[[]byte, error], error) {
	resp, err := c.post(ctx, "/chat/completions", req, "text/event-stream")
	if err != nil {
		return nil, err
	}

	return func(yield func([]byte, error) bool) {
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if !yield(scanner.Bytes(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("error reading stream: %w", err))
		}
	}, nil
}

// Complete posts a non-streaming request and returns the raw response body.
func (c *Client) Complete(ctx context.Context, req *omnichat.CompletionRequest) ([]byte, error) {
	resp, err := c.post(ctx, "/chat/completions", req, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return body, nil
}

// ListModels returns the models reported by the endpoint
func (c *Client) ListModels(ctx context.Context) ([]omnichat.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.GetBaseURL()+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.GetToken())

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var modelsResp ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("error parsing models response: %w", err)
	}

	models := make([]omnichat.ModelInfo, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		models = append(models, omnichat.ModelInfo{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	return models, nil
}

func (c *Client) post(ctx context.Context, path string, body any, accept string) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GetBaseURL()+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Authorization", "Bearer "+c.config.GetToken())

	c.logger.Debugw("Sending request", "url", httpReq.URL.String(), "bytes", len(jsonData))
	return c.do(httpReq)
}

// do sends the request and turns non-2xx answers into *APIError.
func (c *Client) do(httpReq *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		c.logger.Debugw("Request failed", "url", httpReq.URL.String(), "status", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
