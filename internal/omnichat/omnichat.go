// Package omnichat provides the core abstractions of the chat session manager.
// This package defines the conversation data model and the Transport interface
// that the completion client (internal/openai) implements.
package omnichat

import (
	"context"
	"iter"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "qwen-omni-turbo"
	// DefaultSystemPrompt seeds every new session.
	DefaultSystemPrompt = "You are a helpful assistant."
)

// ModalityText is the only output modality requested from the API.
const ModalityText = "text"

// StreamOptions controls extra data sent on a streaming response.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// CompletionRequest is the request body posted to the chat completions endpoint.
//
// Example body:
//
//	{"model":"qwen-omni-turbo","messages":[...],"modalities":["text"],
//	 "stream":true,"stream_options":{"include_usage":true}}
type CompletionRequest struct {
	Model         string         `json:"model"`
	Messages      []Message      `json:"messages"`
	Modalities    []string       `json:"modalities"`
	Stream        bool           `json:"stream"`
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`
}

// NewCompletionRequest builds a request for the given history.
// stream_options is only attached to streaming requests.
func NewCompletionRequest(model string, history []Message, stream, includeUsage bool) *CompletionRequest {
	req := &CompletionRequest{
		Model:      model,
		Messages:   history,
		Modalities: []string{ModalityText},
		Stream:     stream,
	}
	if stream {
		req.StreamOptions = &StreamOptions{IncludeUsage: includeUsage}
	}
	return req
}

// ModelInfo represents information about an available model from the endpoint.
type ModelInfo struct {
	ID      string // Model identifier (e.g., "qwen-omni-turbo")
	OwnedBy string // Owner reported by the endpoint, may be empty
}

// Transport defines the completion endpoint used by a conversation.
//
// Example usage:
//
//	client := openai.NewClient(cfg, logger)
//	lines, err := client.StreamCompletion(ctx, req)
//	for line, err := range lines { ... }
type Transport interface {
	// StreamCompletion posts a streaming request and returns the raw response
	// lines. A non-success status is reported as an error before any line is
	// produced. The body is released when iteration ends.
	StreamCompletion(ctx context.Context, req *CompletionRequest) (iter.Seq2[[]byte, error], error)

	// Complete posts a non-streaming request and returns the raw JSON body.
	Complete(ctx context.Context, req *CompletionRequest) ([]byte, error)
}
