// Package llm provides the chat-completion client interface and provider
// implementations.
package llm

import (
	"context"
	"errors"
)

// Provider-distinguishable failure kinds. Handlers map these to distinct
// user-facing responses; every other failure is a generic upstream error.
var (
	ErrRateLimited   = errors.New("upstream rate limit exceeded")
	ErrQuotaExceeded = errors.New("upstream usage quota exceeded")
)

// ChatMessage is one role-tagged entry in a completion request. ImageURL, when
// set on the final user turn, attaches image content for vision-capable calls;
// it may be a data URI or a remote URL.
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content   string
	Model     string
	TokensIn  int
	TokensOut int
	LatencyMs int64
}

// Client is the interface for chat-completion providers.
type Client interface {
	// Complete sends a completion request and returns the raw reply text.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderGateway   Provider = "gateway"
	ProviderAnthropic Provider = "anthropic"
)

// Options configures client construction.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewClient creates a client for the configured provider.
func NewClient(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(opts.APIKey)
	case ProviderGateway:
		return NewGatewayClient(opts.APIKey, opts.BaseURL, opts.Model)
	default:
		return NewGatewayClient(opts.APIKey, opts.BaseURL, opts.Model)
	}
}
