// Package genai provides text generation against third-party AI providers.
//
// A Client hides the concrete provider SDK (Gemini or OpenAI) behind a single
// Generate call that takes a model identifier, a prompt and a response format
// hint, and returns the generated text or an error.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Supported provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Format hints at the shape of the expected completion.
type Format int

const (
	// FormatText requests free text.
	FormatText Format = iota
	// FormatJSON requests a JSON-only completion.
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

var (
	ErrMissingAPIKey     = errors.New("API key not set")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrNoCandidates      = errors.New("no candidates returned")
	ErrNoChoicesReturned = errors.New("no choices returned")
	ErrEmptyResponse     = errors.New("empty response text")
)

// Request is a single completion request.
type Request struct {
	Model  string
	Prompt string
	Format Format
}

// Generator is implemented by anything that can turn a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// backend is the provider-specific half of a Client.
type backend interface {
	generate(ctx context.Context, model, prompt string, format Format) (string, error)
	close() error
}

// Opts holds configuration for the GenAI client.
type Opts struct {
	Provider string
	APIKey   string
	Model    string
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithProvider selects the backend ("gemini" or "openai").
func WithProvider(name string) Option {
	return func(o *Opts) { o.Provider = name }
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// Client wraps a provider backend.
type Client struct {
	provider string
	model    string
	backend  backend
}

// NormalizeProvider lowercases and trims a provider name, defaulting to Gemini.
func NormalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderGemini
	}
	return name
}

// DefaultModel returns the default model for a provider, or "" if unknown.
func DefaultModel(provider string) string {
	switch NormalizeProvider(provider) {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return ""
	}
}

// NewClient builds a client for the configured provider. It fails when no
// API key is supplied or the provider is not supported.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Provider = NormalizeProvider(cfg.Provider)
	slog.Debug("GenAI NewClient options set", "provider", cfg.Provider, "api_key_set", cfg.APIKey != "", "model", cfg.Model)

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	var (
		b   backend
		err error
	)
	switch cfg.Provider {
	case ProviderGemini:
		b, err = newGeminiBackend(ctx, cfg.APIKey)
	case ProviderOpenAI:
		b = newOpenAIBackend(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("GenAI client initialized", "provider", cfg.Provider, "model", cfg.Model)
	return &Client{provider: cfg.Provider, model: cfg.Model, backend: b}, nil
}

// Provider returns the backend name.
func (c *Client) Provider() string { return c.provider }

// Model returns the default model used when a request leaves it empty.
func (c *Client) Model() string { return c.model }

// Generate sends one prompt to the provider and returns the completion text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	slog.Debug("Client.Generate: sending request", "provider", c.provider, "model", model, "format", req.Format.String(), "prompt_length", len(req.Prompt))

	text, err := c.backend.generate(ctx, model, req.Prompt, req.Format)
	if err != nil {
		slog.Debug("Client.Generate: provider call failed", "provider", c.provider, "error", err)
		return "", fmt.Errorf("%s generate: %w", c.provider, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s generate: %w", c.provider, ErrEmptyResponse)
	}
	slog.Debug("Client.Generate: received response", "provider", c.provider, "response_length", len(text))
	return text, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	if c == nil || c.backend == nil {
		return nil
	}
	return c.backend.close()
}
