// Package planner orchestrates study plan and chat requests.
//
// It owns the live/mock decision, builds prompts, calls the configured
// GenAI provider and applies the fallback policy. Failures never reach the
// caller as errors; each call reports an Outcome instead.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/BTreeMap/StudyPlanner/internal/genai"
	"github.com/BTreeMap/StudyPlanner/internal/models"
)

// Outcome classifies the result of one orchestration call.
type Outcome string

const (
	// OutcomeSuccess means the provider answered and the answer was usable.
	OutcomeSuccess Outcome = "success"
	// OutcomeProviderError means the provider call itself failed.
	OutcomeProviderError Outcome = "providerError"
	// OutcomeParseError means the provider answered with malformed JSON.
	OutcomeParseError Outcome = "parseError"
	// OutcomeMock means the service runs without a credential.
	OutcomeMock Outcome = "mock"
)

// Degraded reports whether a fallback value was served.
func (o Outcome) Degraded() bool {
	return o != OutcomeSuccess
}

// Config is captured once at startup and never changes afterwards.
type Config struct {
	Provider string // "gemini" or "openai"
	APIKey   string // credential for Provider; empty means mock mode
	Model    string // empty selects the provider default
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator injects a ready generator, bypassing client construction.
// A service built with a generator is always live.
func WithGenerator(g genai.Generator) Option {
	return func(s *Service) { s.gen = g }
}

// Service is safe for concurrent use; nothing is mutated after NewService.
type Service struct {
	cfg    Config
	gen    genai.Generator
	live   bool
	policy fallbackPolicy
}

// NewService decides live or mock mode exactly once.
func NewService(ctx context.Context, cfg Config, opts ...Option) *Service {
	cfg.Provider = genai.NormalizeProvider(cfg.Provider)
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.gen != nil:
		s.live = true
	case cfg.APIKey == "":
		slog.Warn("Planner credential not found. Running in Mock Mode.", "provider", cfg.Provider)
	default:
		client, err := genai.NewClient(ctx,
			genai.WithProvider(cfg.Provider),
			genai.WithAPIKey(cfg.APIKey),
			genai.WithModel(cfg.Model))
		if err != nil {
			slog.Error("Planner failed to create GenAI client. Running in Mock Mode.", "provider", cfg.Provider, "error", err)
			break
		}
		s.gen = client
		s.live = true
	}

	slog.Info("Planner initialized", "provider", cfg.Provider, "live", s.live, "model", cfg.Model)
	return s
}

// Live reports whether calls reach the provider.
func (s *Service) Live() bool { return s.live }

// GenerateStudyPlan returns the provider's JSON plan unchanged, or the mock
// plan in mock mode and on any failure.
func (s *Service) GenerateStudyPlan(ctx context.Context, req models.StudyPlanRequest) (json.RawMessage, Outcome) {
	if !s.live {
		return s.policy.plan(OutcomeMock), OutcomeMock
	}

	prompt := BuildStudyPlanPrompt(req)
	text, err := s.gen.Generate(ctx, genai.Request{Model: s.cfg.Model, Prompt: prompt, Format: genai.FormatJSON})
	if err != nil {
		slog.Error("Service.GenerateStudyPlan: error generating plan", "error", err)
		return s.policy.plan(OutcomeProviderError), OutcomeProviderError
	}

	plan, err := parsePlan(text)
	if err != nil {
		slog.Error("Service.GenerateStudyPlan: provider returned invalid JSON", "error", err, "response_length", len(text))
		return s.policy.plan(OutcomeParseError), OutcomeParseError
	}
	slog.Debug("Service.GenerateStudyPlan: plan generated", "bytes", len(plan))
	return plan, OutcomeSuccess
}

// ChatResponse answers a student's message, echoing it in mock mode and
// apologising when the provider fails.
func (s *Service) ChatResponse(ctx context.Context, message string) (string, Outcome) {
	if !s.live {
		return s.policy.chat(OutcomeMock, message), OutcomeMock
	}

	text, err := s.gen.Generate(ctx, genai.Request{Model: s.cfg.Model, Prompt: BuildChatPrompt(message), Format: genai.FormatText})
	if err != nil {
		slog.Error("Service.ChatResponse: error in chat", "error", err)
		return s.policy.chat(OutcomeProviderError, message), OutcomeProviderError
	}
	return text, OutcomeSuccess
}

// Close releases the provider client if it holds resources.
func (s *Service) Close() error {
	if c, ok := s.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// parsePlan accepts any valid JSON document and returns it compacted.
func parsePlan(text string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}
