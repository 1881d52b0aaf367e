package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const jsonMIMEType = "application/json"

// geminiService is the minimal slice of the Gemini SDK we depend on.
type geminiService interface {
	GenerateContent(ctx context.Context, model string, format Format, prompt string) (*genai.GenerateContentResponse, error)
	Close() error
}

// geminiSDK adapts *genai.Client to geminiService. A fresh GenerativeModel is
// built per call so concurrent requests never share generation config.
type geminiSDK struct {
	client *genai.Client
}

func (s geminiSDK) GenerateContent(ctx context.Context, model string, format Format, prompt string) (*genai.GenerateContentResponse, error) {
	m := s.client.GenerativeModel(model)
	if format == FormatJSON {
		m.ResponseMIMEType = jsonMIMEType
	}
	return m.GenerateContent(ctx, genai.Text(prompt))
}

func (s geminiSDK) Close() error {
	return s.client.Close()
}

type geminiBackend struct {
	svc geminiService
}

func newGeminiBackend(ctx context.Context, apiKey string) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}
	return &geminiBackend{svc: geminiSDK{client: client}}, nil
}

func (g *geminiBackend) generate(ctx context.Context, model, prompt string, format Format) (string, error) {
	resp, err := g.svc.GenerateContent(ctx, model, format, prompt)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (g *geminiBackend) close() error {
	return g.svc.Close()
}
