package genai

import (
	"context"

	"github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// chatService defines minimal interface for chat completions.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error)
}

// completionsAdapter adapts the SDK's ChatCompletionService to chatService.
type completionsAdapter struct {
	completions openai.ChatCompletionService
}

func (a completionsAdapter) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	resp, err := a.completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletion{}, err
	}
	return *resp, nil
}

type openAIBackend struct {
	chat chatService
}

func newOpenAIBackend(apiKey string) *openAIBackend {
	cli := openai.NewClient(oaoption.WithAPIKey(apiKey))
	return &openAIBackend{chat: completionsAdapter{completions: cli.Chat.Completions}}
}

func (o *openAIBackend) generate(ctx context.Context, model, prompt string, format Format) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if format == FormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.chat.Create(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoicesReturned
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *openAIBackend) close() error { return nil }
