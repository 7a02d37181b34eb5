package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoCompleter drives any eino chat model.
type EinoCompleter struct {
	chatModel model.BaseChatModel
}

// NewEinoCompleter wraps an existing eino chat model.
func NewEinoCompleter(chatModel model.BaseChatModel) (*EinoCompleter, error) {
	if chatModel == nil {
		return nil, errors.New("llm: eino chat model is nil")
	}
	return &EinoCompleter{chatModel: chatModel}, nil
}

// NewEinoOpenAICompleter builds an eino OpenAI-compatible chat model. It
// works with any endpoint that speaks the OpenAI protocol.
func NewEinoOpenAICompleter(ctx context.Context, apiKey, modelName, baseURL string) (*EinoCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("llm: eino api key is required")
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	chatModel, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: init eino chat model: %w", err)
	}
	return NewEinoCompleter(chatModel)
}

// Complete implements Completer.
func (c *EinoCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("llm: eino: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Content), nil
}
