package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/bornholm/genai/llm"
	"github.com/bornholm/genai/llm/provider"
	"github.com/bornholm/genai/llm/provider/mistral"
	"github.com/bornholm/genai/llm/provider/openai"
)

// ErrUnknownProvider - провайдер не зарегистрирован в genai.
var ErrUnknownProvider = errors.New("unknown llm provider")

// GenAIConfig - параметры подключения к модели.
type GenAIConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
}

// GenAICompleter реализует Completer через llm.Client.
type GenAICompleter struct {
	client llm.Client
}

// NewGenAICompleter создает клиента выбранного провайдера.
func NewGenAICompleter(ctx context.Context, cfg GenAIConfig) (*GenAICompleter, error) {
	opt, err := chatCompletionOption(cfg)
	if err != nil {
		return nil, err
	}

	client, err := provider.Create(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	return NewCompleterFromClient(client), nil
}

// chatCompletionOption выбирает структуру опций по имени провайдера.
// Пустой BaseURL заменяется адресом провайдера по умолчанию.
func chatCompletionOption(cfg GenAIConfig) (provider.OptionFunc, error) {
	common := provider.CommonOptions{
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
	}

	switch provider.Name(cfg.Provider) {
	case openai.Name:
		if common.BaseURL == "" {
			common.BaseURL = "https://api.openai.com/v1"
		}
		return provider.WithChatCompletion(openai.Name, openai.Options{CommonOptions: common}), nil
	case mistral.Name:
		if common.BaseURL == "" {
			common.BaseURL = "https://api.mistral.ai/v1"
		}
		return provider.WithChatCompletion(mistral.Name, mistral.Options{CommonOptions: common}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewCompleterFromClient оборачивает готовый llm.Client.
func NewCompleterFromClient(client llm.Client) *GenAICompleter {
	return &GenAICompleter{client: client}
}

// Complete отправляет prompt одним пользовательским сообщением.
func (g *GenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.ChatCompletion(ctx,
		llm.WithMessages(
			llm.NewMessage(llm.RoleUser, prompt),
		),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return completion.Message().Content(), nil
}
