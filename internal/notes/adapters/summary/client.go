// Package summary содержит клиент сервиса генерации резюме.
package summary

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/services"
	"notebuddy/pkg/logger"
	"notebuddy/pkg/resilience"
)

// FallbackText возвращается вместо резюме, когда сервис недоступен.
const FallbackText = "Unable to generate summary at this time."

const (
	LogGenerating     = "generating summary"
	LogGenerated      = "summary generated"
	LogFallback       = "summary service unavailable, using fallback"
	LogCircuitRejects = "summary service circuit is open, using fallback"
)

// ErrEmptyCompletion - модель вернула пустой ответ.
var ErrEmptyCompletion = errors.New("empty completion")

// Completer отправляет запрос модели и возвращает текст ответа.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client реализует services.Summarizer. Ошибки модели не пробрасываются.
type Client struct {
	completer Completer
	breaker   *resilience.CircuitBreaker
}

// NewClient создает клиента. breaker может быть nil.
func NewClient(completer Completer, breaker *resilience.CircuitBreaker) *Client {
	return &Client{completer: completer, breaker: breaker}
}

var _ services.Summarizer = (*Client)(nil)

// Summarize генерирует резюме текста в заданном стиле.
func (c *Client) Summarize(ctx context.Context, content string, style entities.SummaryStyle) services.Summary {
	log := logger.Log(ctx).With(zap.String("method", "summary.Summarize"), zap.String("style", string(style)))
	log.Debug(ctx, LogGenerating, zap.Int("content_length", len(content)))

	prompt := BuildPrompt(content, style)

	var text string
	call := func(ctx context.Context) error {
		out, err := c.completer.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(out)
		if text == "" {
			return ErrEmptyCompletion
		}
		return nil
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}

	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			log.Warn(ctx, LogCircuitRejects)
		} else {
			log.Warn(ctx, LogFallback, zap.Error(err))
		}
		return services.Summary{Text: FallbackText, Fallback: true}
	}

	log.Debug(ctx, LogGenerated, zap.Int("summary_length", len(text)))
	return services.Summary{Text: text}
}
