// Package services описывает внешние сервисы, нужные заметкам.
package services

import (
	"context"

	"notebuddy/internal/notes/domain/entities"
)

// Summary - результат генерации резюме.
type Summary struct {
	Text string
	// Fallback означает, что сервис недоступен и Text - заглушка.
	Fallback bool
}

// Summarizer генерирует резюме текста. Ошибки сервиса не возвращаются:
// вместо них приходит Summary с Fallback.
type Summarizer interface {
	Summarize(ctx context.Context, content string, style entities.SummaryStyle) Summary
}
