package services

import (
	"context"

	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/domain/entities"
)

// NotesService определяет интерфейс для работы с заметками пользователя.
type NotesService interface {
	// List возвращает отфильтрованные и отсортированные заметки.
	List(ctx context.Context, userID string, opts notesapp.ListOptions) ([]*entities.Note, error)

	Get(ctx context.Context, userID, noteID string) (*entities.Note, error)

	Create(ctx context.Context, userID string, in notesapp.CreateInput) (*entities.Note, error)

	Update(ctx context.Context, userID, noteID string, patch notesapp.NotePatch) (*entities.Note, error)

	Delete(ctx context.Context, userID, noteID string) error

	// Summarize генерирует и сохраняет резюме заметки.
	Summarize(
		ctx context.Context, userID, noteID, content string, style entities.SummaryStyle,
	) (*notesapp.SummaryResult, error)

	// Summarizing возвращает ID заметок, для которых сейчас генерируется резюме.
	Summarizing(ctx context.Context, userID string) []string

	// Preview генерирует резюме без сохранения.
	Preview(ctx context.Context, content string, style entities.SummaryStyle) *notesapp.SummaryResult
}
