// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"
	"time"

	"notebuddy/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// Все операции ограничены владельцем userID; чужая или отсутствующая
// заметка дает entities.ErrNoteNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error)
	ListByUserID(ctx context.Context, userID string) ([]*entities.Note, error)
	// Update меняет только заданные в changes поля одним запросом.
	Update(ctx context.Context, noteID, userID string, changes entities.NoteChanges, updatedAt time.Time) (*entities.Note, error)
	UpdateSummary(ctx context.Context, noteID, userID, summary string, updatedAt time.Time) (*entities.Note, error)
	Delete(ctx context.Context, noteID, userID string) error
}
