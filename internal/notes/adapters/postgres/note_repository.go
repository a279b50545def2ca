// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/repositories"
	pgdb "notebuddy/pkg/db/postgres"
	"notebuddy/pkg/logger"
)

// invalidTextRepresentation - код ошибки Postgres для некорректного UUID.
const invalidTextRepresentation = "22P02"

const noteColumns = `id, user_id, title, content, summary, created_at, updated_at`

const (
	queryCreateNote = `INSERT INTO notes (user_id, title, content, summary, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + noteColumns
	queryGetNote   = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	queryListNotes = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY updated_at DESC, id`
	queryUpdateNote = `UPDATE notes SET title = COALESCE($3::text, title), content = COALESCE($4::text, content), ` +
		`summary = CASE WHEN $5::boolean THEN NULL ELSE COALESCE($6::text, summary) END, updated_at = $7 ` +
		`WHERE id = $1 AND user_id = $2 RETURNING ` + noteColumns
	queryUpdateSummary = `UPDATE notes SET summary = $3, updated_at = $4 ` +
		`WHERE id = $1 AND user_id = $2 RETURNING ` + noteColumns
	queryDeleteNote = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
)

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool pgdb.Pool
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool pgdb.Pool) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID))

	created, err := scanNote(r.pool.QueryRow(ctx, queryCreateNote,
		note.UserID, note.Title, note.Content, note.Summary, note.CreatedAt, note.UpdatedAt,
	))
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return created, nil
}

// GetByID получает заметку по ID и ID пользователя.
func (r *NoteRepository) GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", noteID), zap.String("userID", userID))

	note, err := scanNote(r.pool.QueryRow(ctx, queryGetNote, noteID, userID))
	if err != nil {
		if isNotFound(err) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListByUserID возвращает все заметки пользователя, новые первыми.
func (r *NoteRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByUserID"))
	log.Debug(ctx, "listing notes", zap.String("userID", userID))

	rows, err := r.pool.Query(ctx, queryListNotes, userID)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Update меняет заданные поля. Незаданные колонки остаются как есть, поэтому
// резюме, записанное параллельно, не затирается правкой заголовка.
func (r *NoteRepository) Update(
	ctx context.Context, noteID, userID string, changes entities.NoteChanges, updatedAt time.Time,
) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", noteID))

	changes = changes.Normalize()
	updated, err := scanNote(r.pool.QueryRow(ctx, queryUpdateNote,
		noteID, userID, changes.Title, changes.Content, changes.ClearSummary, changes.Summary, updatedAt,
	))
	if err != nil {
		if isNotFound(err) {
			log.Debug(ctx, "note not found or not owned by user")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// UpdateSummary записывает резюме, не трогая остальные поля.
func (r *NoteRepository) UpdateSummary(
	ctx context.Context, noteID, userID, summary string, updatedAt time.Time,
) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.UpdateSummary"))
	log.Debug(ctx, "updating note summary", zap.String("noteID", noteID))

	updated, err := scanNote(r.pool.QueryRow(ctx, queryUpdateSummary, noteID, userID, summary, updatedAt))
	if err != nil {
		if isNotFound(err) {
			log.Debug(ctx, "note not found or not owned by user")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note summary", zap.Error(err))
		return nil, fmt.Errorf("failed to update note summary: %w", err)
	}

	return updated, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, noteID, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx, queryDeleteNote, noteID, userID)
	if err != nil {
		if isNotFound(err) {
			return entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}

	return nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	if err := row.Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.Summary, &note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &note, nil
}

// isNotFound: нет строки или id не является UUID.
func isNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
