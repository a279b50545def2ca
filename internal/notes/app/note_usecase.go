// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/cache"
	"notebuddy/internal/notes/ports/repositories"
	"notebuddy/internal/notes/ports/services"
	"notebuddy/pkg/logger"
	"notebuddy/pkg/metrics"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound        = errors.New("note not found")
	ErrUnauthenticated = errors.New("user is not authenticated")
	ErrInvalidParams   = errors.New("invalid parameters")
)

const (
	methodFetch     = "NotesSync.Fetch"
	methodCreate    = "NotesSync.Create"
	methodUpdate    = "NotesSync.Update"
	methodDelete    = "NotesSync.Delete"
	methodSummarize = "NotesSync.Summarize"
	methodPreview   = "NotesSync.Preview"

	msgCacheHit           = "notes served from cache"
	msgCacheReadFailed    = "notes cache read failed, loading from repository"
	msgCacheWriteFailed   = "failed to store notes in cache"
	msgCacheStale         = "notes changed while loading, cache write skipped"
	msgInvalidationFailed = "failed to invalidate notes cache"
	msgNoteCreated        = "note created"
	msgNoteUpdated        = "note updated"
	msgNoteDeleted        = "note deleted"
	msgSummarySkipped     = "content too short to summarize"
	msgSummaryFallback    = "summary service degraded, note left unchanged"
	msgSummaryStored      = "summary stored"
	msgSummarizeRequest   = "summarize requested"
	msgRepositoryFailed   = "repository call failed"
	msgPreviewGenerated   = "summary preview generated"

	errCtxListing        = "listing notes"
	errCtxGetting        = "getting note"
	errCtxCreating       = "creating note"
	errCtxUpdating       = "updating note"
	errCtxDeleting       = "deleting note"
	errCtxStoringSummary = "storing summary"
)

// ListOptions - параметры выборки списка заметок.
type ListOptions struct {
	Sort  entities.SortOrder
	Query string
}

// CreateInput - данные новой заметки.
type CreateInput struct {
	Title   string
	Content string
	Summary *string
}

// NotePatch - частичное изменение заметки. Nil-поля не меняются.
// ClearSummary удаляет резюме; Summary задает новое.
type NotePatch = entities.NoteChanges

// SummaryResult - итог Summarize и Preview.
type SummaryResult struct {
	// Note - заметка после записи резюме; nil, если запись не выполнялась.
	Note     *entities.Note
	Summary  string
	Fallback bool
	Skipped  bool
}

// NotesSync связывает хранилище заметок, кэш коллекций и сервис резюме.
// После каждой успешной мутации кэш коллекции пользователя инвалидируется.
type NotesSync struct {
	repo       repositories.NoteRepository
	cache      cache.NotesCache
	summarizer services.Summarizer
	metrics    *metrics.Metrics
	now        func() time.Time

	inflight *inflightRegistry
	group    singleflight.Group
}

// NewNotesSync создает NotesSync. m может быть nil.
func NewNotesSync(
	repo repositories.NoteRepository,
	notesCache cache.NotesCache,
	summarizer services.Summarizer,
	m *metrics.Metrics,
) *NotesSync {
	return &NotesSync{
		repo:       repo,
		cache:      notesCache,
		summarizer: summarizer,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
		inflight:   newInflightRegistry(),
	}
}

// WithClock подменяет источник времени. Для тестов.
func (s *NotesSync) WithClock(now func() time.Time) *NotesSync {
	s.now = now
	return s
}

// Fetch возвращает заметки пользователя, новые первыми. Для пустого userID
// возвращается пустая коллекция без обращения к хранилищу.
func (s *NotesSync) Fetch(ctx context.Context, userID string) ([]*entities.Note, error) {
	if userID == "" {
		return []*entities.Note{}, nil
	}

	log := logger.Log(ctx).With(zap.String("method", methodFetch), zap.String("userID", userID))

	notes, hit, err := s.cache.Get(ctx, userID)
	switch {
	case err != nil:
		s.metrics.ObserveCache(metrics.CacheError)
		log.Warn(ctx, msgCacheReadFailed, zap.Error(err))
	case hit:
		s.metrics.ObserveCache(metrics.CacheHit)
		log.Debug(ctx, msgCacheHit, zap.Int("count", len(notes)))
		return notes, nil
	default:
		s.metrics.ObserveCache(metrics.CacheMiss)
	}

	// Поколение читается до загрузки: мутация, завершившаяся во время
	// чтения из хранилища, сделает эту запись в кэш устаревшей.
	gen, genErr := s.cache.Generation(ctx, userID)
	if genErr != nil {
		log.Warn(ctx, msgCacheWriteFailed, zap.Error(genErr))
	}

	notes, err = s.repo.ListByUserID(ctx, userID)
	if err != nil {
		log.Error(ctx, msgRepositoryFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListing, err)
	}

	if genErr == nil {
		stored, err := s.cache.Set(ctx, userID, gen, notes)
		switch {
		case err != nil:
			log.Warn(ctx, msgCacheWriteFailed, zap.Error(err))
		case !stored:
			log.Debug(ctx, msgCacheStale, zap.Int64("generation", gen))
		}
	}

	return notes, nil
}

// List возвращает отфильтрованные и упорядоченные заметки пользователя.
func (s *NotesSync) List(ctx context.Context, userID string, opts ListOptions) ([]*entities.Note, error) {
	notes, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entities.SortNotes(entities.FilterNotes(notes, opts.Query), opts.Sort), nil
}

// Get возвращает заметку пользователя.
func (s *NotesSync) Get(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, wrapRepoErr(errCtxGetting, err)
	}
	return note, nil
}

// Create создает заметку текущего пользователя.
func (s *NotesSync) Create(ctx context.Context, userID string, in CreateInput) (*entities.Note, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("userID", userID))

	note := entities.NewNote(userID, in.Title, in.Content, in.Summary, s.now())
	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	created, err := s.repo.Create(ctx, note)
	if err != nil {
		log.Error(ctx, msgRepositoryFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreating, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", created.ID))
	s.invalidate(ctx, userID)
	return created, nil
}

// Update применяет patch и обновляет updated_at, даже если поля не менялись.
// Изменение текста не сбрасывает резюме. Поля, не заданные в patch,
// не перезаписываются.
func (s *NotesSync) Update(ctx context.Context, userID, noteID string, patch NotePatch) (*entities.Note, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	log := logger.Log(ctx).With(
		zap.String("method", methodUpdate),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)

	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	updated, err := s.repo.Update(ctx, noteID, userID, patch.Normalize(), s.now())
	if err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgRepositoryFailed, zap.Error(err))
		}
		return nil, wrapRepoErr(errCtxUpdating, err)
	}

	log.Info(ctx, msgNoteUpdated)
	s.invalidate(ctx, userID)
	return updated, nil
}

// Delete удаляет заметку без возможности восстановления.
func (s *NotesSync) Delete(ctx context.Context, userID, noteID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	log := logger.Log(ctx).With(
		zap.String("method", methodDelete),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)

	if err := s.repo.Delete(ctx, noteID, userID); err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgRepositoryFailed, zap.Error(err))
		}
		return wrapRepoErr(errCtxDeleting, err)
	}

	log.Info(ctx, msgNoteDeleted)
	s.invalidate(ctx, userID)
	return nil
}

// Summarize генерирует и сохраняет резюме заметки. Пустой content означает
// текст, сохраненный в заметке. Чужая или отсутствующая заметка дает
// ErrNotFound до любых других проверок. Текст не длиннее
// MinSummarizableLength символов не отправляется в сервис. Если сервис
// недоступен, возвращается заглушка с Fallback, а прежнее резюме остается
// без изменений.
func (s *NotesSync) Summarize(
	ctx context.Context, userID, noteID, content string, style entities.SummaryStyle,
) (*SummaryResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	log := logger.Log(ctx).With(
		zap.String("method", methodSummarize),
		zap.String("userID", userID),
		zap.String("noteID", noteID),
	)
	log.Debug(ctx, msgSummarizeRequest, zap.String("style", string(style)))

	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			log.Error(ctx, msgRepositoryFailed, zap.Error(err))
		}
		return nil, wrapRepoErr(errCtxGetting, err)
	}
	if strings.TrimSpace(content) == "" {
		content = note.Content
	}

	if !entities.Summarizable(content) {
		log.Debug(ctx, msgSummarySkipped)
		s.metrics.ObserveSummary(metrics.SummarySkipped)
		return &SummaryResult{Skipped: true}, nil
	}

	s.inflight.begin(userID, noteID)
	defer s.inflight.end(userID, noteID)

	// Вызов сервиса разделяют только запросы с одинаковыми заметкой,
	// стилем и текстом. Отмена запроса не прерывает уже начатую генерацию.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(summarizeKey(userID, noteID, content, style), func() (any, error) {
		return s.summarizeAndStore(shared, userID, noteID, content, style)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	res := *v.(*SummaryResult)
	if res.Note != nil {
		res.Note = res.Note.Clone()
	}
	if res.Fallback {
		log.Warn(ctx, msgSummaryFallback)
	}
	return &res, nil
}

func summarizeKey(userID, noteID, content string, style entities.SummaryStyle) string {
	sum := sha256.Sum256([]byte(content))
	return userID + "/" + noteID + "/" + string(style) + "/" + hex.EncodeToString(sum[:])
}

func (s *NotesSync) summarizeAndStore(
	ctx context.Context, userID, noteID, content string, style entities.SummaryStyle,
) (*SummaryResult, error) {
	out := s.summarizer.Summarize(ctx, content, style)
	if out.Fallback {
		s.metrics.ObserveSummary(metrics.SummaryFallback)
		return &SummaryResult{Summary: out.Text, Fallback: true}, nil
	}
	s.metrics.ObserveSummary(metrics.SummarySuccess)

	note, err := s.repo.UpdateSummary(ctx, noteID, userID, out.Text, s.now())
	if err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) {
			logger.Log(ctx).Error(ctx, msgRepositoryFailed, zap.String("noteID", noteID), zap.Error(err))
		}
		return nil, wrapRepoErr(errCtxStoringSummary, err)
	}

	logger.Log(ctx).Info(ctx, msgSummaryStored, zap.String("noteID", noteID))
	s.invalidate(ctx, userID)
	return &SummaryResult{Note: note, Summary: out.Text}, nil
}

// Summarizing возвращает заметки пользователя, для которых сейчас идет генерация.
func (s *NotesSync) Summarizing(_ context.Context, userID string) []string {
	return s.inflight.list(userID)
}

// Preview генерирует резюме без сохранения.
func (s *NotesSync) Preview(ctx context.Context, content string, style entities.SummaryStyle) *SummaryResult {
	log := logger.Log(ctx).With(zap.String("method", methodPreview))

	if !entities.Summarizable(content) {
		log.Debug(ctx, msgSummarySkipped)
		s.metrics.ObserveSummary(metrics.SummarySkipped)
		return &SummaryResult{Skipped: true}
	}

	out := s.summarizer.Summarize(ctx, content, style)
	if out.Fallback {
		s.metrics.ObserveSummary(metrics.SummaryFallback)
	} else {
		s.metrics.ObserveSummary(metrics.SummarySuccess)
	}

	log.Debug(ctx, msgPreviewGenerated, zap.Bool("fallback", out.Fallback))
	return &SummaryResult{Summary: out.Text, Fallback: out.Fallback}
}

// InvalidateCache сбрасывает кэш коллекции пользователя.
func (s *NotesSync) InvalidateCache(ctx context.Context, userID string) error {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", msgInvalidationFailed, err)
	}
	return nil
}

// invalidate вызывается после успешной мутации; ошибка только логируется.
func (s *NotesSync) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log(ctx).Warn(ctx, msgInvalidationFailed, zap.String("userID", userID), zap.Error(err))
	}
}

func wrapRepoErr(op string, err error) error {
	if errors.Is(err, entities.ErrNoteNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
