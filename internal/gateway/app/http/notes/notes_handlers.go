// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebuddy/internal/gateway/app/dto"
	"notebuddy/internal/gateway/app/http/middleware"
	"notebuddy/internal/gateway/app/http/response"
	"notebuddy/internal/gateway/ports/services"
	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/domain/entities"
	"notebuddy/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote  = "handling create note request"
	LogHandlerGetNote     = "handling get note request"
	LogHandlerListNotes   = "handling list notes request"
	LogHandlerUpdateNote  = "handling update note request"
	LogHandlerDeleteNote  = "handling delete note request"
	LogHandlerSummarize   = "handling summarize note request"
	LogHandlerSummarizing = "handling summarizing notes request"
	LogHandlerPreview     = "handling summary preview request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgRequestFailed      = "notes request failed"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesService services.NotesService
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesService services.NotesService) *Handler {
	return &Handler{
		notesService: notesService,
	}
}

// ListNotes возвращает заметки пользователя. Параметры: sort (newest,
// oldest, alphabetical) и q для поиска по подстроке.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(userCtx, LogHandlerListNotes)

	order, err := entities.ParseSortOrder(ctx.Query("sort"))
	if err != nil {
		return response.Error(ctx, err)
	}

	notes, err := h.notesService.List(userCtx, middleware.UserID(userCtx), notesapp.ListOptions{
		Sort:  order,
		Query: ctx.Query("q"),
	})
	if err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.JSON(dto.NewListNotesResponse(notes)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(userCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return response.BadRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notesService.Create(userCtx, middleware.UserID(userCtx), notesapp.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
	})
	if err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(dto.NoteResponse{Note: dto.NewNote(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(userCtx, LogHandlerGetNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return response.BadRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.notesService.Get(userCtx, middleware.UserID(userCtx), noteID)
	if err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.JSON(dto.NoteResponse{Note: dto.NewNote(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(userCtx, LogHandlerUpdateNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return response.BadRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return response.BadRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notesService.Update(userCtx, middleware.UserID(userCtx), noteID, req.Patch())
	if err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.JSON(dto.NoteResponse{Note: dto.NewNote(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(userCtx, LogHandlerDeleteNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return response.BadRequest(ctx, ErrMsgInvalidNoteID)
	}

	if err := h.notesService.Delete(userCtx, middleware.UserID(userCtx), noteID); err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// SummarizeNote генерирует и сохраняет резюме заметки. Тело запроса
// необязательно: без content используется сохраненный текст.
func (h *Handler) SummarizeNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.SummarizeNote"))
	log.Debug(userCtx, LogHandlerSummarize)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return response.BadRequest(ctx, ErrMsgInvalidNoteID)
	}

	req, style, ok, err := bindSummarizeRequest(ctx)
	if !ok {
		return err
	}

	result, err := h.notesService.Summarize(userCtx, middleware.UserID(userCtx), noteID, req.Content, style)
	if err != nil {
		log.Debug(userCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.JSON(dto.NewSummaryResponse(result)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Summarizing возвращает ID заметок, для которых генерируется резюме.
func (h *Handler) Summarizing(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerSummarizing)

	ids := h.notesService.Summarizing(userCtx, middleware.UserID(userCtx))
	if ids == nil {
		ids = []string{}
	}

	if err := ctx.JSON(dto.SummarizingResponse{NoteIDs: ids}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Preview генерирует резюме текста без сохранения.
func (h *Handler) Preview(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	logger.Log(userCtx).Debug(userCtx, LogHandlerPreview)

	req, style, ok, err := bindSummarizeRequest(ctx)
	if !ok {
		return err
	}

	result := h.notesService.Preview(userCtx, req.Content, style)

	if err := ctx.JSON(dto.NewSummaryResponse(result)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// bindSummarizeRequest читает необязательное тело и стиль. При ok == false
// ответ уже записан, а err нужно вернуть из обработчика.
func bindSummarizeRequest(ctx fiber.Ctx) (dto.SummarizeRequest, entities.SummaryStyle, bool, error) {
	var req dto.SummarizeRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.Bind().JSON(&req); err != nil {
			return req, "", false, response.BadRequest(ctx, ErrMsgInvalidRequestBody)
		}
	}

	style, err := entities.ParseSummaryStyle(req.Style)
	if err != nil {
		return req, "", false, response.Error(ctx, err)
	}
	return req, style, true, nil
}
