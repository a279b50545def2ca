// Package response отображает ошибки приложения в HTTP-ответы.
package response

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authentities "notebuddy/internal/auth/domain/entities"
	authservices "notebuddy/internal/auth/domain/services"
	"notebuddy/internal/gateway/app/http/middleware"
	notesapp "notebuddy/internal/notes/app"
	notesentities "notebuddy/internal/notes/domain/entities"
	"notebuddy/pkg/logger"
)

// Сообщения, не раскрывающие детали ошибки.
const (
	MsgInternalError  = "Internal server error"
	MsgInvalidRequest = "invalid request"
	MsgRouteNotFound  = "Route not found"
)

type mapping struct {
	err    error
	status int
}

// Порядок важен: первое совпадение по errors.Is определяет статус.
var mappings = []mapping{
	{notesapp.ErrInvalidParams, fiber.StatusBadRequest},
	{notesentities.ErrInvalidStyle, fiber.StatusBadRequest},
	{notesentities.ErrInvalidSortOrder, fiber.StatusBadRequest},
	{notesentities.ErrEmptyTitle, fiber.StatusBadRequest},
	{notesentities.ErrEmptyContent, fiber.StatusBadRequest},
	{authentities.ErrInvalidEmail, fiber.StatusBadRequest},
	{authentities.ErrEmptyUsername, fiber.StatusBadRequest},
	{authentities.ErrPasswordTooShort, fiber.StatusBadRequest},
	{authentities.ErrPasswordTooWeak, fiber.StatusBadRequest},
	{authentities.ErrPasswordTooLong, fiber.StatusBadRequest},
	{authservices.ErrInvalidPassword, fiber.StatusBadRequest},

	{notesapp.ErrUnauthenticated, fiber.StatusUnauthorized},
	{authservices.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{authservices.ErrInvalidRefreshToken, fiber.StatusUnauthorized},
	{authservices.ErrRevokedRefreshToken, fiber.StatusUnauthorized},
	{authservices.ErrExpiredRefreshToken, fiber.StatusUnauthorized},
	{authservices.ErrInvalidJWTToken, fiber.StatusUnauthorized},
	{authservices.ErrExpiredJWTToken, fiber.StatusUnauthorized},
	{authservices.ErrInvalidOAuthState, fiber.StatusUnauthorized},
	{authservices.ErrOAuthFailed, fiber.StatusUnauthorized},
	{authservices.ErrOAuthEmailMissing, fiber.StatusUnauthorized},

	{notesapp.ErrNotFound, fiber.StatusNotFound},
	{authservices.ErrUnsupportedProvider, fiber.StatusNotFound},
	{authentities.ErrUserNotFound, fiber.StatusNotFound},

	{authservices.ErrEmailAlreadyExists, fiber.StatusConflict},
}

// Status возвращает HTTP-статус и безопасное сообщение для ошибки.
// Для неизвестных ошибок это 500 без подробностей.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, MsgInternalError
}

// Error записывает ответ с ошибкой. Ошибки 5xx логируются целиком.
func Error(ctx fiber.Ctx, err error) error {
	status, msg := Status(err)

	if status >= fiber.StatusInternalServerError {
		requestCtx := middleware.RequestContext(ctx)
		logger.Log(requestCtx).Error(requestCtx, "request failed", zap.Error(err))
	}

	if sendErr := ctx.Status(status).JSON(fiber.Map{"error": msg}); sendErr != nil {
		return fmt.Errorf("sending error response: %w", sendErr)
	}
	return nil
}

// BadRequest записывает ответ 400 с сообщением msg.
func BadRequest(ctx fiber.Ctx, msg string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("sending bad request response: %w", err)
	}
	return nil
}

// ErrorHandler - обработчик ошибок приложения fiber для ошибок,
// возвращенных из обработчиков.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	return Error(ctx, err)
}

// NotFound - обработчик несуществующих маршрутов.
func NotFound(ctx fiber.Ctx) error {
	if err := ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": MsgRouteNotFound}); err != nil {
		return fmt.Errorf("sending not found response: %w", err)
	}
	return nil
}
