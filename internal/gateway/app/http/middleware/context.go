// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи fiber.Locals с контекстами запроса.
const (
	localRequestContext = "requestContext"
	localUserContext    = "userContext"
)

type userIDKeyType struct{}

var userIDKey = userIDKeyType{}

// RequestContext возвращает контекст запроса: после аутентификации он
// содержит ID пользователя, до нее только идентификатор запроса.
func RequestContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals(localUserContext).(context.Context); ok {
		return userCtx
	}
	if reqCtx, ok := ctx.Locals(localRequestContext).(context.Context); ok {
		return reqCtx
	}
	return ctx.Context()
}

// WithUserID сохраняет ID пользователя в контексте.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID извлекает ID пользователя; пустая строка, если запрос не аутентифицирован.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
