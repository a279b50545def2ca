package middleware

import (
	"github.com/gofiber/fiber/v3"

	"notebuddy/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware сохраняет идентификатор запроса в контексте логгера.
// Идентификатор берется из заголовка X-Request-ID или генерируется и
// возвращается клиенту в том же заголовке.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		reqCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))
		requestID, _ := logger.GetRequestID(reqCtx)

		ctx.Set(HeaderRequestID, requestID)
		ctx.Locals(localRequestContext, reqCtx)

		return ctx.Next()
	}
}
