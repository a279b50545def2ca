package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

// ErrPanic оборачивает значение, с которым запаниковал обработчик.
var ErrPanic = errors.New("handler panic")

// NewRecoveryMiddleware превращает панику обработчика в ошибку цепочки.
// Ответ 500 формирует ErrorHandler приложения, запрос попадает в журнал
// и метрики как обычная ошибка.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestCtx := RequestContext(ctx)
			logger.Log(requestCtx).Error(requestCtx, "Server panic",
				zap.String("method", ctx.Method()),
				zap.String("path", ctx.Path()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)

			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}()

		return ctx.Next()
	}
}
