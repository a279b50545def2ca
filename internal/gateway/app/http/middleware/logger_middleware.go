package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebuddy/pkg/logger"
	"notebuddy/pkg/metrics"
)

// NewLoggerMiddleware создает промежуточное ПО для логирования HTTP запросов
// и учета их длительности. Ошибка обработчика передается в ErrorHandler
// приложения до записи статуса.
func NewLoggerMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		start := time.Now()
		method := ctx.Method()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", method),
			zap.String("ip", ctx.IP()),
		)

		log.Debug(requestCtx, "Request started")

		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().Config().ErrorHandler(ctx, chainErr); err != nil {
				log.Error(requestCtx, "Request failed", zap.Error(err))
				return fmt.Errorf("request processing error: %w", err)
			}
		}

		latency := time.Since(start)
		status := ctx.Response().StatusCode()
		m.ObserveHTTP(method, ctx.Route().Path, status, latency)

		logFields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		if chainErr != nil {
			logFields = append(logFields, zap.Error(chainErr))
		}

		if status >= fiber.StatusInternalServerError {
			log.Error(requestCtx, "Request completed", logFields...)
			return nil
		}
		log.Info(requestCtx, "Request completed", logFields...)
		return nil
	}
}
