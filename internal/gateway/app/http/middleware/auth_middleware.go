package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired access token"
)

const bearerPrefix = "Bearer "

// TokenValidator проверяет токен доступа и возвращает ID пользователя.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (string, error)
}

// NewAuthMiddleware создает промежуточное ПО для проверки аутентификации.
// ID пользователя из токена доступен обработчикам через UserID(RequestContext(ctx)).
func NewAuthMiddleware(validator TokenValidator) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		token, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || strings.TrimSpace(token) == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		userID, err := validator.ValidateAccessToken(requestCtx, strings.TrimSpace(token))
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return unauthorized(ctx, ErrorInvalidToken)
		}

		ctx.Locals(localUserContext, WithUserID(requestCtx, userID))

		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, msg string) error {
	if err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("sending unauthorized response: %w", err)
	}
	return nil
}
