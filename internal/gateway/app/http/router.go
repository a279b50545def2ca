// Package http содержит HTTP сервер notebuddy.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"go.uber.org/zap"

	"notebuddy/internal/gateway/app/http/auth"
	"notebuddy/internal/gateway/app/http/middleware"
	"notebuddy/internal/gateway/app/http/notes"
	"notebuddy/internal/gateway/app/http/response"
	"notebuddy/internal/gateway/ports/services"
	"notebuddy/pkg/logger"
	"notebuddy/pkg/metrics"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck проверяет доступность зависимостей сервиса.
type HealthCheck func(ctx context.Context) error

// Dependencies - сервисы, которые обслуживает HTTP API.
type Dependencies struct {
	Auth    services.AuthService
	Users   services.UserService
	Notes   services.NotesService
	Metrics *metrics.Metrics
	Health  HealthCheck
}

// Config - параметры fiber.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer создает приложение fiber с настроенными маршрутами.
func NewServer(cfg Config, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "notebuddy",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: response.ErrorHandler,
	})

	SetupRouter(app, deps)
	return app
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	authHandler := auth.NewHandler(deps.Auth, deps.Users)
	notesHandler := notes.NewHandler(deps.Notes)
	requireAuth := middleware.NewAuthMiddleware(deps.Auth)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware(deps.Metrics))
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/healthz", healthHandler(deps.Health))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/sign-up", authHandler.SignUp)
	authRoutes.Post("/sign-in", authHandler.SignIn)
	authRoutes.Post("/refresh", authHandler.RefreshTokens)
	authRoutes.Post("/sign-out", authHandler.SignOut)
	authRoutes.Get("/oauth/:provider", authHandler.BeginOAuth)
	authRoutes.Get("/oauth/:provider/callback", authHandler.OAuthCallback)

	// Защищенные маршруты.
	userRoutes := apiV1.Group("/user", requireAuth)
	userRoutes.Get("/profile", authHandler.GetProfile)

	notesRoutes := apiV1.Group("/notes", requireAuth)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/summarizing", notesHandler.Summarizing)
	notesRoutes.Get("/:note_id", notesHandler.GetNote)
	notesRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Put("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)
	notesRoutes.Post("/:note_id/summarize", notesHandler.SummarizeNote)

	apiV1.Post("/summaries", requireAuth, notesHandler.Preview)

	// Обработчик для несуществующих маршрутов.
	app.Use(response.NotFound)
}

func healthHandler(check HealthCheck) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		if check != nil {
			requestCtx, cancel := context.WithTimeout(middleware.RequestContext(ctx), healthCheckTimeout)
			defer cancel()

			if err := check(requestCtx); err != nil {
				logger.Log(requestCtx).Warn(requestCtx, "health check failed", zap.Error(err))
				if sendErr := ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
				}); sendErr != nil {
					return fmt.Errorf("sending health response: %w", sendErr)
				}
				return nil
			}
		}

		if err := ctx.JSON(fiber.Map{"status": "ok"}); err != nil {
			return fmt.Errorf("sending health response: %w", err)
		}
		return nil
	}
}
