// Package auth содержит HTTP обработчики аутентификации и профиля пользователя.
package auth

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebuddy/internal/gateway/app/dto"
	"notebuddy/internal/gateway/app/http/middleware"
	"notebuddy/internal/gateway/app/http/response"
	"notebuddy/internal/gateway/ports/services"
	"notebuddy/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSignUp        = "auth handler: sign up"
	LogHandlerSignIn        = "auth handler: sign in"
	LogHandlerRefreshTokens = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerSignOut       = "auth handler: sign out"
	LogHandlerGetProfile    = "auth handler: get profile"
	LogHandlerBeginOAuth    = "auth handler: begin oauth"
	LogHandlerOAuthCallback = "auth handler: oauth callback"

	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	authService services.AuthService
	userService services.UserService
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authService services.AuthService, userService services.UserService) *Handler {
	return &Handler{
		authService: authService,
		userService: userService,
	}
}

// SignUp обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) SignUp(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSignUp)

	var req dto.SignUpRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidRequest, zap.Error(err))
		return response.BadRequest(ctx, response.MsgInvalidRequest)
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return response.BadRequest(ctx, "email, username and password are required")
	}

	pair, err := h.authService.SignUp(requestCtx, req.Email, req.Username, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// SignIn обрабатывает запрос на вход пользователя.
func (h *Handler) SignIn(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSignIn)

	var req dto.SignInRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidRequest, zap.Error(err))
		return response.BadRequest(ctx, response.MsgInvalidRequest)
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(ctx, "email and password are required")
	}

	pair, err := h.authService.SignIn(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// RefreshTokens обрабатывает запрос на обновление токенов.
func (h *Handler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefreshTokens)

	var req dto.RefreshRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidRequest, zap.Error(err))
		return response.BadRequest(ctx, response.MsgInvalidRequest)
	}

	if req.RefreshToken == "" {
		return response.BadRequest(ctx, "refresh token is required")
	}

	pair, err := h.authService.Refresh(requestCtx, req.RefreshToken)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// SignOut обрабатывает запрос на выход пользователя.
func (h *Handler) SignOut(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSignOut)

	var req dto.SignOutRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidRequest, zap.Error(err))
		return response.BadRequest(ctx, response.MsgInvalidRequest)
	}

	if req.RefreshToken == "" {
		return response.BadRequest(ctx, "refresh token is required")
	}

	if err := h.authService.SignOut(requestCtx, req.RefreshToken); err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.SendStatus(http.StatusNoContent); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// GetProfile возвращает профиль аутентифицированного пользователя.
func (h *Handler) GetProfile(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetProfile)

	user, err := h.userService.Profile(requestCtx, middleware.UserID(requestCtx))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewUserProfileResponse(user)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// BeginOAuth перенаправляет пользователя на страницу авторизации провайдера.
func (h *Handler) BeginOAuth(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	provider := ctx.Params("provider")
	log := logger.Log(requestCtx).With(zap.String("provider", provider))
	log.Info(requestCtx, LogHandlerBeginOAuth)

	redirect, err := h.authService.BeginOAuth(requestCtx, provider)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Redirect().Status(http.StatusTemporaryRedirect).To(redirect.URL); err != nil {
		return fmt.Errorf("sending redirect: %w", err)
	}
	return nil
}

// OAuthCallback завершает вход через провайдера и выдает пару токенов.
func (h *Handler) OAuthCallback(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	provider := ctx.Params("provider")
	log := logger.Log(requestCtx).With(zap.String("provider", provider))
	log.Info(requestCtx, LogHandlerOAuthCallback)

	params, err := url.ParseQuery(string(ctx.Request().URI().QueryString()))
	if err != nil {
		log.Debug(requestCtx, response.MsgInvalidRequest, zap.Error(err))
		return response.BadRequest(ctx, response.MsgInvalidRequest)
	}

	pair, err := h.authService.CompleteOAuth(requestCtx, provider, params.Get("state"), params)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
