package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/entities"
	"notebuddy/internal/auth/domain/services"
	"notebuddy/pkg/logger"
)

const (
	methodBeginOAuth    = "BeginOAuth"
	methodCompleteOAuth = "CompleteOAuth"

	msgOAuthDisabled  = "oauth is not configured"
	msgOAuthFailed    = "oauth flow failed"
	msgOAuthSignedIn  = "user signed in with oauth"
	msgErrUpsertOAuth = "failed to find or create oauth user"

	errCtxBeginOAuth    = "beginning oauth"
	errCtxCompleteOAuth = "completing oauth"
	errCtxUpsertUser    = "finding or creating oauth user"
)

// BeginOAuth возвращает адрес авторизации у провайдера.
func (a *AuthUseCaseImpl) BeginOAuth(ctx context.Context, provider string) (*services.OAuthRedirect, error) {
	log := logger.Log(ctx).With(zap.String("method", methodBeginOAuth), zap.String("provider", provider))

	if a.oauthSvc == nil {
		log.Debug(ctx, msgOAuthDisabled)
		return nil, fmt.Errorf("%s: %w", errCtxBeginOAuth, services.ErrUnsupportedProvider)
	}

	redirect, err := a.oauthSvc.Begin(ctx, provider)
	if err != nil {
		log.Debug(ctx, msgOAuthFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxBeginOAuth, err)
	}
	return redirect, nil
}

// CompleteOAuth завершает вход через провайдера: находит или создает
// локального пользователя по email и выдает сессию.
func (a *AuthUseCaseImpl) CompleteOAuth(
	ctx context.Context, provider, state string, params url.Values,
) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCompleteOAuth), zap.String("provider", provider))

	if a.oauthSvc == nil {
		log.Debug(ctx, msgOAuthDisabled)
		return nil, fmt.Errorf("%s: %w", errCtxCompleteOAuth, services.ErrUnsupportedProvider)
	}

	identity, err := a.oauthSvc.Complete(ctx, provider, state, params)
	if err != nil {
		log.Debug(ctx, msgOAuthFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCompleteOAuth, err)
	}

	email := normalizeEmail(identity.Email)
	username := strings.TrimSpace(identity.Name)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	user, err := a.userRepo.FindOrCreateByEmail(ctx, &entities.User{
		Email:     email,
		Username:  username,
		AvatarURL: identity.AvatarURL,
		Provider:  identity.Provider,
	})
	if err != nil {
		log.Error(ctx, msgErrUpsertOAuth, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpsertUser, err)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgOAuthSignedIn, zap.String("userID", user.ID))
	a.publish(ctx, services.SessionSignedIn, user.ID)
	return tokenPair, nil
}
