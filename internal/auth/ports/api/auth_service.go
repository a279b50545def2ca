package api

import (
	"context"
	"net/url"

	"notebuddy/internal/auth/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации.
type AuthUseCase interface {
	SignUp(ctx context.Context, email, username, password string) (*services.TokenPair, error)

	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)

	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	SignOut(ctx context.Context, refreshToken string) error

	ValidateAccessToken(ctx context.Context, accessToken string) (string, error)
}

// OAuthUseCase определяет порт входа через внешних провайдеров.
type OAuthUseCase interface {
	BeginOAuth(ctx context.Context, provider string) (*services.OAuthRedirect, error)

	CompleteOAuth(ctx context.Context, provider, state string, params url.Values) (*services.TokenPair, error)
}
