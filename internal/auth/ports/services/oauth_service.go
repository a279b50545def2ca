package services

import (
	"context"
	"net/url"

	"notebuddy/internal/auth/domain/services"
)

// OAuthService ведет redirect-поток входа через внешнего провайдера.
type OAuthService interface {
	// Begin возвращает адрес авторизации и сохраняет сессию провайдера по state.
	Begin(ctx context.Context, provider string) (*services.OAuthRedirect, error)

	// Complete забирает сессию по state, обменивает код из params на токен
	// провайдера и возвращает подтвержденного пользователя.
	Complete(ctx context.Context, provider, state string, params url.Values) (*services.OAuthIdentity, error)

	// Providers возвращает имена настроенных провайдеров.
	Providers() []string
}
