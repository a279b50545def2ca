package services

import "errors"

// Ошибки входа через внешнего провайдера.
var (
	ErrUnsupportedProvider = errors.New("oauth provider is not configured")
	ErrInvalidOAuthState   = errors.New("oauth state is missing or expired")
	ErrOAuthFailed         = errors.New("oauth authorization failed")
	ErrOAuthEmailMissing   = errors.New("oauth provider returned no email")
)

// OAuthRedirect - адрес авторизации у провайдера и state, по которому
// будет найдена сессия при обратном вызове.
type OAuthRedirect struct {
	URL   string
	State string
}

// OAuthIdentity - пользователь, подтвержденный внешним провайдером.
type OAuthIdentity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}
