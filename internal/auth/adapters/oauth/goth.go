package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/services"
	svc "notebuddy/internal/auth/ports/services"
	"notebuddy/internal/config"
	"notebuddy/pkg/logger"
)

const (
	methodBegin    = "GothService.Begin"
	methodComplete = "GothService.Complete"

	msgAuthURLIssued    = "oauth authorization url issued"
	msgUserAuthorized   = "oauth user authorized"
	msgStateRejected    = "oauth state rejected"
	msgProviderFailed   = "oauth provider call failed"
	msgProviderDisabled = "oauth provider is not configured"

	errCtxBegin     = "beginning oauth"
	errCtxComplete  = "completing oauth"
	errCtxSession   = "restoring provider session"
	errCtxAuthorize = "authorizing with provider"
	errCtxFetchUser = "fetching provider user"
)

// GothService реализует OAuthService на провайдерах goth. Сессии
// провайдеров хранятся в StateStore, а не в cookie.
type GothService struct {
	providers goth.Providers
	store     StateStore
	ttl       time.Duration
}

// NewGothService создает сервис с заданными провайдерами.
func NewGothService(store StateStore, ttl time.Duration, providers ...goth.Provider) *GothService {
	ps := make(goth.Providers, len(providers))
	for _, p := range providers {
		ps[p.Name()] = p
	}
	return &GothService{providers: ps, store: store, ttl: ttl}
}

// ProvidersFromConfig возвращает провайдеров, для которых заданы ключи.
func ProvidersFromConfig(cfg config.OAuthConfig) []goth.Provider {
	var providers []goth.Provider
	if cfg.GoogleEnabled() {
		providers = append(providers, google.New(
			cfg.GoogleKey,
			cfg.GoogleSecret,
			cfg.CallbackURL("google"),
			"email", "profile",
		))
	}
	return providers
}

var _ svc.OAuthService = (*GothService)(nil)

// Providers возвращает имена настроенных провайдеров.
func (s *GothService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Begin начинает авторизацию у провайдера.
func (s *GothService) Begin(ctx context.Context, provider string) (*services.OAuthRedirect, error) {
	log := logger.Log(ctx).With(zap.String("method", methodBegin), zap.String("provider", provider))

	p, err := s.provider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxBegin, err)
	}

	state := uuid.NewString()
	session, err := p.BeginAuth(state)
	if err != nil {
		log.Error(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxBegin, services.ErrOAuthFailed, err)
	}

	authURL, err := session.GetAuthURL()
	if err != nil {
		log.Error(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxBegin, services.ErrOAuthFailed, err)
	}

	if err := s.store.Save(ctx, state, session.Marshal(), s.ttl); err != nil {
		log.Error(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxBegin, err)
	}

	log.Debug(ctx, msgAuthURLIssued)
	return &services.OAuthRedirect{URL: authURL, State: state}, nil
}

// Complete завершает авторизацию по state и параметрам обратного вызова.
func (s *GothService) Complete(
	ctx context.Context, provider, state string, params url.Values,
) (*services.OAuthIdentity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodComplete), zap.String("provider", provider))

	p, err := s.provider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxComplete, err)
	}

	if state == "" {
		log.Debug(ctx, msgStateRejected)
		return nil, fmt.Errorf("%s: %w", errCtxComplete, services.ErrInvalidOAuthState)
	}

	raw, err := s.store.Take(ctx, state)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			log.Debug(ctx, msgStateRejected)
			return nil, fmt.Errorf("%s: %w", errCtxComplete, services.ErrInvalidOAuthState)
		}
		return nil, fmt.Errorf("%s: %w", errCtxComplete, err)
	}

	session, err := p.UnmarshalSession(raw)
	if err != nil {
		log.Error(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxSession, services.ErrOAuthFailed, err)
	}

	if _, err := session.Authorize(p, params); err != nil {
		log.Warn(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxAuthorize, services.ErrOAuthFailed, err)
	}

	user, err := p.FetchUser(session)
	if err != nil {
		log.Warn(ctx, msgProviderFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxFetchUser, services.ErrOAuthFailed, err)
	}

	if strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("%s: %w", errCtxFetchUser, services.ErrOAuthEmailMissing)
	}

	log.Info(ctx, msgUserAuthorized, zap.String("subject", user.UserID))
	return &services.OAuthIdentity{
		Provider:  p.Name(),
		Subject:   user.UserID,
		Email:     user.Email,
		Name:      displayName(user),
		AvatarURL: user.AvatarURL,
	}, nil
}

func (s *GothService) provider(ctx context.Context, name string) (goth.Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		logger.Log(ctx).Debug(ctx, msgProviderDisabled, zap.String("provider", name))
		return nil, services.ErrUnsupportedProvider
	}
	return p, nil
}

func displayName(user goth.User) string {
	for _, name := range []string{
		user.NickName,
		user.Name,
		strings.TrimSpace(user.FirstName + " " + user.LastName),
	} {
		if name != "" {
			return name
		}
	}
	local, _, _ := strings.Cut(user.Email, "@")
	return local
}
