package oauth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/markbates/goth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"notebuddy/internal/auth/adapters/oauth"
	"notebuddy/internal/auth/domain/services"
	"notebuddy/internal/config"
)

var errBadCode = errors.New("bad authorization code")

type fakeSession struct {
	State       string `json:"state"`
	AuthURL     string `json:"auth_url"`
	AccessToken string `json:"access_token"`
}

func (s *fakeSession) GetAuthURL() (string, error) { return s.AuthURL, nil }

func (s *fakeSession) Marshal() string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (s *fakeSession) Authorize(_ goth.Provider, params goth.Params) (string, error) {
	if params.Get("code") != "good" {
		return "", errBadCode
	}
	s.AccessToken = "remote-access-token"
	return s.AccessToken, nil
}

type fakeProvider struct {
	user goth.User
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) SetName(string) {}
func (p *fakeProvider) Debug(bool)     {}

func (p *fakeProvider) BeginAuth(state string) (goth.Session, error) {
	return &fakeSession{State: state, AuthURL: "https://provider.test/auth?state=" + state}, nil
}

func (p *fakeProvider) UnmarshalSession(raw string) (goth.Session, error) {
	s := &fakeSession{}
	err := json.Unmarshal([]byte(raw), s)
	return s, err
}

func (p *fakeProvider) FetchUser(session goth.Session) (goth.User, error) {
	if session.(*fakeSession).AccessToken == "" {
		return goth.User{}, errBadCode
	}
	return p.user, nil
}

func (p *fakeProvider) RefreshToken(string) (*oauth2.Token, error) { return nil, nil }
func (p *fakeProvider) RefreshTokenAvailable() bool               { return false }

func newStore(t *testing.T) (*oauth.RedisStateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return oauth.NewRedisStateStore(client), mr
}

func TestRedisStateStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.Save(ctx, "state-1", "session-data", time.Minute))
	assert.True(t, mr.Exists(oauth.StateKeyPrefix+"state-1"))

	got, err := store.Take(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, "session-data", got)

	_, err = store.Take(ctx, "state-1")
	require.ErrorIs(t, err, oauth.ErrStateNotFound)

	require.NoError(t, store.Save(ctx, "state-2", "session-data", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Take(ctx, "state-2")
	require.ErrorIs(t, err, oauth.ErrStateNotFound)
}

func TestRedisStateStoreUnavailable(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	err := store.Save(context.Background(), "state", "session", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, oauth.ErrStateNotFound)
}

func TestGothService(t *testing.T) {
	ctx := context.Background()
	remoteUser := goth.User{
		UserID:    "remote-42",
		Email:     "jane@example.com",
		Name:      "Jane Doe",
		AvatarURL: "https://provider.test/jane.png",
	}

	begin := func(t *testing.T, user goth.User) (*oauth.GothService, *services.OAuthRedirect) {
		t.Helper()
		store, _ := newStore(t)
		svc := oauth.NewGothService(store, time.Minute, &fakeProvider{user: user})
		redirect, err := svc.Begin(ctx, "fake")
		require.NoError(t, err)
		return svc, redirect
	}

	t.Run("full flow", func(t *testing.T) {
		svc, redirect := begin(t, remoteUser)
		assert.NotEmpty(t, redirect.State)
		assert.Contains(t, redirect.URL, redirect.State)

		identity, err := svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"good"}})

		require.NoError(t, err)
		assert.Equal(t, services.OAuthIdentity{
			Provider:  "fake",
			Subject:   "remote-42",
			Email:     "jane@example.com",
			Name:      "Jane Doe",
			AvatarURL: "https://provider.test/jane.png",
		}, *identity)
	})

	t.Run("state cannot be replayed", func(t *testing.T) {
		svc, redirect := begin(t, remoteUser)
		_, err := svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"good"}})
		require.NoError(t, err)

		_, err = svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"good"}})
		require.ErrorIs(t, err, services.ErrInvalidOAuthState)
	})

	t.Run("unknown or empty state", func(t *testing.T) {
		svc, _ := begin(t, remoteUser)

		_, err := svc.Complete(ctx, "fake", "forged", url.Values{"code": {"good"}})
		require.ErrorIs(t, err, services.ErrInvalidOAuthState)

		_, err = svc.Complete(ctx, "fake", "", url.Values{"code": {"good"}})
		require.ErrorIs(t, err, services.ErrInvalidOAuthState)
	})

	t.Run("authorization failure", func(t *testing.T) {
		svc, redirect := begin(t, remoteUser)

		_, err := svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"bad"}})

		require.ErrorIs(t, err, services.ErrOAuthFailed)
		require.ErrorIs(t, err, errBadCode)
	})

	t.Run("missing email", func(t *testing.T) {
		svc, redirect := begin(t, goth.User{UserID: "remote-43"})

		_, err := svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"good"}})

		require.ErrorIs(t, err, services.ErrOAuthEmailMissing)
	})

	t.Run("display name falls back to email", func(t *testing.T) {
		svc, redirect := begin(t, goth.User{UserID: "remote-44", Email: "bob@example.com"})

		identity, err := svc.Complete(ctx, "fake", redirect.State, url.Values{"code": {"good"}})

		require.NoError(t, err)
		assert.Equal(t, "bob", identity.Name)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		svc, _ := begin(t, remoteUser)

		_, err := svc.Begin(ctx, "github")
		require.ErrorIs(t, err, services.ErrUnsupportedProvider)

		_, err = svc.Complete(ctx, "github", "state", nil)
		require.ErrorIs(t, err, services.ErrUnsupportedProvider)
	})
}

func TestProvidersFromConfig(t *testing.T) {
	assert.Empty(t, oauth.ProvidersFromConfig(config.OAuthConfig{}))

	providers := oauth.ProvidersFromConfig(config.OAuthConfig{
		GoogleKey:    "key",
		GoogleSecret: "secret",
		BaseURL:      "http://localhost:8080",
	})
	require.Len(t, providers, 1)
	assert.Equal(t, "google", providers[0].Name())

	svc := oauth.NewGothService(nil, time.Minute, providers...)
	assert.Equal(t, []string{"google"}, svc.Providers())
}
