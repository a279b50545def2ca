package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authentities "notebuddy/internal/auth/domain/entities"
	authservices "notebuddy/internal/auth/domain/services"
	gatewayhttp "notebuddy/internal/gateway/app/http"
	"notebuddy/internal/gateway/app/http/middleware"
	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/domain/entities"
	"notebuddy/pkg/metrics"
)

const (
	testUserID = "user-1"
	testToken  = "valid-access-token"
)

type harness struct {
	app     *fiber.App
	auth    *mockAuthService
	users   *mockUserService
	notes   *mockNotesService
	metrics *metrics.Metrics
	health  error
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		auth:    new(mockAuthService),
		users:   new(mockUserService),
		notes:   new(mockNotesService),
		metrics: metrics.New(),
	}
	h.auth.On("ValidateAccessToken", mock.Anything, testToken).Return(testUserID, nil).Maybe()

	h.app = gatewayhttp.NewServer(gatewayhttp.Config{}, gatewayhttp.Dependencies{
		Auth:    h.auth,
		Users:   h.users,
		Notes:   h.notes,
		Metrics: h.metrics,
		Health:  func(context.Context) error { return h.health },
	})

	t.Cleanup(func() {
		h.auth.AssertExpectations(t)
		h.users.AssertExpectations(t)
		h.notes.AssertExpectations(t)
	})
	return h
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func (h *harness) do(t *testing.T, r request) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	switch b := r.body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if r.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[map[string]string](t, raw)["error"]
}

func strPtr(s string) *string { return &s }

func testNote(id string) *entities.Note {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entities.Note{
		ID:        id,
		UserID:    testUserID,
		Title:     "Title " + id,
		Content:   "Content of " + id,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func testPair() *authservices.TokenPair {
	return &authservices.TokenPair{
		UserID:       testUserID,
		Username:     "alice",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC),
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, raw)["status"])

	h.health = errors.New("postgres is down")
	resp, raw = h.do(t, request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotContains(t, string(raw), "postgres")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)

	h.do(t, request{method: http.MethodGet, path: "/healthz"})

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `notebuddy_http_request_duration_seconds_count{method="GET",route="/healthz",status="200"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", errorMessage(t, raw))
}

func TestRequestID(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.do(t, request{
		method:  http.MethodGet,
		path:    "/healthz",
		headers: map[string]string{middleware.HeaderRequestID: "req-42"},
	})
	assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))

	resp, _ = h.do(t, request{method: http.MethodGet, path: "/healthz"})
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		setup   func(h *harness)
		message string
	}{
		{
			name:    "missing header",
			message: middleware.ErrorNoAuthHeader,
		},
		{
			name:    "not a bearer token",
			headers: map[string]string{fiber.HeaderAuthorization: "Basic abc"},
			message: middleware.ErrorInvalidTokenFormat,
		},
		{
			name:    "empty bearer token",
			headers: map[string]string{fiber.HeaderAuthorization: "Bearer "},
			message: middleware.ErrorInvalidTokenFormat,
		},
		{
			name:    "rejected token",
			headers: map[string]string{fiber.HeaderAuthorization: "Bearer expired"},
			setup: func(h *harness) {
				h.auth.On("ValidateAccessToken", mock.Anything, "expired").
					Return("", fmt.Errorf("validating access token: %w", authservices.ErrExpiredJWTToken))
			},
			message: middleware.ErrorInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes", headers: tt.headers})

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.message, errorMessage(t, raw))
			h.notes.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSignUp(t *testing.T) {
	body := map[string]string{"email": "alice@example.com", "username": "alice", "password": "secret123"}

	t.Run("created", func(t *testing.T) {
		h := newHarness(t)
		h.auth.On("SignUp", mock.Anything, "alice@example.com", "alice", "secret123").Return(testPair(), nil)

		resp, raw := h.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: body})

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		got := decode[map[string]any](t, raw)
		assert.Equal(t, testUserID, got["user_id"])
		assert.Equal(t, "access", got["access_token"])
		assert.Equal(t, "refresh", got["refresh_token"])
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)

		resp, _ := h.do(t, request{
			method: http.MethodPost,
			path:   "/api/v1/auth/sign-up",
			body:   map[string]string{"email": "alice@example.com"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := newHarness(t)

		resp, _ := h.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: "{"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	errCases := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate email", authservices.ErrEmailAlreadyExists, http.StatusConflict},
		{"weak password", authentities.ErrPasswordTooWeak, http.StatusBadRequest},
		{"invalid email", authentities.ErrInvalidEmail, http.StatusBadRequest},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.auth.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("signing up: %w", tc.err))

			resp, raw := h.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: body})

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotContains(t, errorMessage(t, raw), "signing up")
		})
	}
}

func TestSignIn(t *testing.T) {
	h := newHarness(t)
	h.auth.On("SignIn", mock.Anything, "alice@example.com", "wrong-pass1").
		Return(nil, fmt.Errorf("invalid credentials: %w", authservices.ErrInvalidCredentials))
	h.auth.On("SignIn", mock.Anything, "alice@example.com", "secret123").Return(testPair(), nil)

	resp, raw := h.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/sign-in",
		body:   map[string]string{"email": "alice@example.com", "password": "wrong-pass1"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, authservices.ErrInvalidCredentials.Error(), errorMessage(t, raw))

	resp, _ = h.do(t, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/sign-in",
		body:   map[string]string{"email": "alice@example.com", "password": "secret123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshAndSignOut(t *testing.T) {
	h := newHarness(t)
	h.auth.On("Refresh", mock.Anything, "revoked").Return(nil, authservices.ErrRevokedRefreshToken)
	h.auth.On("Refresh", mock.Anything, "refresh").Return(testPair(), nil)
	h.auth.On("SignOut", mock.Anything, "refresh").Return(nil)
	h.auth.On("SignOut", mock.Anything, "unknown").Return(authservices.ErrInvalidRefreshToken)

	resp, _ := h.do(t, request{
		method: http.MethodPost, path: "/api/v1/auth/refresh",
		body: map[string]string{"refresh_token": "revoked"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := h.do(t, request{
		method: http.MethodPost, path: "/api/v1/auth/refresh",
		body: map[string]string{"refresh_token": "refresh"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "access", decode[map[string]any](t, raw)["access_token"])

	resp, _ = h.do(t, request{
		method: http.MethodPost, path: "/api/v1/auth/refresh",
		body: map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.do(t, request{
		method: http.MethodPost, path: "/api/v1/auth/sign-out",
		body: map[string]string{"refresh_token": "refresh"},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = h.do(t, request{
		method: http.MethodPost, path: "/api/v1/auth/sign-out",
		body: map[string]string{"refresh_token": "unknown"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	h.users.On("Profile", mock.Anything, testUserID).Return(&authentities.User{
		ID:        testUserID,
		Email:     "alice@example.com",
		Username:  "alice",
		AvatarURL: "https://example.com/a.png",
		Provider:  authentities.ProviderGoogle,
		CreatedAt: created,
	}, nil)

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/user/profile", token: testToken})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, raw)
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, "alice@example.com", got["email"])
	assert.Equal(t, "https://example.com/a.png", got["avatar_url"])
	assert.Equal(t, "google", got["provider"])
	assert.Equal(t, created.Format(time.RFC3339), got["created_at"])
}

func TestOAuth(t *testing.T) {
	t.Run("begin redirects to provider", func(t *testing.T) {
		h := newHarness(t)
		h.auth.On("BeginOAuth", mock.Anything, "google").Return(&authservices.OAuthRedirect{
			URL:   "https://accounts.example.com/auth?state=abc",
			State: "abc",
		}, nil)

		resp, _ := h.do(t, request{method: http.MethodGet, path: "/api/v1/auth/oauth/google"})

		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "https://accounts.example.com/auth?state=abc", resp.Header.Get(fiber.HeaderLocation))
	})

	t.Run("unknown provider", func(t *testing.T) {
		h := newHarness(t)
		h.auth.On("BeginOAuth", mock.Anything, "myspace").Return(nil, authservices.ErrUnsupportedProvider)

		resp, _ := h.do(t, request{method: http.MethodGet, path: "/api/v1/auth/oauth/myspace"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("callback issues tokens", func(t *testing.T) {
		h := newHarness(t)
		want := url.Values{"state": {"abc"}, "code": {"xyz"}}
		h.auth.On("CompleteOAuth", mock.Anything, "google", "abc", want).Return(testPair(), nil)

		resp, raw := h.do(t, request{
			method: http.MethodGet,
			path:   "/api/v1/auth/oauth/google/callback?state=abc&code=xyz",
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "refresh", decode[map[string]any](t, raw)["refresh_token"])
	})

	t.Run("callback with stale state", func(t *testing.T) {
		h := newHarness(t)
		h.auth.On("CompleteOAuth", mock.Anything, "google", "old", mock.Anything).
			Return(nil, fmt.Errorf("taking state: %w", authservices.ErrInvalidOAuthState))

		resp, _ := h.do(t, request{
			method: http.MethodGet,
			path:   "/api/v1/auth/oauth/google/callback?state=old&code=xyz",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestListNotes(t *testing.T) {
	h := newHarness(t)
	h.notes.On("List", mock.Anything, testUserID, notesapp.ListOptions{Sort: entities.SortAlphabetical, Query: "go"}).
		Return([]*entities.Note{testNote("n1"), testNote("n2")}, nil)
	h.notes.On("List", mock.Anything, testUserID, notesapp.ListOptions{Sort: entities.SortNewest}).
		Return([]*entities.Note{}, nil)

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes?sort=alphabetical&q=go", token: testToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[struct {
		Notes []struct {
			ID      string  `json:"id"`
			Summary *string `json:"summary"`
		} `json:"notes"`
		TotalCount int `json:"total_count"`
	}](t, raw)
	assert.Equal(t, 2, got.TotalCount)
	assert.Equal(t, "n1", got.Notes[0].ID)
	assert.Nil(t, got.Notes[0].Summary)

	resp, raw = h.do(t, request{method: http.MethodGet, path: "/api/v1/notes", token: testToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"notes":[]`)

	resp, _ = h.do(t, request{method: http.MethodGet, path: "/api/v1/notes?sort=random", token: testToken})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateNote(t *testing.T) {
	h := newHarness(t)
	h.notes.On("Create", mock.Anything, testUserID, notesapp.CreateInput{Title: "T", Content: "C"}).
		Return(testNote("n1"), nil)
	h.notes.On("Create", mock.Anything, testUserID, notesapp.CreateInput{Title: "", Content: "C"}).
		Return(nil, fmt.Errorf("creating note: %w", notesapp.ErrInvalidParams))

	resp, raw := h.do(t, request{
		method: http.MethodPost, path: "/api/v1/notes", token: testToken,
		body: map[string]string{"title": "T", "content": "C"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(raw), `"id":"n1"`)

	resp, raw = h.do(t, request{
		method: http.MethodPost, path: "/api/v1/notes", token: testToken,
		body: map[string]string{"title": "", "content": "C"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, notesapp.ErrInvalidParams.Error(), errorMessage(t, raw))
}

func TestGetUpdateDeleteNote(t *testing.T) {
	h := newHarness(t)
	missing := fmt.Errorf("getting note: %w", notesapp.ErrNotFound)

	h.notes.On("Get", mock.Anything, testUserID, "n1").Return(testNote("n1"), nil)
	h.notes.On("Get", mock.Anything, testUserID, "other").Return(nil, missing)

	patch := notesapp.NotePatch{Title: strPtr("New"), ClearSummary: true}
	updated := testNote("n1")
	updated.Title = "New"
	h.notes.On("Update", mock.Anything, testUserID, "n1", patch).Return(updated, nil).Twice()

	h.notes.On("Delete", mock.Anything, testUserID, "n1").Return(nil).Once()
	h.notes.On("Delete", mock.Anything, testUserID, "gone").Return(missing)

	resp, _ := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes/n1", token: testToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.do(t, request{method: http.MethodGet, path: "/api/v1/notes/other", token: testToken})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		resp, raw := h.do(t, request{
			method: method, path: "/api/v1/notes/n1", token: testToken,
			body: map[string]any{"title": "New", "clear_summary": true},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode, method)
		assert.Contains(t, string(raw), `"title":"New"`)
	}

	resp, _ = h.do(t, request{method: http.MethodDelete, path: "/api/v1/notes/n1", token: testToken})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = h.do(t, request{method: http.MethodDelete, path: "/api/v1/notes/gone", token: testToken})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummarizeNote(t *testing.T) {
	t.Run("stored content and default style", func(t *testing.T) {
		h := newHarness(t)
		note := testNote("n1")
		note.Summary = strPtr("short summary")
		h.notes.On("Summarize", mock.Anything, testUserID, "n1", "", entities.StyleProfessional).
			Return(&notesapp.SummaryResult{Note: note, Summary: "short summary"}, nil)

		resp, raw := h.do(t, request{method: http.MethodPost, path: "/api/v1/notes/n1/summarize", token: testToken})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]any](t, raw)
		assert.Equal(t, "short summary", got["summary"])
		assert.Equal(t, false, got["fallback"])
		assert.NotNil(t, got["note"])
	})

	t.Run("fallback is not an error", func(t *testing.T) {
		h := newHarness(t)
		h.notes.On("Summarize", mock.Anything, testUserID, "n1", "some longer text", entities.StyleCasual).
			Return(&notesapp.SummaryResult{Summary: "unavailable", Fallback: true}, nil)

		resp, raw := h.do(t, request{
			method: http.MethodPost, path: "/api/v1/notes/n1/summarize", token: testToken,
			body: map[string]string{"content": "some longer text", "style": "casual"},
		})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]any](t, raw)
		assert.Equal(t, true, got["fallback"])
		assert.NotContains(t, got, "note")
	})

	t.Run("unknown style", func(t *testing.T) {
		h := newHarness(t)

		resp, raw := h.do(t, request{
			method: http.MethodPost, path: "/api/v1/notes/n1/summarize", token: testToken,
			body: map[string]string{"style": "poetic"},
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, entities.ErrInvalidStyle.Error(), errorMessage(t, raw))
	})
}

func TestSummarizing(t *testing.T) {
	h := newHarness(t)
	h.notes.On("Summarizing", mock.Anything, testUserID).Return(nil).Once()
	h.notes.On("Summarizing", mock.Anything, testUserID).Return([]string{"n1", "n2"}).Once()

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes/summarizing", token: testToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"note_ids":[]}`, string(raw))

	resp, raw = h.do(t, request{method: http.MethodGet, path: "/api/v1/notes/summarizing", token: testToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"note_ids":["n1","n2"]}`, string(raw))
}

func TestPreview(t *testing.T) {
	h := newHarness(t)
	h.notes.On("Preview", mock.Anything, "tiny", entities.StyleTechnical).
		Return(&notesapp.SummaryResult{Skipped: true})

	resp, raw := h.do(t, request{
		method: http.MethodPost, path: "/api/v1/summaries", token: testToken,
		body: map[string]string{"content": "tiny", "style": "technical"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode[map[string]any](t, raw)["skipped"])

	resp, _ = h.do(t, request{method: http.MethodPost, path: "/api/v1/summaries", body: map[string]string{}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	h := newHarness(t)
	h.notes.On("List", mock.Anything, testUserID, mock.Anything).
		Return(nil, errors.New("pq: connection refused"))

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes", token: testToken})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", errorMessage(t, raw))
	assert.NotContains(t, string(raw), "pq")
}

func TestPanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.notes.On("Get", mock.Anything, testUserID, "boom").
		Run(func(mock.Arguments) { panic("unexpected nil") }).
		Return(nil, nil)

	resp, raw := h.do(t, request{method: http.MethodGet, path: "/api/v1/notes/boom", token: testToken})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", errorMessage(t, raw))
	assert.NotContains(t, string(raw), "unexpected nil")
}
