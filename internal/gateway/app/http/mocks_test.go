package http_test

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	authentities "notebuddy/internal/auth/domain/entities"
	authservices "notebuddy/internal/auth/domain/services"
	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/domain/entities"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignUp(ctx context.Context, email, username, password string) (*authservices.TokenPair, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.TokenPair), args.Error(1)
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*authservices.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.TokenPair), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*authservices.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.TokenPair), args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthService) ValidateAccessToken(ctx context.Context, accessToken string) (string, error) {
	args := m.Called(ctx, accessToken)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) BeginOAuth(ctx context.Context, provider string) (*authservices.OAuthRedirect, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.OAuthRedirect), args.Error(1)
}

func (m *mockAuthService) CompleteOAuth(
	ctx context.Context, provider, state string, params url.Values,
) (*authservices.TokenPair, error) {
	args := m.Called(ctx, provider, state, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authservices.TokenPair), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*authentities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentities.User), args.Error(1)
}

type mockNotesService struct {
	mock.Mock
}

func (m *mockNotesService) List(ctx context.Context, userID string, opts notesapp.ListOptions) ([]*entities.Note, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNotesService) Get(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesService) Create(ctx context.Context, userID string, in notesapp.CreateInput) (*entities.Note, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesService) Update(
	ctx context.Context, userID, noteID string, patch notesapp.NotePatch,
) (*entities.Note, error) {
	args := m.Called(ctx, userID, noteID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesService) Delete(ctx context.Context, userID, noteID string) error {
	return m.Called(ctx, userID, noteID).Error(0)
}

func (m *mockNotesService) Summarize(
	ctx context.Context, userID, noteID, content string, style entities.SummaryStyle,
) (*notesapp.SummaryResult, error) {
	args := m.Called(ctx, userID, noteID, content, style)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesapp.SummaryResult), args.Error(1)
}

func (m *mockNotesService) Summarizing(ctx context.Context, userID string) []string {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *mockNotesService) Preview(
	ctx context.Context, content string, style entities.SummaryStyle,
) *notesapp.SummaryResult {
	return m.Called(ctx, content, style).Get(0).(*notesapp.SummaryResult)
}
