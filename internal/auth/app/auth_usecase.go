// Package app содержит сценарии аутентификации.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/entities"
	"notebuddy/internal/auth/domain/services"
	"notebuddy/internal/auth/ports/api"
	"notebuddy/internal/auth/ports/repositories"
	svc "notebuddy/internal/auth/ports/services"
	"notebuddy/pkg/logger"
)

const (
	methodSignUp         = "SignUp"
	methodSignIn         = "SignIn"
	methodRefresh        = "Refresh"
	methodSignOut        = "SignOut"
	methodGenerateTokens = "generateTokenPair"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgEmptyUsername       = "empty username provided"
	msgInvalidPassword     = "invalid password"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgLoginWithoutPass    = "password login for account without password"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgUnusableToken       = "attempt to use revoked or expired token"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"
	msgTokenPairGenerated  = "token pair generated successfully"
	msgPublishFailed       = "failed to publish session event"
	msgTokensCleaned       = "expired refresh tokens removed"

	msgErrCheckExistingUser    = "failed to check existing user"
	msgErrHashPassword         = "failed to hash password"
	msgErrCreateUser           = "failed to create user"
	msgErrFindingUser          = "error finding user by email"
	msgErrVerifyingPassword    = "error verifying password"
	msgErrInvalidRefreshToken  = "invalid refresh token"
	msgErrFindingUserForToken  = "failed to find user for refresh token"
	msgErrRevokingOldToken     = "failed to revoke old token"
	msgErrRevokingToken        = "failed to revoke refresh token"
	msgErrGenerateAccessToken  = "failed to generate access token"
	msgErrGenerateRefreshToken = "failed to generate refresh token"
	msgErrStoreRefreshToken    = "failed to store refresh token"

	errCtxValidatingEmail        = "validating email"
	errCtxValidatingUsername     = "validating username"
	errCtxValidatingPassword     = "validating password"
	errCtxCheckingUser           = "checking existing user"
	errCtxEmailRegistered        = "email already registered"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingUser           = "creating user"
	errCtxGeneratingTokens       = "generating tokens"
	errCtxInvalidCredentials     = "invalid credentials"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingPassword      = "verifying password"
	errCtxFindingRefreshToken    = "finding refresh token"
	errCtxCheckingRefreshToken   = "checking refresh token"
	errCtxRevokingOldToken       = "revoking old token"
	errCtxRevokingToken          = "revoking token"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
	errCtxValidatingAccessToken  = "validating access token"
	errCtxCleaningTokens         = "cleaning up tokens"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUseCaseImpl реализует AuthUseCase и OAuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	publisher   svc.SessionPublisher
	oauthSvc    svc.OAuthService
	now         func() time.Time
}

var (
	_ api.AuthUseCase  = (*AuthUseCaseImpl)(nil)
	_ api.OAuthUseCase = (*AuthUseCaseImpl)(nil)
)

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
// publisher может быть nil, тогда события сессий не рассылаются.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	publisher svc.SessionPublisher,
) *AuthUseCaseImpl {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithOAuth подключает вход через внешних провайдеров.
func (a *AuthUseCaseImpl) WithOAuth(oauthSvc svc.OAuthService) *AuthUseCaseImpl {
	a.oauthSvc = oauthSvc
	return a
}

// WithClock подменяет источник времени. Для тестов.
func (a *AuthUseCaseImpl) WithClock(now func() time.Time) *AuthUseCaseImpl {
	a.now = now
	return a
}

// SignUp создает нового пользователя с предоставленными учетными данными.
func (a *AuthUseCaseImpl) SignUp(ctx context.Context, email, username, password string) (*services.TokenPair, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	log := logger.Log(ctx).With(zap.String("method", methodSignUp), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if username == "" {
		log.Debug(ctx, msgEmptyUsername)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if err := services.CheckPasswordPolicy(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	existingUser, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: &hashedPassword,
		Provider:     entities.ProviderPassword,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailAlreadyExists) {
			log.Debug(ctx, msgEmailExists)
			return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, err)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))

	tokenPair, err := a.generateTokenPair(ctx, createdUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	a.publish(ctx, services.SessionSignedUp, createdUser.ID)
	return tokenPair, nil
}

// SignIn аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) SignIn(ctx context.Context, email, password string) (*services.TokenPair, error) {
	email = normalizeEmail(email)

	log := logger.Log(ctx).With(zap.String("method", methodSignIn), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if !user.HasPassword() || password == "" {
		log.Debug(ctx, msgLoginWithoutPass, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, *user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	a.publish(ctx, services.SessionSignedIn, user.ID)
	return tokenPair, nil
}

// Refresh выдает новую пару токенов. Предъявленный refresh-токен отзывается.
func (a *AuthUseCaseImpl) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefresh))
	log.Debug(ctx, msgRefreshingTokens)

	token, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgErrInvalidRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, services.ErrInvalidRefreshToken)
	}

	log = log.With(zap.String("userID", token.UserID))

	if err := token.Usable(a.now()); err != nil {
		log.Debug(ctx, msgUnusableToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingRefreshToken, err)
	}

	user, err := a.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		log.Error(ctx, msgErrFindingUserForToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	// Отзыв атомарен: из параллельных обменов одного токена проходит один.
	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Debug(ctx, msgErrRevokingOldToken, zap.Error(err))
		} else {
			log.Error(ctx, msgErrRevokingOldToken, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxRevokingOldToken, err)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed)
	a.publish(ctx, services.SessionRefreshed, user.ID)
	return tokenPair, nil
}

// SignOut отзывает refresh-токен и сообщает о завершении сессии.
func (a *AuthUseCaseImpl) SignOut(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodSignOut))
	log.Debug(ctx, msgProcessingLogout)

	token, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgErrInvalidRefreshToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFindingRefreshToken, services.ErrInvalidRefreshToken)
	}
	log = log.With(zap.String("userID", token.UserID))

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Debug(ctx, msgErrRevokingToken, zap.Error(err))
		} else {
			log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	a.publish(ctx, services.SessionSignedOut, token.UserID)
	return nil
}

// ValidateAccessToken возвращает ID владельца токена доступа.
func (a *AuthUseCaseImpl) ValidateAccessToken(ctx context.Context, accessToken string) (string, error) {
	userID, err := a.tokenSvc.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtxValidatingAccessToken, err)
	}
	return userID, nil
}

// CleanupTokens удаляет просроченные и отозванные refresh-токены.
func (a *AuthUseCaseImpl) CleanupTokens(ctx context.Context) (int64, error) {
	removed, err := a.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errCtxCleaningTokens, err)
	}
	logger.Log(ctx).Debug(ctx, msgTokensCleaned, zap.Int64("removed", removed))
	return removed, nil
}

// Вспомогательная функция для генерации пары токенов.
func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateTokens),
		zap.String("userID", user.ID),
	)

	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed)
	}

	if err := a.tokenRepo.StoreRefreshToken(ctx, &services.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpires,
	}); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	log.Debug(ctx, msgTokenPairGenerated)

	return &services.TokenPair{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpires,
	}, nil
}

// publish рассылает событие сессии; ошибка только логируется.
func (a *AuthUseCaseImpl) publish(ctx context.Context, eventType services.SessionEventType, userID string) {
	if a.publisher == nil {
		return
	}
	event := services.SessionEvent{Type: eventType, UserID: userID, At: a.now()}
	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Log(ctx).Warn(ctx, msgPublishFailed,
			zap.String("type", string(eventType)),
			zap.String("userID", userID),
			zap.Error(err),
		)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

