package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrRevokedRefreshToken   = errors.New("refresh token has been revoked")
	ErrExpiredRefreshToken   = errors.New("refresh token has expired")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// TokenPair - выданная пара токенов; ExpiresAt относится к access-токену.
type TokenPair struct {
	UserID       string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RefreshToken - сохраненный refresh-токен. Токен одноразовый: при обмене
// и при выходе он отзывается.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	IsRevoked bool
}

// Usable проверяет, можно ли обменять токен в момент now.
func (t *RefreshToken) Usable(now time.Time) error {
	if t.IsRevoked {
		return ErrRevokedRefreshToken
	}
	if !t.ExpiresAt.After(now) {
		return ErrExpiredRefreshToken
	}
	return nil
}
