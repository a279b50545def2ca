// Package dto содержит объекты передачи данных HTTP API.
package dto

import (
	"time"

	"notebuddy/internal/auth/domain/entities"
	"notebuddy/internal/auth/domain/services"
)

// SignUpRequest содержит данные для регистрации пользователя.
type SignUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInRequest содержит данные для входа пользователя.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest содержит данные для обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignOutRequest содержит данные для выхода пользователя.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse содержит данные о токенах.
type TokenResponse struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewTokenResponse преобразует пару токенов в ответ.
func NewTokenResponse(pair *services.TokenPair) *TokenResponse {
	return &TokenResponse{
		UserID:       pair.UserID,
		Username:     pair.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
}

// UserProfileResponse содержит данные профиля пользователя.
type UserProfileResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserProfileResponse преобразует пользователя в профиль.
func NewUserProfileResponse(user *entities.User) *UserProfileResponse {
	return &UserProfileResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt,
	}
}
