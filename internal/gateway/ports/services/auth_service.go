// Package services определяет интерфейсы сервисов, которые использует HTTP-слой.
package services

import (
	"notebuddy/internal/auth/ports/api"
)

// AuthService объединяет вход по паролю, обновление токенов и вход через OAuth.
type AuthService interface {
	api.AuthUseCase
	api.OAuthUseCase
}

// UserService отдает профиль пользователя.
type UserService interface {
	api.UserUseCase
}
