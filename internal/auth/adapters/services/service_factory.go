// Package services содержит реализации сервисов паролей, токенов и OAuth.
package services

import (
	"notebuddy/internal/auth/ports/services"
	"notebuddy/internal/config"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewServiceFactory создает фабрику сервисов по настройкам JWT.
func NewServiceFactory(cfg config.JWTConfig) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(cfg.BCryptCost),
		tokenService:    NewJWT(cfg.SecretKey, cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL()),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}
