package repositories

import (
	"context"

	"notebuddy/internal/auth/domain/services"
)

// TokenRepository определяет интерфейс для операций по управлению refresh-токенами.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error

	FindByToken(ctx context.Context, token string) (*services.RefreshToken, error)

	RevokeToken(ctx context.Context, token string) error

	// CleanupExpiredTokens удаляет просроченные и отозванные токены и
	// возвращает число удаленных записей.
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
