package api

import (
	"context"

	"notebuddy/internal/auth/domain/entities"
)

// UserUseCase определяет основной порт для пользовательских операций.
type UserUseCase interface {
	Profile(ctx context.Context, userID string) (*entities.User, error)
}
