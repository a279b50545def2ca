package repositories

import (
	"context"

	"notebuddy/internal/auth/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователем.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindOrCreateByEmail возвращает пользователя с email из user или
	// создает его. Используется при входе через OAuth.
	FindOrCreateByEmail(ctx context.Context, user *entities.User) (*entities.User, error)
}
