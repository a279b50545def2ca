package services

import "context"

// PasswordService хэширует и проверяет пароли пользователей.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	// Verify возвращает false без ошибки, если пароль не совпал с хэшем.
	Verify(ctx context.Context, password, hash string) (bool, error)
}
