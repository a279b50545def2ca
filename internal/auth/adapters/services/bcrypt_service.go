package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"notebuddy/internal/auth/domain/services"
	svc "notebuddy/internal/auth/ports/services"
)

// PasswordHasher хэширует пароли bcrypt. Пароль, не прошедший
// CheckPasswordPolicy, не хэшируется.
type PasswordHasher struct {
	cost int
}

// NewBcrypt создает хэшер; стоимость вне допустимого диапазона заменяется
// bcrypt.DefaultCost.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash проверяет политику паролей и возвращает bcrypt-хэш.
func (h *PasswordHasher) Hash(_ context.Context, password string) (string, error) {
	if err := services.CheckPasswordPolicy(password); err != nil {
		return "", fmt.Errorf("%w: %w", services.ErrInvalidPassword, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", services.ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хэшем. Несовпадение - это false без ошибки.
func (h *PasswordHasher) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, services.ErrInvalidPassword
	}

	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password hash: %w", err)
	}
}
