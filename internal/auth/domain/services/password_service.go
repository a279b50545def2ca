package services

import (
	"errors"
	"unicode"

	"notebuddy/internal/auth/domain/entities"
)

// Ошибки хэширования паролей.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// Ограничения на пароль. Больше MaxPasswordBytes bcrypt не принимает.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// CheckPasswordPolicy проверяет пароль при регистрации: длина в символах,
// хотя бы одна буква и одна цифра.
func CheckPasswordPolicy(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return entities.ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return entities.ErrPasswordTooLong
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return entities.ErrPasswordTooWeak
	}

	return nil
}
