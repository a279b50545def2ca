package entities

import (
	"errors"
	"time"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one digit")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrUserNotFound     = errors.New("user not found")
)

// Способы входа пользователя.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User представляет основную сущность домена пользователя.
// PasswordHash равен nil у пользователей, вошедших только через OAuth.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash *string
	AvatarURL    string
	Provider     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword сообщает, может ли пользователь войти по паролю.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
