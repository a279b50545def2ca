// Package postgres содержит PostgreSQL-реализации репозиториев аутентификации.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/entities"
	"notebuddy/internal/auth/domain/services"
	"notebuddy/internal/auth/ports/repositories"
	pgdb "notebuddy/pkg/db/postgres"
	"notebuddy/pkg/logger"
)

// Коды ошибок Postgres.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

const userColumns = `id, email, username, password_hash, avatar_url, provider, created_at, updated_at`

const (
	queryFindUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryFindUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	queryCreateUser      = `INSERT INTO users (email, username, password_hash, avatar_url, provider) ` +
		`VALUES ($1, $2, $3, $4, $5) RETURNING ` + userColumns
	queryFindOrCreateUser = `INSERT INTO users (email, username, password_hash, avatar_url, provider) ` +
		`VALUES ($1, $2, NULL, $3, $4) ` +
		`ON CONFLICT (email) DO UPDATE SET avatar_url = COALESCE(NULLIF(users.avatar_url, ''), EXCLUDED.avatar_url) ` +
		`RETURNING ` + userColumns
)

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool pgdb.Pool
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool pgdb.Pool) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindUserByID, id))
	if err != nil {
		if isNoUser(err) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryFindUserByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}

// Create создает нового пользователя. Занятый email дает ErrEmailAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	created, err := scanUser(r.pool.QueryRow(ctx, queryCreateUser,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.AvatarURL,
		user.Provider,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Debug(ctx, "email already registered", zap.String("email", user.Email))
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// FindOrCreateByEmail атомарно находит пользователя по email или создает
// его без пароля. Пустой аватар существующего пользователя заполняется.
func (r *UserRepository) FindOrCreateByEmail(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindOrCreateByEmail"))

	found, err := scanUser(r.pool.QueryRow(ctx, queryFindOrCreateUser,
		user.Email,
		user.Username,
		user.AvatarURL,
		user.Provider,
	))
	if err != nil {
		log.Error(ctx, "error upserting oauth user", zap.Error(err))
		return nil, fmt.Errorf("error upserting oauth user: %w", err)
	}

	return found, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}

func isNoUser(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
