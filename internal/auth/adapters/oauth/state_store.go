// Package oauth ведет redirect-поток входа через провайдеров goth.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateKeyPrefix - префикс ключей сессий провайдеров в Redis.
const StateKeyPrefix = "notebuddy:oauth:"

// ErrStateNotFound - state не найден или истек.
var ErrStateNotFound = errors.New("oauth state not found")

const (
	errSaveState = "failed to save oauth state"
	errTakeState = "failed to take oauth state"
)

// StateStore хранит сериализованную сессию провайдера до обратного вызова.
type StateStore interface {
	Save(ctx context.Context, state, session string, ttl time.Duration) error
	// Take возвращает и удаляет сессию. Повторный вызов дает ErrStateNotFound.
	Take(ctx context.Context, state string) (string, error)
}

// RedisStateStore реализует StateStore поверх Redis.
type RedisStateStore struct {
	client redis.UniversalClient
}

// NewRedisStateStore создает хранилище state.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Save сохраняет сессию на время ttl.
func (s *RedisStateStore) Save(ctx context.Context, state, session string, ttl time.Duration) error {
	if err := s.client.Set(ctx, StateKeyPrefix+state, session, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", errSaveState, err)
	}
	return nil
}

// Take атомарно забирает сессию.
func (s *RedisStateStore) Take(ctx context.Context, state string) (string, error) {
	session, err := s.client.GetDel(ctx, StateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", errTakeState, err)
	}
	return session, nil
}
