// Package cache содержит реализации кэша коллекций заметок.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/cache"
	"notebuddy/pkg/logger"
)

// Префиксы ключей в Redis.
const (
	KeyPrefix        = "notebuddy:notes:"
	GenerationPrefix = "notebuddy:notes-gen:"
)

// Константы для логирования.
const (
	LogMethodGet        = "get"
	LogMethodGeneration = "generation"
	LogMethodSet        = "set"
	LogMethodInvalidate = "invalidate"

	ErrorFailedToGet        = "failed to get notes from redis"
	ErrorFailedToDecode     = "failed to decode cached notes"
	ErrorFailedToEncode     = "failed to encode notes"
	ErrorFailedToSet        = "failed to set notes in redis"
	ErrorFailedToInvalidate = "failed to invalidate notes in redis"
	ErrorFailedToGetGen     = "failed to get notes generation from redis"
)

// setIfGeneration пишет коллекцию, только если поколение не менялось.
// KEYS[1] - поколение, KEYS[2] - коллекция; ARGV: поколение, JSON, TTL в мс.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then current = '0' end
if current ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisCache реализует NotesCache поверх Redis.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache создает кэш с временем жизни записей ttl.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) cache.NotesCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key возвращает ключ коллекции пользователя.
func Key(userID string) string {
	return KeyPrefix + userID
}

// GenerationKey возвращает ключ счетчика поколений. Счетчик живет без TTL.
func GenerationKey(userID string) string {
	return GenerationPrefix + userID
}

// Get получает коллекцию пользователя.
func (c *RedisCache) Get(ctx context.Context, userID string) ([]*entities.Note, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("userID", userID))

	raw, err := c.client.Get(ctx, Key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var notes []*entities.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	return notes, true, nil
}

// Generation возвращает поколение коллекции; отсутствие счетчика - поколение 0.
func (c *RedisCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGetGen,
			zap.String("method", LogMethodGeneration), zap.String("userID", userID), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToGetGen, err)
	}
	return gen, nil
}

// Set атомарно сравнивает поколение и сохраняет коллекцию пользователя.
func (c *RedisCache) Set(ctx context.Context, userID string, gen int64, notes []*entities.Note) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("userID", userID))

	if notes == nil {
		notes = []*entities.Note{}
	}

	raw, err := json.Marshal(notes)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}

	keys := []string{GenerationKey(userID), Key(userID)}
	stored, err := setIfGeneration.Run(ctx, c.client, keys, gen, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return stored == 1, nil
}

// Invalidate увеличивает поколение и удаляет коллекцию пользователя.
func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodInvalidate), zap.String("userID", userID))

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey(userID))
		pipe.Del(ctx, Key(userID))
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToInvalidate, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToInvalidate, err)
	}

	return nil
}
