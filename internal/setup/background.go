package setup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"notebuddy/internal/auth/adapters/events"
	"notebuddy/internal/auth/domain/services"
	"notebuddy/pkg/logger"
)

// CacheInvalidator сбрасывает кэш коллекции заметок пользователя.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID string) error
}

// TokenCleaner удаляет просроченные refresh-токены.
type TokenCleaner interface {
	CleanupTokens(ctx context.Context) (int64, error)
}

// SessionEventHandler сбрасывает кэш заметок пользователя, вышедшего из системы.
func SessionEventHandler(invalidator CacheInvalidator) events.Handler {
	return func(ctx context.Context, event services.SessionEvent) {
		if event.Type != services.SessionSignedOut || event.UserID == "" {
			return
		}

		log := logger.Log(ctx).With(zap.String("userID", event.UserID))
		if err := invalidator.InvalidateCache(ctx, event.UserID); err != nil {
			log.Warn(ctx, "failed to drop notes cache after sign-out", zap.Error(err))
			return
		}
		log.Debug(ctx, "notes cache dropped after sign-out")
	}
}

// RunTokenCleanup периодически удаляет просроченные токены, пока не отменен ctx.
func RunTokenCleanup(ctx context.Context, cleaner TokenCleaner, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := cleaner.CleanupTokens(ctx)
			if err != nil {
				logger.Log(ctx).Warn(ctx, "refresh token cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Log(ctx).Info(ctx, "expired refresh tokens removed", zap.Int64("removed", removed))
			}
		}
	}
}
