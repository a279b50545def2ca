package services

import (
	"context"

	"notebuddy/internal/auth/domain/services"
)

// SessionPublisher рассылает уведомления об изменении сессий.
type SessionPublisher interface {
	Publish(ctx context.Context, event services.SessionEvent) error
}
