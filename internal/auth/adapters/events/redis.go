// Package events рассылает события сессий через Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/services"
	svc "notebuddy/internal/auth/ports/services"
	"notebuddy/pkg/logger"
)

// Channel - канал событий сессий.
const Channel = "notebuddy:sessions"

const (
	msgPublished          = "session event published"
	msgSubscribed         = "subscribed to session events"
	msgUndecodable        = "dropping undecodable session event"
	msgSubscriptionClosed = "session subscription closed"

	errEncode    = "failed to encode session event"
	errPublish   = "failed to publish session event"
	errSubscribe = "failed to subscribe to session events"
)

// Publisher публикует события в канал Redis.
type Publisher struct {
	client  redis.UniversalClient
	channel string
}

var _ svc.SessionPublisher = (*Publisher)(nil)

// NewPublisher создает издателя событий.
func NewPublisher(client redis.UniversalClient) *Publisher {
	return &Publisher{client: client, channel: Channel}
}

// Publish отправляет событие всем подписчикам.
func (p *Publisher) Publish(ctx context.Context, event services.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", errEncode, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", errPublish, err)
	}

	logger.Log(ctx).Debug(ctx, msgPublished,
		zap.String("type", string(event.Type)),
		zap.String("userID", event.UserID),
	)
	return nil
}

// Handler обрабатывает полученное событие.
type Handler func(ctx context.Context, event services.SessionEvent)

// Subscription - подтвержденная подписка на канал событий.
type Subscription struct {
	pubsub *redis.PubSub
}

// Subscribe подписывается на канал и ждет подтверждения от Redis.
func Subscribe(ctx context.Context, client redis.UniversalClient) (*Subscription, error) {
	pubsub := client.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%s: %w", errSubscribe, err)
	}

	logger.Log(ctx).Info(ctx, msgSubscribed, zap.String("channel", Channel))
	return &Subscription{pubsub: pubsub}, nil
}

// Run передает события в handler, пока не отменен ctx. Подписка
// закрывается при выходе.
func (s *Subscription) Run(ctx context.Context, handler Handler) {
	defer func() {
		_ = s.pubsub.Close()
		logger.Log(ctx).Info(ctx, msgSubscriptionClosed)
	}()

	messages := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event services.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Log(ctx).Warn(ctx, msgUndecodable, zap.Error(err))
				continue
			}
			handler(ctx, event)
		}
	}
}
