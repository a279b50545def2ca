// Package resilience содержит circuit breaker для вызовов внешних сервисов.
// Повторных попыток нет: при открытом breaker вызов сразу отклоняется.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

// State - состояние circuit breaker.
type State int

// Состояния.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Сообщения логгера.
const (
	LogStateChange = "circuit breaker state changed"
	LogReject      = "circuit breaker rejected call"
)

// ErrCircuitOpen возвращается, когда breaker открыт.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config - параметры breaker.
type Config struct {
	// FailureThreshold - число ошибок подряд до открытия.
	FailureThreshold int
	// OpenTimeout - время в открытом состоянии до пробного вызова.
	OpenTimeout time.Duration
	// SuccessThreshold - число успешных пробных вызовов для закрытия.
	SuccessThreshold int
}

// DefaultConfig возвращает параметры по умолчанию.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		SuccessThreshold: 1,
	}
}

// CircuitBreaker защищает вызовы внешнего сервиса.
type CircuitBreaker struct {
	name   string
	config Config
	now    func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	changedAt time.Time
}

// NewCircuitBreaker создает breaker в закрытом состоянии.
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultConfig().SuccessThreshold
	}
	return &CircuitBreaker{
		name:      name,
		config:    cfg,
		now:       time.Now,
		state:     StateClosed,
		changedAt: time.Now(),
	}
}

// WithClock подменяет источник времени. Для тестов.
func (cb *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
	cb.changedAt = now()
	return cb
}

// Execute вызывает fn, если breaker это разрешает, и учитывает результат.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow(ctx) {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.record(ctx, err)
	return err
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow(ctx context.Context) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.now().Sub(cb.changedAt) >= cb.config.OpenTimeout {
			cb.transition(ctx, StateHalfOpen)
			return true
		}
		logger.Log(ctx).Debug(ctx, LogReject, zap.String("circuit_breaker", cb.name))
		return false
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.transition(ctx, StateOpen)
			}
		case StateHalfOpen:
			cb.transition(ctx, StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transition(ctx, StateClosed)
		}
	}
}

// transition вызывается под mu.
func (cb *CircuitBreaker) transition(ctx context.Context, to State) {
	from := cb.state
	cb.state = to
	cb.changedAt = cb.now()
	cb.failures = 0
	cb.successes = 0

	log := logger.Log(ctx).With(zap.String("circuit_breaker", cb.name))
	if to == StateOpen {
		log.Warn(ctx, LogStateChange, zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	log.Info(ctx, LogStateChange, zap.Stringer("from", from), zap.Stringer("to", to))
}
