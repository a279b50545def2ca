// Package shutdown предоставляет корректное завершение приложения
// по сигналам SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notebuddy/pkg/logger"
)

// Hook - функция освобождения ресурса.
type Hook func(context.Context) error

// Wait блокируется до сигнала или отмены ctx, затем параллельно
// выполняет хуки, ограничивая их общим timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Log(ctx).Info(ctx, "shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Log(ctx).Info(ctx, "shutdown requested")
	}

	Run(context.WithoutCancel(ctx), timeout, hooks...)
}

// Run выполняет хуки в пределах timeout. Ошибки хуков логируются.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				logger.Log(ctx).Error(ctx, "shutdown hook failed", zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Log(ctx).Warn(ctx, "shutdown timed out", zap.Duration("timeout", timeout))
	}
}
