package logger

import (
	"context"

	"github.com/google/uuid"
)

// MaxRequestIDLength - предельная длина принимаемого извне идентификатора.
const MaxRequestIDLength = 128

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext сохраняет идентификатор запроса в контексте.
// Пустой или непригодный для журнала идентификатор заменяется новым UUID.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if !ValidRequestID(requestID) {
		requestID = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID извлекает идентификатор запроса.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// ValidRequestID сообщает, можно ли принять идентификатор от клиента:
// непустой, не длиннее MaxRequestIDLength, только видимые символы ASCII.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}
