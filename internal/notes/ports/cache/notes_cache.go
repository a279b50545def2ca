// Package cache описывает кэш коллекций заметок.
package cache

import (
	"context"

	"notebuddy/internal/notes/domain/entities"
)

// NotesCache хранит коллекцию заметок пользователя целиком.
// Коллекция только заменяется или инвалидируется, но не правится на месте.
//
// Каждая инвалидация увеличивает поколение коллекции. Set принимает
// поколение, прочитанное до загрузки из хранилища, и не записывает
// коллекцию, если с тех пор прошла инвалидация.
type NotesCache interface {
	// Get возвращает коллекцию и признак попадания.
	Get(ctx context.Context, userID string) ([]*entities.Note, bool, error)
	// Generation возвращает текущее поколение коллекции.
	Generation(ctx context.Context, userID string) (int64, error)
	// Set сохраняет коллекцию поколения gen. false означает, что поколение
	// устарело и запись пропущена.
	Set(ctx context.Context, userID string, gen int64, notes []*entities.Note) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}
