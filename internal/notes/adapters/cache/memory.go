package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/cache"
)

// MemoryCache - кэш коллекций в памяти процесса с вытеснением по LRU и TTL.
// Подходит для одного экземпляра сервиса.
type MemoryCache struct {
	lru *expirable.LRU[string, []*entities.Note]

	mu   sync.Mutex
	gens map[string]int64
}

// NewMemoryCache создает кэш на size пользователей.
func NewMemoryCache(size int, ttl time.Duration) cache.NotesCache {
	return &MemoryCache{
		lru:  expirable.NewLRU[string, []*entities.Note](size, nil, ttl),
		gens: make(map[string]int64),
	}
}

// Get возвращает копию коллекции.
func (c *MemoryCache) Get(_ context.Context, userID string) ([]*entities.Note, bool, error) {
	notes, ok := c.lru.Get(userID)
	if !ok {
		return nil, false, nil
	}
	return entities.CloneNotes(notes), true, nil
}

// Generation возвращает поколение коллекции.
func (c *MemoryCache) Generation(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID], nil
}

// Set сохраняет копию коллекции, если поколение gen актуально.
func (c *MemoryCache) Set(_ context.Context, userID string, gen int64, notes []*entities.Note) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[userID] != gen {
		return false, nil
	}
	c.lru.Add(userID, entities.CloneNotes(notes))
	return true, nil
}

// Invalidate увеличивает поколение и удаляет коллекцию.
func (c *MemoryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[userID]++
	c.lru.Remove(userID)
	return nil
}
