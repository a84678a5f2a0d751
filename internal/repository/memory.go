package repository

import (
	"context"
	"sync"
	"time"

	"fitbook/internal/models"
)

type memoryEntry struct {
	summaries []models.ClassSummary
	expiresAt time.Time
}

// MemoryClassCache is the in-process fallback for the class-list cache.
type MemoryClassCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryClassCache(ttl time.Duration) *MemoryClassCache {
	return &MemoryClassCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (m *MemoryClassCache) Get(ctx context.Context, zone string) ([]models.ClassSummary, error) {
	m.mu.RLock()
	entry, ok := m.entries[zone]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.summaries, nil
}

func (m *MemoryClassCache) Set(ctx context.Context, zone string, summaries []models.ClassSummary) error {
	m.mu.Lock()
	m.entries[zone] = memoryEntry{summaries: summaries, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryClassCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
