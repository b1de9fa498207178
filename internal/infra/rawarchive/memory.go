package rawarchive

import (
	"context"
	"sync"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// MemoryArchive keeps raw output in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{items: make(map[string]string)}
}

func (a *MemoryArchive) Put(_ context.Context, key string, raw string) error {
	a.mu.Lock()
	a.items[key] = raw
	a.mu.Unlock()
	return nil
}

// Get returns the archived text for key.
func (a *MemoryArchive) Get(key string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	raw, ok := a.items[key]
	return raw, ok
}

var _ itinerary.RawArchive = (*MemoryArchive)(nil)
