package itinerarystore

import (
	"context"
	"sync"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// DefaultHistoryCap is the number of itineraries kept per device.
const DefaultHistoryCap = 5

// MemoryStore keeps current itineraries and history in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	historyCap int
	current    map[string]itinerary.Record
	history    map[string][]itinerary.Record
}

// NewMemoryStore constructs a store. historyCap <= 0 uses DefaultHistoryCap.
func NewMemoryStore(historyCap int) *MemoryStore {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &MemoryStore{
		historyCap: historyCap,
		current:    make(map[string]itinerary.Record),
		history:    make(map[string][]itinerary.Record),
	}
}

func (s *MemoryStore) GetCurrent(_ context.Context, key string) (itinerary.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.current[key]
	return record, ok, nil
}

// ReplaceCurrent clears the slot and writes the new record under one lock.
func (s *MemoryStore) ReplaceCurrent(_ context.Context, key string, record itinerary.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, key)
	s.current[key] = record
	return nil
}

// ClearCurrent empties the slot for key.
func (s *MemoryStore) ClearCurrent(key string) {
	s.mu.Lock()
	delete(s.current, key)
	s.mu.Unlock()
}

func (s *MemoryStore) AppendHistory(_ context.Context, key string, record itinerary.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.history[key]
	if excess := len(list) - (s.historyCap - 1); excess > 0 {
		list = append([]itinerary.Record(nil), list[excess:]...)
	}
	s.history[key] = append(list, record)
	return nil
}

// History returns the newest record first.
func (s *MemoryStore) History(_ context.Context, key string) ([]itinerary.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.history[key]
	out := make([]itinerary.Record, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

var _ itinerary.CurrentRepository = (*MemoryStore)(nil)
