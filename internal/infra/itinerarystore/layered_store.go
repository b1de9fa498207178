package itinerarystore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// LayeredStore fronts a durable store with an in-memory current slot.
// Both slots are cleared before the new record is written.
type LayeredStore struct {
	mu      sync.Mutex
	fast    *MemoryStore
	durable itinerary.CurrentRepository
	logger  *slog.Logger
}

// NewLayeredStore wraps durable with a memory slot.
func NewLayeredStore(durable itinerary.CurrentRepository, logger *slog.Logger) *LayeredStore {
	return &LayeredStore{
		fast:    NewMemoryStore(1),
		durable: durable,
		logger:  logger.With("component", "itinerarystore.layered"),
	}
}

func (s *LayeredStore) GetCurrent(ctx context.Context, key string) (itinerary.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok, _ := s.fast.GetCurrent(ctx, key); ok {
		return record, true, nil
	}
	record, ok, err := s.durable.GetCurrent(ctx, key)
	if err != nil || !ok {
		return record, ok, err
	}
	_ = s.fast.ReplaceCurrent(ctx, key, record)
	return record, true, nil
}

func (s *LayeredStore) ReplaceCurrent(ctx context.Context, key string, record itinerary.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fast.ClearCurrent(key)
	if err := s.durable.ReplaceCurrent(ctx, key, record); err != nil {
		s.logger.Warn("durable replace failed", "device", key, "error", err)
		return err
	}
	return s.fast.ReplaceCurrent(ctx, key, record)
}

func (s *LayeredStore) AppendHistory(ctx context.Context, key string, record itinerary.Record) error {
	return s.durable.AppendHistory(ctx, key, record)
}

func (s *LayeredStore) History(ctx context.Context, key string) ([]itinerary.Record, error) {
	return s.durable.History(ctx, key)
}

var _ itinerary.CurrentRepository = (*LayeredStore)(nil)
