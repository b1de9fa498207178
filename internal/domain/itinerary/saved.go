package itinerary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

// DefaultDeviceKey is used when the caller does not identify its device.
const DefaultDeviceKey = "default"

// SavedService manages the current itinerary and history of each device.
type SavedService interface {
	Save(ctx context.Context, key string, req TripRequest, it Itinerary) (Record, error)
	Current(ctx context.Context, key string) (Record, error)
	History(ctx context.Context, key string) ([]Record, error)
}

type savedService struct {
	repo   CurrentRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewSavedService wraps a repository.
func NewSavedService(repo CurrentRepository, logger *slog.Logger) SavedService {
	return &savedService{repo: repo, now: time.Now, logger: logger.With("component", "itinerary.saved")}
}

// Save replaces the current itinerary, then records it in history.
func (s *savedService) Save(ctx context.Context, key string, req TripRequest, it Itinerary) (Record, error) {
	key = deviceKey(key)
	record := Record{
		ID:          uuid.NewString(),
		Destination: strings.TrimSpace(req.Destination),
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
		SavedAt:     s.now().UTC(),
		Itinerary:   it,
	}
	if err := s.repo.ReplaceCurrent(ctx, key, record); err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeStore, "failed to save current itinerary", err)
	}
	if err := s.repo.AppendHistory(ctx, key, record); err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeStore, "failed to append itinerary history", err)
	}
	s.logger.Debug("itinerary saved", "device", key, "id", record.ID)
	return record, nil
}

func (s *savedService) Current(ctx context.Context, key string) (Record, error) {
	record, ok, err := s.repo.GetCurrent(ctx, deviceKey(key))
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeStore, "failed to load current itinerary", err)
	}
	if !ok {
		return Record{}, apperrors.Wrap(apperrors.CodeNotFound, "no current itinerary", nil)
	}
	return record, nil
}

func (s *savedService) History(ctx context.Context, key string) ([]Record, error) {
	records, err := s.repo.History(ctx, deviceKey(key))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "failed to load itinerary history", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func deviceKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return DefaultDeviceKey
	}
	return key
}
