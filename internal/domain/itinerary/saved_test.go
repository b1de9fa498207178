package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

func TestSaveReplacesCurrentThenAppendsHistory(t *testing.T) {
	repo := &stubRepository{}
	svc := NewSavedService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	record, err := svc.Save(context.Background(), "  ", TripRequest{Destination: " Porto ", StartDate: "2025-06-01", EndDate: "2025-06-03"}, Itinerary{Currency: CurrencyGBP})
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, "Porto", record.Destination)
	require.False(t, record.SavedAt.IsZero())
	require.Equal(t, []string{"replace:default", "append:default"}, repo.calls)
}

func TestSaveWrapsStoreFailures(t *testing.T) {
	repo := &stubRepository{replaceErr: errors.New("connection reset")}
	svc := NewSavedService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Save(context.Background(), "dev", TripRequest{Destination: "Porto"}, Itinerary{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeStore))
	require.Equal(t, []string{"replace:dev"}, repo.calls)
}

func TestCurrentMissingIsNotFound(t *testing.T) {
	svc := NewSavedService(&stubRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.Current(context.Background(), "dev")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestHistoryIsNeverNil(t *testing.T) {
	svc := NewSavedService(&stubRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	history, err := svc.History(context.Background(), "dev")
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Empty(t, history)
}

type stubRepository struct {
	calls      []string
	current    map[string]Record
	replaceErr error
}

func (s *stubRepository) GetCurrent(_ context.Context, key string) (Record, bool, error) {
	r, ok := s.current[key]
	return r, ok, nil
}

func (s *stubRepository) ReplaceCurrent(_ context.Context, key string, r Record) error {
	s.calls = append(s.calls, "replace:"+key)
	if s.replaceErr != nil {
		return s.replaceErr
	}
	if s.current == nil {
		s.current = make(map[string]Record)
	}
	s.current[key] = r
	return nil
}

func (s *stubRepository) AppendHistory(_ context.Context, key string, _ Record) error {
	s.calls = append(s.calls, "append:"+key)
	return nil
}

func (s *stubRepository) History(_ context.Context, _ string) ([]Record, error) {
	return nil, nil
}
