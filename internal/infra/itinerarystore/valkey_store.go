package itinerarystore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// ValkeyStore persists current itineraries in a Valkey-compatible database.
// Writes run inside MULTI/EXEC on a dedicated connection.
type ValkeyStore struct {
	client     valkey.Client
	prefix     string
	historyCap int
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, historyCap int) *ValkeyStore {
	if prefix == "" {
		prefix = "itinerary"
	}
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &ValkeyStore{client: client, prefix: prefix, historyCap: historyCap}
}

func (s *ValkeyStore) GetCurrent(ctx context.Context, key string) (itinerary.Record, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.currentKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return itinerary.Record{}, false, nil
		}
		return itinerary.Record{}, false, err
	}
	var record itinerary.Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return itinerary.Record{}, false, fmt.Errorf("decode current itinerary: %w", err)
	}
	return record, true, nil
}

func (s *ValkeyStore) ReplaceCurrent(ctx context.Context, key string, record itinerary.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	k := s.currentKey(key)
	return s.transaction(ctx,
		s.client.B().Del().Key(k).Build(),
		s.client.B().Set().Key(k).Value(string(payload)).Build(),
	)
}

func (s *ValkeyStore) AppendHistory(ctx context.Context, key string, record itinerary.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	k := s.historyKey(key)
	trim := s.client.B().Del().Key(k).Build()
	if keep := int64(s.historyCap - 1); keep > 0 {
		trim = s.client.B().Ltrim().Key(k).Start(-keep).Stop(-1).Build()
	}
	return s.transaction(ctx, trim, s.client.B().Rpush().Key(k).Element(string(payload)).Build())
}

// History returns the newest record first.
func (s *ValkeyStore) History(ctx context.Context, key string) ([]itinerary.Record, error) {
	items, err := s.client.Do(ctx, s.client.B().Lrange().Key(s.historyKey(key)).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]itinerary.Record, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var record itinerary.Record
		if err := json.Unmarshal([]byte(items[i]), &record); err != nil {
			return nil, fmt.Errorf("decode itinerary history: %w", err)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *ValkeyStore) transaction(ctx context.Context, cmds ...valkey.Completed) error {
	return s.client.Dedicated(func(c valkey.DedicatedClient) error {
		batch := make(valkey.Commands, 0, len(cmds)+2)
		batch = append(batch, c.B().Multi().Build())
		batch = append(batch, cmds...)
		batch = append(batch, c.B().Exec().Build())
		for _, resp := range c.DoMulti(ctx, batch...) {
			if err := resp.Error(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ValkeyStore) currentKey(key string) string {
	return fmt.Sprintf("%s:current:%s", s.prefix, key)
}

func (s *ValkeyStore) historyKey(key string) string {
	return fmt.Sprintf("%s:history:%s", s.prefix, key)
}

var _ itinerary.CurrentRepository = (*ValkeyStore)(nil)
