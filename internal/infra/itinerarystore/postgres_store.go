package itinerarystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

const schema = `
CREATE TABLE IF NOT EXISTS itinerary_current (
	device_key TEXT PRIMARY KEY,
	record     JSONB NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS itinerary_history (
	id         TEXT PRIMARY KEY,
	device_key TEXT NOT NULL,
	record     JSONB NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS itinerary_history_device_idx ON itinerary_history (device_key, saved_at DESC);
`

// PostgresStore implements itinerary.CurrentRepository using pgx.
type PostgresStore struct {
	pool       *pgxpool.Pool
	historyCap int
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool, historyCap int) *PostgresStore {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &PostgresStore{pool: pool, historyCap: historyCap}
}

// EnsureSchema creates the tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) GetCurrent(ctx context.Context, key string) (itinerary.Record, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT record FROM itinerary_current WHERE device_key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return itinerary.Record{}, false, nil
	}
	if err != nil {
		return itinerary.Record{}, false, err
	}
	var record itinerary.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return itinerary.Record{}, false, fmt.Errorf("decode current itinerary: %w", err)
	}
	return record, true, nil
}

func (s *PostgresStore) ReplaceCurrent(ctx context.Context, key string, record itinerary.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM itinerary_current WHERE device_key = $1`, key); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO itinerary_current (device_key, record, saved_at)
			VALUES ($1, $2, $3)
		`, key, payload, record.SavedAt)
		return err
	})
}

func (s *PostgresStore) AppendHistory(ctx context.Context, key string, record itinerary.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM itinerary_history
			WHERE id IN (
				SELECT id FROM itinerary_history
				WHERE device_key = $1
				ORDER BY saved_at DESC
				OFFSET $2
			)
		`, key, s.historyCap-1)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO itinerary_history (id, device_key, record, saved_at)
			VALUES ($1, $2, $3, $4)
		`, record.ID, key, payload, record.SavedAt)
		return err
	})
}

// History returns the newest record first.
func (s *PostgresStore) History(ctx context.Context, key string) ([]itinerary.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT record FROM itinerary_history
		WHERE device_key = $1
		ORDER BY saved_at DESC
		LIMIT $2
	`, key, s.historyCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []itinerary.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record itinerary.Record
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode itinerary history: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

var _ itinerary.CurrentRepository = (*PostgresStore)(nil)
