package itinerary

import "context"

// CurrentRepository keeps one current itinerary per device key and a capped history.
//
// ReplaceCurrent must clear the previous value before writing the new one as a single
// atomic unit. AppendHistory trims the oldest entries before appending so the history
// never exceeds the configured cap.
type CurrentRepository interface {
	GetCurrent(ctx context.Context, key string) (Record, bool, error)
	ReplaceCurrent(ctx context.Context, key string, record Record) error
	AppendHistory(ctx context.Context, key string, record Record) error
	History(ctx context.Context, key string) ([]Record, error)
}

// RawArchive stores generator output that could not be normalized.
type RawArchive interface {
	Put(ctx context.Context, key string, raw string) error
}
