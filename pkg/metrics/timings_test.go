package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimingsMilliseconds(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base, base.Add(40 * time.Millisecond), base.Add(100 * time.Millisecond)}
	i := 0
	clock := func() time.Time {
		ts := ticks[i]
		if i < len(ticks)-1 {
			i++
		}
		return ts
	}

	timings := NewTimings(clock)
	timings.Track("places", func() {})

	got := timings.Milliseconds()
	require.Equal(t, int64(40), got["places_ms"])
	require.Equal(t, int64(100), got["total_ms"])
}
