package metrics

import (
	"sync"
	"time"
)

// Timings records named stage durations for a single pipeline run.
type Timings struct {
	mu     sync.Mutex
	now    func() time.Time
	start  time.Time
	stages map[string]time.Duration
}

// NewTimings starts a stopwatch using the provided clock (time.Now when nil).
func NewTimings(now func() time.Time) *Timings {
	if now == nil {
		now = time.Now
	}
	return &Timings{now: now, start: now(), stages: make(map[string]time.Duration)}
}

// Track runs fn and records its duration under name.
func (t *Timings) Track(name string, fn func()) {
	began := t.now()
	fn()
	t.Record(name, t.now().Sub(began))
}

// Record adds d to the named stage.
func (t *Timings) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages[name] += d
}

// Milliseconds returns every stage plus total_ms, keyed as <name>_ms.
func (t *Timings) Milliseconds() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int64, len(t.stages)+1)
	for name, d := range t.stages {
		out[name+"_ms"] = d.Milliseconds()
	}
	out["total_ms"] = t.now().Sub(t.start).Milliseconds()
	return out
}
