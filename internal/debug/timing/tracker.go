package timing

import (
	"sort"
	"sync"
	"time"
)

// Span is a running measurement returned by Tracker.Start.
type Span struct {
	tracker   *Tracker
	operation string
	start     time.Time
}

// Tracker records wall-clock durations per named operation. It is safe for
// concurrent use.
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		now:     time.Now,
	}
}

// Start begins timing operation; call End on the returned span.
func (tt *Tracker) Start(operation string) Span {
	if tt == nil {
		return Span{}
	}
	return Span{tracker: tt, operation: operation, start: tt.now()}
}

// End records the span and returns its duration.
func (s Span) End() time.Duration {
	if s.tracker == nil {
		return 0
	}
	d := s.tracker.now().Sub(s.start)
	s.tracker.record(s.operation, d)
	return d
}

func (tt *Tracker) record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.timings[operation] = append(tt.timings[operation], d)
}

// Totals sums the recorded durations of every operation.
func (tt *Tracker) Totals() map[string]time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	result := make(map[string]time.Duration, len(tt.timings))
	for operation, timings := range tt.timings {
		var total time.Duration
		for _, d := range timings {
			total += d
		}
		result[operation] = total
	}
	return result
}

// Slowest returns up to n operations ordered by total duration, longest first.
func (tt *Tracker) Slowest(n int) []string {
	totals := tt.Totals()
	ops := make([]string, 0, len(totals))
	for op := range totals {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if totals[ops[i]] != totals[ops[j]] {
			return totals[ops[i]] > totals[ops[j]]
		}
		return ops[i] < ops[j]
	})
	if n < len(ops) {
		ops = ops[:n]
	}
	return ops
}
