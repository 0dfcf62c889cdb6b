package timing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tt := NewTracker()
	tt.now = clock.Now
	return tt, clock
}

func TestTracker_RecordsSpans(t *testing.T) {
	tt, clock := newFakeTracker()

	span := tt.Start("dark_channel")
	clock.Advance(30 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, span.End())

	span = tt.Start("dark_channel")
	clock.Advance(10 * time.Millisecond)
	span.End()

	span = tt.Start("transmission")
	clock.Advance(5 * time.Millisecond)
	span.End()

	assert.Equal(t, map[string]time.Duration{
		"dark_channel": 40 * time.Millisecond,
		"transmission": 5 * time.Millisecond,
	}, tt.Totals())
	assert.Equal(t, []string{"dark_channel"}, tt.Slowest(1))
	assert.Equal(t, []string{"dark_channel", "transmission"}, tt.Slowest(5))
}

func TestTracker_SlowestBreaksTiesByName(t *testing.T) {
	tt, clock := newFakeTracker()
	for _, op := range []string{"save_output", "resize", "load_from_path"} {
		span := tt.Start(op)
		clock.Advance(time.Millisecond)
		span.End()
	}

	assert.Equal(t, []string{"load_from_path", "resize", "save_output"}, tt.Slowest(3))
}

func TestTracker_Nil(t *testing.T) {
	var nilTracker *Tracker
	assert.Zero(t, nilTracker.Start("x").End())
}

func TestTracker_ConcurrentSpans(t *testing.T) {
	tt, _ := newFakeTracker()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tt.Start("guided_refinement").End()
		}()
	}
	wg.Wait()

	assert.Contains(t, tt.Totals(), "guided_refinement")
}
