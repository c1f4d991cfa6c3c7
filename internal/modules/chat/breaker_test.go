package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestBreaker_StaysOpenWithoutRetryAfter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := NewBreaker(0)
	b.now = clock.Now

	assert.True(t, b.Allow())
	b.Trip()
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(365 * 24 * time.Hour)
	assert.False(t, b.Allow())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_HalfOpenAllowsOneProbe(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := NewBreaker(time.Minute)
	b.now = clock.Now

	b.Trip()
	clock.Advance(59 * time.Second)
	assert.False(t, b.Allow())

	clock.Advance(time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.Allow(), "second caller waits for the probe")

	b.Trip()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	clock.Advance(time.Minute)
	assert.True(t, b.Allow())
	b.Reset()
	assert.True(t, b.Allow())
}

func TestBreaker_ConcurrentUse(t *testing.T) {
	b := NewBreaker(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				b.Trip()
			}
			_ = b.Allow()
			_ = b.State()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, StateOpen, b.State())
}
