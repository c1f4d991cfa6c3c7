package chat

import (
	"sync"
	"time"
)

type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half-open"
)

// Breaker gates the remote completion path. It opens on the first quota
// failure. With a zero retryAfter it stays open until Reset; otherwise one
// probe call is let through once retryAfter has elapsed.
type Breaker struct {
	mu         sync.Mutex
	state      BreakerState
	openedAt   time.Time
	retryAfter time.Duration
	now        func() time.Time
}

func NewBreaker(retryAfter time.Duration) *Breaker {
	return &Breaker{state: StateClosed, retryAfter: retryAfter, now: time.Now}
}

// Allow reports whether a remote call may be attempted now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.retryAfter > 0 && !b.now().Before(b.openedAt.Add(b.retryAfter)) {
			b.state = StateHalfOpen
			return true
		}
		return false
	default:
		// a probe is already in flight
		return false
	}
}

// Trip opens the breaker.
func (b *Breaker) Trip() {
	b.mu.Lock()
	b.state = StateOpen
	b.openedAt = b.now()
	b.mu.Unlock()
}

// Reset closes the breaker.
func (b *Breaker) Reset() {
	b.mu.Lock()
	b.state = StateClosed
	b.openedAt = time.Time{}
	b.mu.Unlock()
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
