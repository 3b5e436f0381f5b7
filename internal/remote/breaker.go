package remote

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/fabstock/pkg/logger"
)

// ErrBreakerOpen is returned without calling the backend while the breaker is open.
var ErrBreakerOpen = errors.New("remote backend unavailable: circuit breaker is open")

// BreakerState is the state of a circuit breaker.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half-open"
)

// Breaker stops hammering an unreachable backend after repeated failures.
type Breaker struct {
	name         string
	maxFailures  int
	cooldown     time.Duration
	trialCalls   int
	now          func() time.Time
	mu           sync.Mutex
	state        BreakerState
	failures     int
	successCount int
	changedAt    time.Time
}

// NewBreaker creates a breaker that opens after maxFailures consecutive failures and
// lets a trial call through once cooldown has elapsed.
func NewBreaker(name string, maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		trialCalls:  1,
		now:         time.Now,
		state:       BreakerClosed,
		changedAt:   time.Now(),
	}
}

// Call runs fn unless the breaker is open.
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == BreakerOpen && b.now().Sub(b.changedAt) >= b.cooldown {
		b.transition(BreakerHalfOpen)
	}
	state := b.state
	b.mu.Unlock()

	if state == BreakerOpen {
		return ErrBreakerOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) onFailure() {
	b.failures++
	switch {
	case b.state == BreakerHalfOpen:
		b.transition(BreakerOpen)
	case b.failures >= b.maxFailures:
		logger.Logger.Error().
			Str("circuit", b.name).
			Int("failures", b.failures).
			Msg("Circuit breaker opened")
		b.transition(BreakerOpen)
	}
}

func (b *Breaker) onSuccess() {
	if b.state == BreakerHalfOpen {
		b.successCount++
		if b.successCount >= b.trialCalls {
			b.transition(BreakerClosed)
			b.failures = 0
		}
		return
	}
	b.failures = 0
}

func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	logger.Logger.Info().
		Str("circuit", b.name).
		Str("from", string(b.state)).
		Str("to", string(to)).
		Msg("Circuit breaker state change")
	b.state = to
	b.successCount = 0
	b.changedAt = b.now()
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
