package remote

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBackend = errors.New("connection refused")

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("remote", 3, time.Minute)
	calls := 0
	failing := func() error { calls++; return errBackend }

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Call(failing), errBackend)
	}
	assert.Equal(t, BreakerOpen, b.State())

	assert.ErrorIs(t, b.Call(failing), ErrBreakerOpen)
	assert.Equal(t, 3, calls)
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker("remote", 2, time.Minute)

	assert.Error(t, b.Call(func() error { return errBackend }))
	assert.NoError(t, b.Call(func() error { return nil }))
	assert.Error(t, b.Call(func() error { return errBackend }))

	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerHalfOpenTrialCall(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewBreaker("remote", 1, 30*time.Second)
	b.now = func() time.Time { return now }

	assert.Error(t, b.Call(func() error { return errBackend }))
	assert.Equal(t, BreakerOpen, b.State())

	now = now.Add(31 * time.Second)
	assert.Error(t, b.Call(func() error { return errBackend }))
	assert.Equal(t, BreakerOpen, b.State(), "a failed trial call reopens the breaker")

	now = now.Add(31 * time.Second)
	assert.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}
