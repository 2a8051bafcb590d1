package reminders

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiter used to pace outbound
// notifications so a large reminder batch does not flood the channel.
type RateLimiter struct {
	rate     float64
	burst    int
	tokens   float64
	lastTime time.Time
	mu       sync.Mutex
}

// NewRateLimiter creates a limiter adding rate tokens per second with
// the given burst capacity.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		burst:    burst,
		tokens:   float64(burst),
		lastTime: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()

	now := time.Now()
	elapsed := now.Sub(r.lastTime).Seconds()
	r.tokens = math.Min(float64(r.burst), r.tokens+elapsed*r.rate)
	r.lastTime = now

	if r.tokens >= 1 {
		r.tokens--
		r.mu.Unlock()
		return nil
	}

	waitTime := time.Duration((1 - r.tokens) / r.rate * float64(time.Second))
	r.mu.Unlock()

	select {
	case <-time.After(waitTime):
		r.mu.Lock()
		r.tokens = 0
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to take a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastTime).Seconds()
	r.tokens = math.Min(float64(r.burst), r.tokens+elapsed*r.rate)
	r.lastTime = now

	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}
