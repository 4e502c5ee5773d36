package web

// limiter.go bounds how many tables are converted at once.
//
// A conversion holds its whole table and the encoded buffer in memory, so
// parallel requests are capped with a semaphore. When every slot is taken
// a request waits up to maxWait, then fails with errTooManyConversions.

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errTooManyConversions = errors.New("too many concurrent conversions, please try again later")

// conversionLimiter is a counting semaphore with a bounded wait.
type conversionLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// LimiterStatus is a snapshot of the limiter, reported by /healthz.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

func newConversionLimiter(maxConcurrent int, maxWait time.Duration) *conversionLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &conversionLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// acquire takes a slot, waiting at most maxWait. The caller must release
// it exactly once.
func (l *conversionLimiter) acquire(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Fast path: a free slot is taken even when maxWait is zero
	select {
	case l.semaphore <- struct{}{}:
		l.inc()
		return nil
	default:
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.inc()
		return nil

	case <-waitCtx.Done():
		// Distinguish the caller giving up from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errTooManyConversions
	}
}

func (l *conversionLimiter) inc() {
	l.mu.Lock()
	l.active++
	l.mu.Unlock()
}

func (l *conversionLimiter) release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// waitForDrain blocks until no conversion is running or ctx is done.
func (l *conversionLimiter) waitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.status().Active == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *conversionLimiter) status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
