package ratelimit

import (
	"time"

	"github.com/dooshek/storyteller/internal/logger"
)

const (
	// window is the rolling period the per-minute ceiling applies to
	window = 60 * time.Second

	// safetyBuffer is added to every window wait so the oldest request has
	// definitely aged out of the remote counter before we send again
	safetyBuffer = time.Second
)

// Clock abstracts time for the limiter so tests don't have to sleep
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a Clock backed by the real time package
func SystemClock() Clock { return systemClock{} }

// Limiter enforces a per-minute request ceiling over a rolling 60-second
// window plus a minimum spacing between consecutive requests. It is owned by
// a single caller and is not safe for concurrent use.
type Limiter struct {
	requestsPerMinute int
	minInterval       time.Duration
	requests          []time.Time
	clock             Clock
}

// New creates a limiter using the system clock
func New(requestsPerMinute int) *Limiter {
	return NewWithClock(requestsPerMinute, systemClock{})
}

// NewWithClock creates a limiter with an injected clock
func NewWithClock(requestsPerMinute int, clock Clock) *Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		minInterval:       window / time.Duration(requestsPerMinute),
		clock:             clock,
	}
}

// Acquire blocks until a request is safe to send, then records it. It never
// fails; callers hold the slot as soon as it returns.
func (l *Limiter) Acquire() {
	now := l.clock.Now()
	l.prune(now)

	if len(l.requests) >= l.requestsPerMinute {
		oldest := l.requests[0]
		wait := window - now.Sub(oldest) + safetyBuffer
		if wait > 0 {
			logger.Debugf("Rate limit protection: waiting %.1fs for window space", wait.Seconds())
			l.clock.Sleep(wait)
			now = l.clock.Now()
			l.prune(now)
		}
	}

	if n := len(l.requests); n > 0 {
		sinceLast := now.Sub(l.requests[n-1])
		if sinceLast < l.minInterval {
			wait := l.minInterval - sinceLast
			logger.Debugf("Rate limit protection: waiting %.1fs between requests", wait.Seconds())
			l.clock.Sleep(wait)
			now = l.clock.Now()
		}
	}

	l.requests = append(l.requests, now)
}

// Pending returns how many requests are currently inside the rolling window
func (l *Limiter) Pending() int {
	l.prune(l.clock.Now())
	return len(l.requests)
}

func (l *Limiter) prune(now time.Time) {
	cutoff := 0
	for cutoff < len(l.requests) && now.Sub(l.requests[cutoff]) >= window {
		cutoff++
	}
	if cutoff > 0 {
		l.requests = append(l.requests[:0], l.requests[cutoff:]...)
	}
}
