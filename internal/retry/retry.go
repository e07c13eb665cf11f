package retry

import (
	"context"
	"errors"
	"time"

	"github.com/dooshek/storyteller/internal/logger"
)

// ErrThrottled marks an error caused by the remote API rejecting a request
// with HTTP 429. Providers wrap their rate limit errors with this sentinel so
// the policy can tell them apart from permanent failures.
var ErrThrottled = errors.New("rate limited by remote API")

// Sleeper abstracts the retry delay so tests don't have to wait
type Sleeper interface {
	Sleep(d time.Duration)
}

type systemSleeper struct{}

func (systemSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Policy retries throttled operations a bounded number of times with a fixed
// delay between attempts. Only errors wrapping ErrThrottled are retried;
// everything else propagates immediately.
type Policy struct {
	maxRetries int
	delay      time.Duration
	sleeper    Sleeper
}

// New creates a policy that sleeps delay between attempts and retries at most
// maxRetries times after the initial attempt.
func New(maxRetries int, delay time.Duration) *Policy {
	return NewWithSleeper(maxRetries, delay, systemSleeper{})
}

// NewWithSleeper creates a policy with an injected sleeper
func NewWithSleeper(maxRetries int, delay time.Duration, sleeper Sleeper) *Policy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Policy{
		maxRetries: maxRetries,
		delay:      delay,
		sleeper:    sleeper,
	}
}

// Execute runs do, retrying on throttle errors. The closure is responsible
// for re-acquiring any rate limiter slot on each attempt.
func (p *Policy) Execute(ctx context.Context, do func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = do(ctx)
		if err == nil || !errors.Is(err, ErrThrottled) {
			return err
		}
		if attempt >= p.maxRetries {
			return err
		}

		logger.Warnf("Rate limited by API, waiting %.0fs before retry %d/%d",
			p.delay.Seconds(), attempt+1, p.maxRetries)
		p.sleeper.Sleep(p.delay)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
