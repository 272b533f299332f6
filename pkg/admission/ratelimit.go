package admission

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per source IP. Buckets are created on
// first sight and evicted once they refill completely, which only happens
// after the source has gone quiet.
type ipLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func newIPLimiter(capacity, refillTokens int, refillInterval time.Duration) *ipLimiter {
	return &ipLimiter{
		rate:        rate.Limit(float64(refillTokens) / refillInterval.Seconds()),
		burst:       capacity,
		lastCleanup: time.Now(),
	}
}

func (l *ipLimiter) allowAt(key string, now time.Time) bool {
	limiter := l.getLimiter(key)
	return limiter.AllowN(now, 1)
}

func (l *ipLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.rate, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, limiter)

	l.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that are full again, a cheap proxy for "idle
// long enough". Runs at most once every 5 minutes to bound the scan cost.
func (l *ipLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}
