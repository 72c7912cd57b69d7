package triageService

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userRateLimiter keeps one token bucket per user id. Entries idle past the
// eviction window are dropped on the next sweep so the map does not grow
// unbounded.
type userRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*userBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const bucketEvictionWindow = 10 * time.Minute

func newUserRateLimiter(perMinute int) *userRateLimiter {
	return &userRateLimiter{
		buckets:   make(map[string]*userBucket),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     perMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *userRateLimiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= bucketEvictionWindow {
		for id, b := range l.buckets {
			if now.Sub(b.lastSeen) >= bucketEvictionWindow {
				delete(l.buckets, id)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[userID]
	if !ok {
		b = &userBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[userID] = b
	}
	b.lastSeen = now

	return b.limiter.Allow()
}
