package triageService

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiterPerUserBuckets(t *testing.T) {
	l := newUserRateLimiter(2)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request in burst should be rejected")
	}
	if !l.Allow("b") {
		t.Fatal("a different user must have a fresh bucket")
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	l := newUserRateLimiter(1)
	now := time.Now()
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.Allow("idle-user")
	if len(l.buckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(l.buckets))
	}

	now = now.Add(bucketEvictionWindow + time.Minute)
	l.Allow("other-user")

	if _, ok := l.buckets["idle-user"]; ok {
		t.Fatal("idle bucket should have been evicted")
	}
}

func TestKeyedLocksSerializePerKey(t *testing.T) {
	locks := newKeyedLocks()

	var mu sync.Mutex
	running := 0
	maxRunning := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("same-user")
			defer locks.Unlock("same-user")

			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxRunning != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxRunning)
	}

	if len(locks.locks) != 0 {
		t.Fatalf("lock table should be empty after release, has %d entries", len(locks.locks))
	}
}
