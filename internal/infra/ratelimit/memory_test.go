package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Now()
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "k", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied under limit", i+1)
		}
		if d.Remaining != 3-(i+1) {
			t.Fatalf("remaining = %d", d.Remaining)
		}
	}

	d, _ := limiter.Allow(ctx, "k", 3, time.Minute)
	if d.Allowed {
		t.Fatal("request over limit allowed")
	}

	// A new window resets the counter.
	now = now.Add(2 * time.Minute)
	d, _ = limiter.Allow(ctx, "k", 3, time.Minute)
	if !d.Allowed {
		t.Fatal("request denied after window reset")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); !d.Allowed {
		t.Fatal("first request on a denied")
	}
	if d, _ := limiter.Allow(ctx, "a", 1, time.Minute); d.Allowed {
		t.Fatal("second request on a allowed")
	}
	if d, _ := limiter.Allow(ctx, "b", 1, time.Minute); !d.Allowed {
		t.Fatal("request on b denied by a's counter")
	}
}

func TestMemoryLimiterZeroLimitDisables(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	d, err := limiter.Allow(context.Background(), "k", 0, time.Minute)
	if err != nil || !d.Allowed {
		t.Fatalf("d = %+v, err = %v", d, err)
	}
}

func TestMemoryLimiterCapacity(t *testing.T) {
	now := time.Now()
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }, MaxKeys: 2})
	ctx := context.Background()

	limiter.Allow(ctx, "a", 1, time.Minute)
	limiter.Allow(ctx, "b", 1, time.Minute)
	if _, err := limiter.Allow(ctx, "c", 1, time.Minute); err == nil {
		t.Fatal("expected capacity error with live buckets at the cap")
	}

	// Expired buckets are collected to make room.
	now = now.Add(2 * time.Minute)
	if _, err := limiter.Allow(ctx, "c", 1, time.Minute); err != nil {
		t.Fatalf("Allow after expiry: %v", err)
	}
}
