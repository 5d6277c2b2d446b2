package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newRedisGovernor(t *testing.T, window time.Duration, max int) (*Governor, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	governor, err := NewGovernor(NewRedisStore(client), window, max)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return governor, mr
}

func TestRedisStore_RejectsAboveBudget(t *testing.T) {
	governor, _ := newRedisGovernor(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := governor.Admit(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("unexpected error at attempt %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	decision, err := governor.Admit(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected 4th request to be rejected")
	}
	if decision.RetryAfter <= 0 {
		t.Fatalf("expected positive RetryAfter, got %v", decision.RetryAfter)
	}

	if decision, _ := governor.Admit(ctx, "10.0.0.2"); !decision.Allowed {
		t.Fatal("expected a different key to be unaffected")
	}
}

func TestRedisStore_WindowExpires(t *testing.T) {
	governor, mr := newRedisGovernor(t, time.Minute, 1)
	ctx := context.Background()

	if decision, _ := governor.Admit(ctx, "10.0.0.1"); !decision.Allowed {
		t.Fatal("expected first request to be allowed")
	}
	if decision, _ := governor.Admit(ctx, "10.0.0.1"); decision.Allowed {
		t.Fatal("expected second request to be rejected")
	}

	mr.FastForward(time.Minute)

	if decision, _ := governor.Admit(ctx, "10.0.0.1"); !decision.Allowed {
		t.Fatal("expected request after window expiry to be allowed")
	}
}

func TestRedisStore_CounterNeverPassesMax(t *testing.T) {
	governor, mr := newRedisGovernor(t, time.Minute, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := governor.Admit(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stored, err := mr.Get("ratelimit:10.0.0.1")
	if err != nil {
		t.Fatalf("expected counter key to exist: %v", err)
	}
	if stored != "2" {
		t.Fatalf("expected stored counter capped at 2, got %s", stored)
	}
}
