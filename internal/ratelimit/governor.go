// Package ratelimit admits or rejects requests against a per-client
// fixed-window budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store tracks request counts per key within a fixed window.
//
// Hit records one admission attempt. It returns the attempt's position in
// the active window (1-based) and, when the key is over budget, how long
// until the window rolls over. A count above max means the attempt was not
// recorded: stored counters never pass max.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, max int) (count int64, retryAfter time.Duration, err error)
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Governor applies fixed-window counting per client key.
//
// Windows are anchored at the first request of each window, not sliding:
// a burst split across a window boundary can pass twice the budget. That
// artifact is inherent to fixed-window counting and accepted here.
type Governor struct {
	store  Store
	window time.Duration
	max    int
}

// NewGovernor builds a governor over the given store.
func NewGovernor(store Store, window time.Duration, max int) (*Governor, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if window <= 0 || max <= 0 {
		return nil, fmt.Errorf("window and max must be positive")
	}
	return &Governor{store: store, window: window, max: max}, nil
}

// Admit checks whether the client identified by key may proceed.
func (g *Governor) Admit(ctx context.Context, key string) (Decision, error) {
	count, retryAfter, err := g.store.Hit(ctx, "ratelimit:"+key, g.window, g.max)
	if err != nil {
		return Decision{}, err
	}
	if count > int64(g.max) {
		return Decision{Allowed: false, Count: count, RetryAfter: retryAfter}, nil
	}
	return Decision{Allowed: true, Count: count}, nil
}
