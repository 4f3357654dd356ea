// Package ratelimit enforces a minimum spacing between requests to the same
// domain. The ledger is process-wide: all sessions in a process share it.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token-per-delay limiter per domain. Domains are keyed by
// network location (host and, where present, port); two domains never share
// a timer. Entries are created lazily on first sight and never removed.
type Limiter struct {
	mu      sync.Mutex
	delay   time.Duration
	domains map[string]*rate.Limiter
}

// New creates a Limiter with a single process-wide default delay. The delay
// is fixed at construction; it is not configurable per request.
func New(delay time.Duration) *Limiter {
	return &Limiter{
		delay:   delay,
		domains: make(map[string]*rate.Limiter),
	}
}

// Wait blocks the calling goroutine until the domain's minimum spacing has
// elapsed since the previous permit, then records the permit. A new domain
// starts with a free token, so its first request proceeds immediately.
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	lim, ok := l.domains[domain]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.delay), 1)
		l.domains[domain] = lim
	}
	l.mu.Unlock()

	if !lim.Allow() {
		slog.Debug("rate limiting request", "domain", domain, "delay", l.delay)
		return lim.Wait(ctx)
	}
	return nil
}
