package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWindow      = time.Minute
	defaultMaxRequests = 10
	defaultSoftCap     = 8

	// pruneThreshold bounds table growth: once exceeded, expired entries
	// are swept on the next window rollover instead of on a timer, since
	// the service runs no background work.
	pruneThreshold = 10_000
)

type Options struct {
	Window      time.Duration
	MaxRequests int
	SoftCap     int
	// Now is injectable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

type Result struct {
	Allowed   bool
	NearCap   bool
	Remaining int
}

type entry struct {
	count       int
	windowStart time.Time
	warned      bool
}

// Limiter is a fixed-window per-identity request limiter. The window is
// fixed, not sliding, which permits up to a 2x burst straddling a window
// boundary; that is an accepted limitation of a soft cost-control limit,
// not a fairness guarantee. State lives only in process memory and resets
// on restart.
type Limiter struct {
	mu    sync.Mutex
	opts  Options
	table map[string]*entry
}

func New(opts Options) *Limiter {
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = defaultMaxRequests
	}
	if opts.SoftCap <= 0 {
		opts.SoftCap = defaultSoftCap
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Limiter{
		opts:  opts,
		table: make(map[string]*entry),
	}
}

// Check records one request for the identity and reports whether it may
// proceed. NearCap turns true from the soft cap to the end of the window;
// the once-per-window log line is gated separately by the warned flag.
func (l *Limiter) Check(identity string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.opts.Now()

	e, ok := l.table[identity]
	if !ok || now.Sub(e.windowStart) >= l.opts.Window {
		if len(l.table) > pruneThreshold {
			l.pruneLocked(now)
		}

		l.table[identity] = &entry{count: 1, windowStart: now}

		return Result{Allowed: true, Remaining: l.opts.MaxRequests - 1}
	}

	e.count++

	if e.count > l.opts.MaxRequests {
		return Result{Allowed: false}
	}

	result := Result{Allowed: true, Remaining: l.opts.MaxRequests - e.count}

	if e.count >= l.opts.SoftCap {
		result.NearCap = true

		if !e.warned {
			e.warned = true
			slog.Warn("Identity approaching rate limit",
				"identity", identity,
				"count", e.count,
				"max", l.opts.MaxRequests)
		}
	}

	return result
}

func (l *Limiter) pruneLocked(now time.Time) {
	for identity, e := range l.table {
		if now.Sub(e.windowStart) >= l.opts.Window {
			delete(l.table, identity)
		}
	}
}
