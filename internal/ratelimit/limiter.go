package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/config"
)

const (
	Window    = time.Minute
	keyPrefix = "ratelimit:"
)

// Identity is the caller a window is attributed to: the user id when the
// request carries valid credentials, otherwise the client IP.
type Identity struct {
	UserID uint
	IP     string
}

func (id Identity) Authenticated() bool {
	return id.UserID != 0
}

func (id Identity) Key() string {
	if id.Authenticated() {
		return fmt.Sprintf("%suser:%d", keyPrefix, id.UserID)
	}
	return keyPrefix + "ip:" + id.IP
}

// RateFromConfig returns the per-minute request budget for an identity.
// Authentication state can change between requests from the same IP, so this
// must be evaluated fresh on every call.
func RateFromConfig(id Identity) int {
	cfg := config.GetConfig()
	if id.Authenticated() {
		if cfg.Admission.AuthenticatedRate > 0 {
			return cfg.Admission.AuthenticatedRate
		}
		return 10
	}
	if cfg.Admission.AnonymousRate > 0 {
		return cfg.Admission.AnonymousRate
	}
	return 5
}

// Limiter enforces a fixed 60-second window per identity key.
type Limiter struct {
	counter Counter
	rateFor func(Identity) int
	window  time.Duration
}

func NewLimiter(counter Counter) *Limiter {
	return &Limiter{
		counter: counter,
		rateFor: RateFromConfig,
		window:  Window,
	}
}

// NewLimiterWithRate builds a limiter with a custom rate function; the
// function is still called once per Allow.
func NewLimiterWithRate(counter Counter, rateFor func(Identity) int) *Limiter {
	return &Limiter{
		counter: counter,
		rateFor: rateFor,
		window:  Window,
	}
}

// Allow records one hit for the identity and reports whether it is within its
// budget. Counter failures allow the request through: the limiter is advisory
// and a shared-state outage must not take sensitive endpoints down with it.
func (l *Limiter) Allow(ctx context.Context, id Identity) bool {
	limit := l.rateFor(id)

	count, err := l.counter.Incr(ctx, id.Key(), l.window)
	if err != nil {
		log.Warn("ratelimit: counter unavailable, allowing request", "key", id.Key(), "error", err)
		return true
	}

	return count <= int64(limit)
}
