package admission

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/geo"
	"gatekeeper/internal/ratelimit"
)

// Collaborators are injected so the pipeline stays a pure function of its
// dependencies and can be exercised with fakes.
type (
	Denylist interface {
		Exists(ip string) bool
	}

	RateLimiter interface {
		Allow(ctx context.Context, id ratelimit.Identity) bool
	}

	Geolocator interface {
		Lookup(ctx context.Context, ip string) geo.Location
	}

	LogStore interface {
		Append(entry *domain.RequestLog) error
	}
)

// Decision is the pipeline's verdict for one request. Err carries a log-store
// failure for the caller to act on; the request itself is still allowed, but
// the audit trail has a gap that must not be silently swallowed.
type Decision struct {
	Allowed bool
	Status  int
	Logged  bool
	Err     error
}

// Pipeline runs the per-request admission sequence:
// denylist -> rate limit -> geolocation -> request log.
type Pipeline struct {
	denylist Denylist
	limiter  RateLimiter
	geo      Geolocator
	logs     LogStore

	// Only paths under these prefixes are admission-controlled by the rate
	// limiter; every attributable request still counts against its
	// identity's window.
	rateLimitedPrefixes []string
}

func NewPipeline(denylist Denylist, limiter RateLimiter, geolocator Geolocator, logs LogStore, rateLimitedPrefixes []string) *Pipeline {
	return &Pipeline{
		denylist:            denylist,
		limiter:             limiter,
		geo:                 geolocator,
		logs:                logs,
		rateLimitedPrefixes: rateLimitedPrefixes,
	}
}

func (p *Pipeline) Admit(ctx context.Context, req Request) Decision {
	ip := req.ClientIP()
	if ip == "" {
		// Unattributable transport metadata: pass through unmodified,
		// neither blocked nor logged.
		return Decision{Allowed: true}
	}

	if p.denylist.Exists(ip) {
		return Decision{Status: http.StatusForbidden}
	}

	withinLimit := p.limiter.Allow(ctx, ratelimit.Identity{UserID: req.UserID, IP: ip})
	if !withinLimit && p.isRateLimited(req.Path) {
		return Decision{Status: http.StatusTooManyRequests}
	}

	// Geolocation is best-effort; the cache converts every failure into an
	// absent location and never errors.
	location := p.geo.Lookup(ctx, ip)

	entry := &domain.RequestLog{
		IPAddress: ip,
		Path:      req.Path,
		Country:   location.Country,
		City:      location.City,
	}
	if err := p.logs.Append(entry); err != nil {
		return Decision{Allowed: true, Err: fmt.Errorf("append request log: %w", err)}
	}

	return Decision{Allowed: true, Logged: true}
}

func (p *Pipeline) isRateLimited(path string) bool {
	for _, prefix := range p.rateLimitedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
