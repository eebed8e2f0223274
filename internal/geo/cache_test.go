package geo

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	loc   Location
	err   error
	calls int
}

func (p *stubProvider) Lookup(string) (Location, error) {
	p.calls++
	return p.loc, p.err
}

func locString(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestLookupCachesResult(t *testing.T) {
	country := "France"
	city := "Paris"
	provider := &stubProvider{loc: Location{Country: &country, City: &city}}
	cache := NewCache(NewMemoryKV(), provider, 24*time.Hour)

	first := cache.Lookup(context.Background(), "1.2.3.4")
	second := cache.Lookup(context.Background(), "1.2.3.4")

	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1", provider.calls)
	}
	if locString(first.Country) != "France" || locString(first.City) != "Paris" {
		t.Fatalf("first lookup = %s/%s, want France/Paris", locString(first.Country), locString(first.City))
	}
	if locString(second.Country) != locString(first.Country) || locString(second.City) != locString(first.City) {
		t.Fatalf("second lookup %s/%s differs from first %s/%s",
			locString(second.Country), locString(second.City),
			locString(first.Country), locString(first.City))
	}
}

func TestLookupCachesFailureAsAbsent(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream timeout")}
	cache := NewCache(NewMemoryKV(), provider, 24*time.Hour)

	loc := cache.Lookup(context.Background(), "1.2.3.4")
	if !loc.Absent() {
		t.Fatalf("failed lookup = %+v, want absent", loc)
	}

	// The absent result must be served from cache, not retried per request.
	cache.Lookup(context.Background(), "1.2.3.4")
	if provider.calls != 1 {
		t.Fatalf("provider called %d times after failure, want 1", provider.calls)
	}
}

func TestLookupRefreshesAfterTTL(t *testing.T) {
	now := time.Now()
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	provider := &stubProvider{}
	cache := NewCache(kv, provider, 24*time.Hour)

	cache.Lookup(context.Background(), "1.2.3.4")
	now = now.Add(25 * time.Hour)
	cache.Lookup(context.Background(), "1.2.3.4")

	if provider.calls != 2 {
		t.Fatalf("provider called %d times across TTL expiry, want 2", provider.calls)
	}
}

func TestLookupDistinctIPsDistinctEntries(t *testing.T) {
	provider := &stubProvider{}
	cache := NewCache(NewMemoryKV(), provider, 24*time.Hour)

	cache.Lookup(context.Background(), "1.2.3.4")
	cache.Lookup(context.Background(), "5.6.7.8")

	if provider.calls != 2 {
		t.Fatalf("provider called %d times for two IPs, want 2", provider.calls)
	}
}
