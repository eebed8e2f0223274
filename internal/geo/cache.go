package geo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "ip_geo:"

// Cache fronts a Provider with a shared TTL key-value store. Failed lookups
// are cached as absent results too, so a degraded upstream is not hammered
// once per request. Lookup never fails from the caller's point of view.
type Cache struct {
	kv       KV
	provider Provider
	ttl      time.Duration
	group    singleflight.Group
}

func NewCache(kv KV, provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		kv:       kv,
		provider: provider,
		ttl:      ttl,
	}
}

func (c *Cache) Lookup(ctx context.Context, ip string) Location {
	key := cacheKeyPrefix + ip

	raw, found, err := c.kv.Get(ctx, key)
	if err != nil {
		log.Warn("geo: cache read failed", "ip", ip, "error", err)
	} else if found {
		var loc Location
		if err := json.Unmarshal([]byte(raw), &loc); err == nil {
			return loc
		}
		log.Warn("geo: dropping corrupt cache entry", "ip", ip)
	}

	// Collapse concurrent misses for the same IP into one remote call.
	result, _, _ := c.group.Do(ip, func() (interface{}, error) {
		loc, err := c.provider.Lookup(ip)
		if err != nil {
			log.Debug("geo: lookup failed", "ip", ip, "error", err)
			loc = Location{}
		}

		if data, err := json.Marshal(loc); err == nil {
			if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
				log.Warn("geo: cache write failed", "ip", ip, "error", err)
			}
		}

		return loc, nil
	})

	return result.(Location)
}
