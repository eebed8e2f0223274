package denylist

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/config"
)

// ErrInvalidIP is returned when a denylist operation is given a string that is
// not a valid IPv4 or IPv6 address.
var ErrInvalidIP = errors.New("denylist: invalid IP address")

// Store is the durable denylist the manager hydrates its membership cache from.
type Store interface {
	ListIPs() ([]string, error)
	Insert(ip string) (created bool, err error)
}

type atomicSet struct {
	val atomic.Value
}

func (a *atomicSet) Load() map[string]struct{} {
	raw, ok := a.val.Load().(map[string]struct{})
	if !ok || raw == nil {
		empty := make(map[string]struct{})
		a.val.Store(empty)
		return empty
	}
	return raw
}

func (a *atomicSet) Store(m map[string]struct{}) {
	a.val.Store(m)
}

// Manager keeps an in-memory copy of the blocked-IP set so the per-request
// membership check never touches the database. The cache is refreshed
// periodically and immediately after every local Block call.
type Manager struct {
	store Store
	cache atomicSet
}

func NewManager(store Store) *Manager {
	m := &Manager{store: store}
	m.cache.Store(make(map[string]struct{}))
	return m
}

// LoadCache refreshes the in-memory IP set from the store.
func (m *Manager) LoadCache() error {
	ips, err := m.store.ListIPs()
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		if normalized := normalizeIP(ip); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	m.cache.Store(set)
	return nil
}

// Exists checks the in-memory cache for the given IP.
func (m *Manager) Exists(ip string) bool {
	normalized := normalizeIP(ip)
	if normalized == "" {
		return false
	}
	_, found := m.cache.Load()[normalized]
	return found
}

// Block validates and inserts an IP into the denylist. It reports whether the
// entry is new; an already-blocked IP is not an error.
func (m *Manager) Block(ip string) (created bool, err error) {
	normalized := normalizeIP(ip)
	if normalized == "" {
		return false, ErrInvalidIP
	}

	created, err = m.store.Insert(normalized)
	if err != nil {
		return false, err
	}

	set := m.cache.Load()
	if _, found := set[normalized]; !found {
		next := make(map[string]struct{}, len(set)+1)
		for k := range set {
			next[k] = struct{}{}
		}
		next[normalized] = struct{}{}
		m.cache.Store(next)
	}

	return created, nil
}

// StartRefreshRoutine re-hydrates the cache on the configured interval until
// the context is cancelled. Every instance runs its own copy; the cache is
// read-only state derived from the store.
func (m *Manager) StartRefreshRoutine(ctx context.Context) {
	updates := config.DenylistRefreshIntervalUpdates()
	interval := <-updates

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case newInterval := <-updates:
			if newInterval <= 0 || newInterval == interval {
				continue
			}
			interval = newInterval
			ticker.Reset(interval)
		case <-ticker.C:
			if err := m.LoadCache(); err != nil {
				log.Warn("denylist: cache refresh failed", "error", err)
			}
		}
	}
}

func normalizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
