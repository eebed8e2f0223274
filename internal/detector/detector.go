package detector

import (
	"fmt"
	"time"

	"gatekeeper/internal/domain"
)

const (
	DefaultHighVolumeThreshold = 100
	window                     = time.Hour
)

var DefaultSensitivePrefixes = []string{"/admin", "/login"}

type (
	// LogStore is the query surface of the request log the detector scans.
	LogStore interface {
		RequestCountsSince(since time.Time) ([]domain.IPCount, error)
		SensitivePathCountsSince(since time.Time, prefixes []string) ([]domain.IPCount, error)
	}

	// Registry is the suspicious-IP store. Overwrite fully replaces the
	// reason; Merge appends it only when not already present. Both bump
	// last_seen_at.
	Registry interface {
		Overwrite(ip, reason string, now time.Time) error
		Merge(ip, reason string, now time.Time) (created bool, err error)
		CountFlaggedSince(since time.Time) (int64, error)
	}
)

// Summary reports one detection run.
type Summary struct {
	Since               time.Time `json:"since"`
	FlaggedTotal        int64     `json:"flagged_total"`
	NewOrUpdatedThisRun int       `json:"new_or_updated_this_run"`
}

// Detector scans the trailing hour of the request log and maintains the
// suspicious-IP registry. Runs are stateless over their own window and safe
// to repeat: the registry upserts are idempotent for identical findings.
type Detector struct {
	logs      LogStore
	registry  Registry
	threshold int64
	prefixes  []string
}

func New(logs LogStore, registry Registry, threshold int, prefixes []string) *Detector {
	if threshold <= 0 {
		threshold = DefaultHighVolumeThreshold
	}
	if len(prefixes) == 0 {
		prefixes = DefaultSensitivePrefixes
	}
	return &Detector{
		logs:      logs,
		registry:  registry,
		threshold: int64(threshold),
		prefixes:  prefixes,
	}
}

// Run executes one detection pass over the hour preceding now. High-volume
// detection runs first and overwrites the stored reason; sensitive-path
// detection then merges its reason in, so an IP flagged by both ends up with
// both causes visible exactly once.
func (d *Detector) Run(now time.Time) (Summary, error) {
	since := now.Add(-window)
	flagged := 0

	counts, err := d.logs.RequestCountsSince(since)
	if err != nil {
		return Summary{}, fmt.Errorf("detector: query request counts: %w", err)
	}

	for _, row := range counts {
		if row.Count <= d.threshold {
			continue
		}

		reason := fmt.Sprintf("High traffic: %d requests in the last hour", row.Count)
		if err := d.registry.Overwrite(row.IPAddress, reason, now); err != nil {
			return Summary{}, fmt.Errorf("detector: flag high-volume IP %s: %w", row.IPAddress, err)
		}
		flagged++
	}

	hits, err := d.logs.SensitivePathCountsSince(since, d.prefixes)
	if err != nil {
		return Summary{}, fmt.Errorf("detector: query sensitive-path hits: %w", err)
	}

	for _, row := range hits {
		reason := fmt.Sprintf("Sensitive path access: %d hits to %v in the last hour", row.Count, d.prefixes)
		created, err := d.registry.Merge(row.IPAddress, reason, now)
		if err != nil {
			return Summary{}, fmt.Errorf("detector: flag sensitive-path IP %s: %w", row.IPAddress, err)
		}
		if created {
			flagged++
		}
	}

	total, err := d.registry.CountFlaggedSince(since)
	if err != nil {
		return Summary{}, fmt.Errorf("detector: count flagged IPs: %w", err)
	}

	return Summary{
		Since:               since,
		FlaggedTotal:        total,
		NewOrUpdatedThisRun: flagged,
	}, nil
}
