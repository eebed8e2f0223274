package detector

import (
	"time"

	"gatekeeper/internal/database"
	"gatekeeper/internal/domain"
)

// DBLogStore reads the request_logs table.
type DBLogStore struct{}

func (DBLogStore) RequestCountsSince(since time.Time) ([]domain.IPCount, error) {
	return database.RequestCountsSince(since)
}

func (DBLogStore) SensitivePathCountsSince(since time.Time, prefixes []string) ([]domain.IPCount, error) {
	return database.SensitivePathCountsSince(since, prefixes)
}

// DBRegistry writes the suspicious_ips table.
type DBRegistry struct{}

func (DBRegistry) Overwrite(ip, reason string, now time.Time) error {
	return database.OverwriteSuspicion(ip, reason, now)
}

func (DBRegistry) Merge(ip, reason string, now time.Time) (bool, error) {
	return database.MergeSuspicion(ip, reason, now)
}

func (DBRegistry) CountFlaggedSince(since time.Time) (int64, error) {
	return database.CountSuspiciousSince(since)
}
