package denylist

import "gatekeeper/internal/database"

// DBStore backs the manager with the blocked_ips table.
type DBStore struct{}

func (DBStore) ListIPs() ([]string, error) {
	return database.ListBlockedIPs()
}

func (DBStore) Insert(ip string) (bool, error) {
	return database.InsertBlockedIP(ip)
}
