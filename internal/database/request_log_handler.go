package database

import (
	"time"

	"gatekeeper/internal/domain"
)

func InsertRequestLog(entry *domain.RequestLog) error {
	return DB.Create(entry).Error
}

// RequestCountsSince groups the log entries newer than since by IP address.
func RequestCountsSince(since time.Time) ([]domain.IPCount, error) {
	var counts []domain.IPCount
	err := DB.Model(&domain.RequestLog{}).
		Select("ip_address, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group("ip_address").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SensitivePathCountsSince groups entries newer than since whose path starts
// with any of the given prefixes by IP address.
func SensitivePathCountsSince(since time.Time, prefixes []string) ([]domain.IPCount, error) {
	if len(prefixes) == 0 {
		return nil, nil
	}

	query := DB.Model(&domain.RequestLog{}).
		Select("ip_address, COUNT(*) AS count").
		Where("timestamp >= ?", since)

	pathFilter := DB.Where("path LIKE ?", prefixes[0]+"%")
	for _, prefix := range prefixes[1:] {
		pathFilter = pathFilter.Or("path LIKE ?", prefix+"%")
	}

	var counts []domain.IPCount
	err := query.Where(pathFilter).
		Group("ip_address").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func RecentRequestLogs(since time.Time, limit int) ([]domain.RequestLog, error) {
	var entries []domain.RequestLog
	query := DB.Where("timestamp >= ?", since).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
