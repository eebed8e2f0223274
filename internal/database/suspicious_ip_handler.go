package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatekeeper/internal/domain"
)

// OverwriteSuspicion upserts a suspicion record, fully replacing any previous
// reason with the given one.
func OverwriteSuspicion(ip, reason string, now time.Time) error {
	record := domain.SuspiciousIP{
		IPAddress:  ip,
		Reason:     reason,
		LastSeenAt: now,
	}

	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip_address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reason":       reason,
			"last_seen_at": now,
		}),
	}).Create(&record).Error
}

// MergeSuspicion creates a suspicion record, or appends the reason to an
// existing one when that exact reason text is not already present. LastSeenAt
// is bumped either way. The read-modify-write runs inside a transaction with a
// row lock so overlapping detector runs cannot lose causes.
func MergeSuspicion(ip, reason string, now time.Time) (created bool, err error) {
	err = DB.Transaction(func(tx *gorm.DB) error {
		var record domain.SuspiciousIP
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ip_address = ?", ip).
			First(&record)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(&domain.SuspiciousIP{
				IPAddress:  ip,
				Reason:     reason,
				LastSeenAt: now,
			}).Error
		}
		if result.Error != nil {
			return result.Error
		}

		updates := map[string]interface{}{
			"last_seen_at": now,
		}
		if !strings.Contains(record.Reason, reason) {
			updates["reason"] = record.Reason + " | " + reason
		}

		return tx.Model(&record).Updates(updates).Error
	})

	return created, err
}

// CountSuspiciousSince counts registry entries re-flagged at or after since.
func CountSuspiciousSince(since time.Time) (int64, error) {
	var count int64
	err := DB.Model(&domain.SuspiciousIP{}).
		Where("last_seen_at >= ?", since).
		Count(&count).Error
	return count, err
}

func ListSuspiciousIPs() ([]domain.SuspiciousIP, error) {
	var records []domain.SuspiciousIP
	if err := DB.Order("last_seen_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
