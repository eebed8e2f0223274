package database

import (
	"gorm.io/gorm/clause"

	"gatekeeper/internal/domain"
)

func ListBlockedIPs() ([]string, error) {
	var ips []string
	if err := DB.Model(&domain.BlockedIP{}).Pluck("ip_address", &ips).Error; err != nil {
		return nil, err
	}
	return ips, nil
}

// InsertBlockedIP adds an IP to the denylist. The insert is idempotent:
// a second call for the same IP reports created=false instead of failing.
func InsertBlockedIP(ip string) (created bool, err error) {
	result := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip_address"}},
		DoNothing: true,
	}).Create(&domain.BlockedIP{IPAddress: ip})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
