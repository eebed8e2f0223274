package domain

import (
	"fmt"
	"time"
)

type RequestLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	IPAddress string    `gorm:"size:45;not null;index:idx_request_log_ip"` // IPv6 support + index
	Path      string    `gorm:"size:2048;not null"`
	Timestamp time.Time `gorm:"autoCreateTime;index:idx_request_log_ts"`

	// Geolocation enrichment; nil when the lookup failed or was skipped.
	Country *string `gorm:"size:128"`
	City    *string `gorm:"size:128"`
}

func (rl *RequestLog) String() string {
	return fmt.Sprintf("%s - %s @ %s", rl.IPAddress, rl.Path, rl.Timestamp.Format(time.RFC3339))
}
