package domain

import (
	"fmt"
	"time"
)

// SuspiciousIP accumulates anomaly findings per IP. Reason holds one or more
// causes joined with " | "; a cause is only appended when it is not already
// present, so repeated detector runs never duplicate it.
type SuspiciousIP struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	IPAddress  string    `gorm:"size:45;uniqueIndex;not null"`
	Reason     string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	LastSeenAt time.Time `gorm:"not null;index"`
}

func (s *SuspiciousIP) String() string {
	return fmt.Sprintf("%s (%s)", s.IPAddress, s.Reason)
}
