package domain

import "time"

type BlockedIP struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	IPAddress string    `gorm:"size:45;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
