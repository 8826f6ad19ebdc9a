package models

import (
	"time"

	"gorm.io/gorm"
)

// QRCode is a short-lived, single-use redemption credential.
type QRCode struct {
	gorm.Model
	Code         string    `gorm:"uniqueIndex;size:64;not null"`
	UserID       uint      `gorm:"not null;index"`
	ExpiresAt    time.Time `gorm:"not null"`
	Valid        bool      `gorm:"not null;default:true"`
	Used         bool      `gorm:"not null;default:false"`
	UsedAt       *time.Time
	RestaurantID *uint
	Payload      JSON `gorm:"type:jsonb"`
}

// ExpiredAt reports whether the code is past its expiry at now.
func (q *QRCode) ExpiredAt(now time.Time) bool {
	return now.After(q.ExpiresAt)
}
