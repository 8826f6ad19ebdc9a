package models

import "time"

// ConsumptionLog records one redemption at a restaurant counter.
type ConsumptionLog struct {
	ID           uint `gorm:"primarykey"`
	TicketID     uint `gorm:"not null;uniqueIndex"`
	RestaurantID uint `gorm:"not null;index"`
	ClientID     uint `gorm:"not null;index"`
	ValidatorID  uint `gorm:"not null"`
	QRCodeID     uint
	MenuID       *uint
	AgencyID     *uint
	ConsumedAt   time.Time `gorm:"not null;index"`
}
