package models

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// Settings holds the business parameters an administrator may change at any
// time. Core operations receive it as a value.
type Settings struct {
	ID                    uint  `gorm:"primarykey"`
	MinTicketsPerPurchase int   `gorm:"not null;default:1"`
	MaxTicketsPerPurchase int   `gorm:"not null;default:20"`
	MaxPurchasesPerMonth  int   `gorm:"not null;default:1"`
	TicketPrice           int64 `gorm:"not null;default:500"`
	TicketFullPrice       int64 `gorm:"not null;default:2000"`
	TicketSubsidy         int64 `gorm:"not null;default:1500"`
	QRCodeTTLMinutes      int   `gorm:"not null;default:3"`
	ReservationLeadDays   int   `gorm:"not null;default:0"`
	NotifyOnPurchase      bool  `gorm:"not null;default:true"`
	NotifyOnConsumption   bool  `gorm:"not null;default:true"`
	UpdatedBy             *uint
	UpdatedAt             time.Time
}

// DefaultSettings returns the parameters used until an administrator saves new ones.
func DefaultSettings() Settings {
	return Settings{
		ID:                    SettingsID,
		MinTicketsPerPurchase: 1,
		MaxTicketsPerPurchase: 20,
		MaxPurchasesPerMonth:  1,
		TicketPrice:           500,
		TicketFullPrice:       2000,
		TicketSubsidy:         1500,
		QRCodeTTLMinutes:      3,
		ReservationLeadDays:   0,
		NotifyOnPurchase:      true,
		NotifyOnConsumption:   true,
	}
}

// QRCodeTTL returns the QR code lifetime.
func (s Settings) QRCodeTTL() time.Duration {
	if s.QRCodeTTLMinutes <= 0 {
		return 3 * time.Minute
	}
	return time.Duration(s.QRCodeTTLMinutes) * time.Minute
}

// CountAllowed reports whether count is within the per-purchase bounds.
func (s Settings) CountAllowed(count int) bool {
	return count >= s.MinTicketsPerPurchase && count <= s.MaxTicketsPerPurchase
}
