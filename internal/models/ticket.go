package models

import (
	"time"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE"
	TicketConsumed  TicketStatus = "CONSUMED"
	TicketExpired   TicketStatus = "EXPIRED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket is one unit of redeemable meal credit. Rows are never deleted: the
// status column is the whole history.
type Ticket struct {
	gorm.Model
	Number       string       `gorm:"uniqueIndex;size:20;not null"`
	OwnerID      uint         `gorm:"not null;index:idx_ticket_owner_status"`
	Owner        *User        `json:",omitempty"`
	PurchaseID   uint         `gorm:"not null;index"`
	Status       TicketStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index:idx_ticket_owner_status"`
	ValidFrom    time.Time    `gorm:"type:date;not null"`
	ValidUntil   time.Time    `gorm:"type:date;not null"`
	Price        int64        `gorm:"not null"`
	Subsidy      int64        `gorm:"not null"`
	ConsumedAt   *time.Time
	RestaurantID *uint `gorm:"index"`
	ValidatedBy  *uint
}

// RedeemableOn reports whether the ticket can be consumed on day.
func (t *Ticket) RedeemableOn(day time.Time) bool {
	d := DateOf(day)
	return t.Status == TicketAvailable && !d.Before(DateOf(t.ValidFrom)) && !d.After(DateOf(t.ValidUntil))
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, -1)
}
