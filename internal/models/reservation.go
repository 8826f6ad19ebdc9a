package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationDone      ReservationStatus = "DONE"
)

// Terminal reports whether no further transition is allowed.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCancelled || s == ReservationDone
}

// ActiveReservationStatuses are the statuses a redemption looks for.
var ActiveReservationStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed}

// Reservation books a dish for a client on a given day. At most one active
// reservation exists per client, dish and day.
type Reservation struct {
	gorm.Model
	ClientID        uint              `gorm:"not null;uniqueIndex:idx_reservation_active,where:status <> 'CANCELLED' AND status <> 'DONE'"`
	RestaurantID    uint              `gorm:"not null;index"`
	MenuID          uint              `gorm:"not null;uniqueIndex:idx_reservation_active"`
	Menu            *Menu             `json:",omitempty"`
	ReservationDate time.Time         `gorm:"type:date;not null;uniqueIndex:idx_reservation_active"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Quantity        int               `gorm:"not null;default:1"`
	Notes           string
}
