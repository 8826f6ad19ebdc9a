package models

import (
	"time"

	"gorm.io/gorm"
)

type PurchaseKind string

const (
	PurchaseKindSale   PurchaseKind = "PURCHASE"
	PurchaseKindRefund PurchaseKind = "REFUND"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
	PurchaseRefunded  PurchaseStatus = "REFUNDED"
)

const PaymentModeCash = "CASH"

// Purchase is a cashier sale of a batch of tickets to one client.
type Purchase struct {
	gorm.Model
	Number       string       `gorm:"uniqueIndex;size:40;not null"`
	ClientID     uint         `gorm:"not null;index"`
	Client       *User        `json:",omitempty"`
	CashierID    uint         `gorm:"not null;index"`
	AgencyID     *uint        `gorm:"index"`
	Kind         PurchaseKind `gorm:"type:varchar(20);not null;default:'PURCHASE'"`
	TicketCount  int          `gorm:"not null"`
	FirstTicket  string       `gorm:"size:20"`
	LastTicket   string       `gorm:"size:20"`
	ValidFrom    time.Time    `gorm:"type:date;not null"`
	ValidUntil   time.Time    `gorm:"type:date;not null"`
	UnitPrice    int64        `gorm:"not null"`
	UnitSubsidy  int64        `gorm:"not null"`
	TotalAmount  int64        `gorm:"not null"`
	TotalSubsidy int64        `gorm:"not null"`
	PaymentMode  string       `gorm:"size:20;not null;default:'CASH'"`
	Notes        string
	Status       PurchaseStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CompletedAt  *time.Time
	RefundedAt   *time.Time
	Tickets      []Ticket `json:",omitempty"`
}
