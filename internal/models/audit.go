package models

import "time"

type AuditAction string

const (
	AuditCreate      AuditAction = "CREATE"
	AuditUpdate      AuditAction = "UPDATE"
	AuditDelete      AuditAction = "DELETE"
	AuditLogin       AuditAction = "LOGIN"
	AuditLogout      AuditAction = "LOGOUT"
	AuditPurchase    AuditAction = "PURCHASE"
	AuditConsumption AuditAction = "CONSUMPTION"
	AuditRefund      AuditAction = "REFUND"
)

type AuditEntry struct {
	ID        uint        `gorm:"primarykey"`
	UserID    *uint       `gorm:"index"`
	Action    AuditAction `gorm:"type:varchar(20);not null;index"`
	Entity    string      `gorm:"size:50;not null"`
	EntityID  string      `gorm:"size:50"`
	Details   JSON        `gorm:"type:jsonb"`
	IPAddress string      `gorm:"size:45"`
	EventID   string      `gorm:"size:36;index"`
	CreatedAt time.Time   `gorm:"index"`
}
