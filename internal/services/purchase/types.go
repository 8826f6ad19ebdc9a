package purchase

import (
	"fmt"
	"time"
)

type SaleRequest struct {
	ClientID  uint
	CashierID uint
	AgencyID  *uint
	Count     int
	Notes     string
}

// Quota is a client's monthly purchase allowance.
type Quota struct {
	Used      int64 `json:"used"`
	Max       int   `json:"max"`
	Remaining int64 `json:"remaining"`
}

// Sale and refund event payloads.
type (
	SoldEvent struct {
		PurchaseID  uint   `json:"purchase_id"`
		Number      string `json:"number"`
		ClientID    uint   `json:"client_id"`
		CashierID   uint   `json:"cashier_id"`
		TicketCount int    `json:"ticket_count"`
		FirstTicket string `json:"first_ticket"`
		LastTicket  string `json:"last_ticket"`
		TotalAmount int64  `json:"total_amount"`
	}

	RefundedEvent struct {
		PurchaseID uint  `json:"purchase_id"`
		ClientID   uint  `json:"client_id"`
		Cancelled  int64 `json:"cancelled"`
	}
)

// PurchaseNumber renders the identifier of a sale made at t.
func PurchaseNumber(t time.Time, clientID uint) string {
	return fmt.Sprintf("%s-%d", t.Format("20060102-150405"), clientID)
}
