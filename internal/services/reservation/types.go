package reservation

import "time"

type CreateRequest struct {
	ClientID uint
	MenuID   uint
	Date     time.Time
	Quantity int
	Notes    string
}
