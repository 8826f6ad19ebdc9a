package redemption

import (
	"time"

	"mutralo/internal/models"
)

type CommitRequest struct {
	Code         string
	RestaurantID uint
	ValidatorID  uint
	MenuID       *uint
}

// Verification is what the scanner shows before the manager confirms.
type Verification struct {
	Token            *models.QRCode      `json:"-"`
	Owner            Owner               `json:"owner"`
	TicketNumber     string              `json:"ticket_number"`
	TicketsRemaining int64               `json:"tickets_remaining"`
	Reservation      *models.Reservation `json:"reservation,omitempty"`
	Dishes           []models.Menu       `json:"dishes,omitempty"`
	DishRequired     bool                `json:"dish_required"`
}

type Owner struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Matricule string `json:"matricule"`
	Agency    string `json:"agency"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Receipt describes a committed redemption.
type Receipt struct {
	TicketID      uint      `json:"ticket_id"`
	TicketNumber  string    `json:"ticket_number"`
	OwnerID       uint      `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	MenuID        *uint     `json:"menu_id,omitempty"`
	DishName      string    `json:"dish_name,omitempty"`
	ReservationID *uint     `json:"reservation_id,omitempty"`
	RestaurantID  uint      `json:"restaurant_id"`
	ValidatorID   uint      `json:"validator_id"`
	ConsumedAt    time.Time `json:"consumed_at"`
}

func ownerOf(u *models.User) Owner {
	return Owner{
		ID:        u.ID,
		Name:      u.FullName(),
		Email:     u.Email,
		Matricule: u.MatriculeOrDash(),
		Agency:    u.AgencyName(),
		PhotoURL:  u.PhotoURL,
	}
}
