package reservation

import "mutralo/internal/models"

type action string

const (
	actionConfirm  action = "confirm"
	actionCancel   action = "cancel"
	actionComplete action = "complete"
)

var transitionMap = map[action]struct {
	from []models.ReservationStatus
	to   models.ReservationStatus
}{
	actionConfirm:  {from: []models.ReservationStatus{models.ReservationPending}, to: models.ReservationConfirmed},
	actionCancel:   {from: []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}, to: models.ReservationCancelled},
	actionComplete: {from: []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}, to: models.ReservationDone},
}

// ValidTransition reports whether act may be applied to a reservation in status from.
func ValidTransition(act action, from models.ReservationStatus) bool {
	t, ok := transitionMap[act]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if s == from {
			return true
		}
	}
	return false
}
