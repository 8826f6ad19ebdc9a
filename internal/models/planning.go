package models

import (
	"time"

	"gorm.io/gorm"
)

type PlanningType string

const (
	PlanningWeekly  PlanningType = "WEEKLY"
	PlanningMonthly PlanningType = "MONTHLY"
)

func (t PlanningType) Valid() bool {
	return t == PlanningWeekly || t == PlanningMonthly
}

// Planning schedules a restaurant to serve an agency over an inclusive date range.
type Planning struct {
	gorm.Model
	RestaurantID uint         `gorm:"not null;index"`
	Restaurant   *Restaurant  `json:",omitempty"`
	AgencyID     uint         `gorm:"not null;index"`
	Agency       *Agency      `json:",omitempty"`
	Type         PlanningType `gorm:"type:varchar(20);not null;default:'MONTHLY'"`
	StartDate    time.Time    `gorm:"type:date;not null"`
	EndDate      time.Time    `gorm:"type:date;not null"`
	Active       bool         `gorm:"not null;default:true"`
	CreatedBy    uint
}

// Overlaps reports whether the inclusive ranges of p and [start, end] intersect.
func (p *Planning) Overlaps(start, end time.Time) bool {
	return !DateOf(p.StartDate).After(DateOf(end)) && !DateOf(p.EndDate).Before(DateOf(start))
}

// Covers reports whether day falls inside the planning range.
func (p *Planning) Covers(day time.Time) bool {
	return p.Overlaps(day, day)
}
