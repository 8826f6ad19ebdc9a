package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf returns the Weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

func (w Weekday) Valid() bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Menu is one dish offered by a restaurant on a given day. A nil Stock means
// unlimited.
type Menu struct {
	gorm.Model
	RestaurantID  uint   `gorm:"not null;index:idx_menu_restaurant_date"`
	Name          string `gorm:"not null"`
	Description   string
	Courses       pq.StringArray `gorm:"type:text[]"`
	Date          *time.Time     `gorm:"type:date;index:idx_menu_restaurant_date"`
	Weekday       Weekday        `gorm:"type:varchar(12);not null"`
	Price         int64          `gorm:"not null;default:0"`
	Available     bool           `gorm:"not null;default:true"`
	Stock         *int
	ConsumedCount int `gorm:"not null;default:0"`
}

// Remaining returns the dishes left, or nil when stock is unlimited.
func (m *Menu) Remaining() *int {
	if m.Stock == nil {
		return nil
	}
	r := *m.Stock - m.ConsumedCount
	if r < 0 {
		r = 0
	}
	return &r
}

// CanServe reports whether the dish is available and not sold out.
func (m *Menu) CanServe() bool {
	if !m.Available {
		return false
	}
	r := m.Remaining()
	return r == nil || *r > 0
}
