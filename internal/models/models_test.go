package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTicket_RedeemableOn(t *testing.T) {
	ticket := Ticket{
		Status:     TicketAvailable,
		ValidFrom:  day(2024, 3, 1),
		ValidUntil: day(2024, 3, 31),
	}

	assert.True(t, ticket.RedeemableOn(day(2024, 3, 1)))
	assert.True(t, ticket.RedeemableOn(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, ticket.RedeemableOn(day(2024, 4, 1)))
	assert.False(t, ticket.RedeemableOn(day(2024, 2, 29)))

	ticket.Status = TicketConsumed
	assert.False(t, ticket.RedeemableOn(day(2024, 3, 15)))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 2, 1), first)
	assert.Equal(t, day(2024, 2, 29), last)
}

func TestMenu_Remaining(t *testing.T) {
	stock := 3
	m := Menu{Available: true, Stock: &stock, ConsumedCount: 1}
	assert.Equal(t, 2, *m.Remaining())
	assert.True(t, m.CanServe())

	m.ConsumedCount = 5
	assert.Equal(t, 0, *m.Remaining())
	assert.False(t, m.CanServe())

	unlimited := Menu{Available: true, ConsumedCount: 100}
	assert.Nil(t, unlimited.Remaining())
	assert.True(t, unlimited.CanServe())

	unlimited.Available = false
	assert.False(t, unlimited.CanServe())
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Friday, WeekdayOf(day(2024, 3, 15)))
	assert.Equal(t, Sunday, WeekdayOf(day(2024, 3, 17)))
	assert.True(t, Monday.Valid())
	assert.False(t, Weekday("LUNDI").Valid())
}

func TestPlanning_Overlaps(t *testing.T) {
	p := Planning{StartDate: day(2024, 3, 1), EndDate: day(2024, 3, 8)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", day(2024, 3, 2), day(2024, 3, 3), true},
		{"straddles end", day(2024, 3, 5), day(2024, 3, 10), true},
		{"touches start", day(2024, 2, 20), day(2024, 3, 1), true},
		{"touches end", day(2024, 3, 8), day(2024, 3, 9), true},
		{"after", day(2024, 3, 9), day(2024, 3, 15), false},
		{"before", day(2024, 2, 1), day(2024, 2, 29), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Overlaps(tt.start, tt.end))
		})
	}
	assert.True(t, p.Covers(day(2024, 3, 8)))
}

func TestSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 3*time.Minute, s.QRCodeTTL())
	assert.True(t, s.CountAllowed(1))
	assert.True(t, s.CountAllowed(20))
	assert.False(t, s.CountAllowed(0))
	assert.False(t, s.CountAllowed(21))

	s.QRCodeTTLMinutes = 0
	assert.Equal(t, 3*time.Minute, s.QRCodeTTL())
}

func TestUser_FullName(t *testing.T) {
	u := User{Email: "a@b.c"}
	assert.Equal(t, "a@b.c", u.FullName())
	assert.Equal(t, "-", u.MatriculeOrDash())
	assert.Equal(t, "-", u.AgencyName())

	m := "M123"
	u = User{FirstName: "Awa", LastName: "Ouedraogo", Matricule: &m, Agency: &Agency{Name: "Centre"}}
	assert.Equal(t, "Awa Ouedraogo", u.FullName())
	assert.Equal(t, "M123", u.MatriculeOrDash())
	assert.Equal(t, "Centre", u.AgencyName())
}

func TestJSON_Scan(t *testing.T) {
	var j JSON
	assert.NoError(t, j.Scan([]byte(`{"code":"abc"}`)))
	assert.Equal(t, "abc", j.String("code"))

	assert.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	assert.Error(t, j.Scan(42))
}
