package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleClient  = "client"
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null" json:"-"`
	FirstName           string `gorm:"not null"`
	LastName            string `gorm:"not null"`
	Phone               string
	Matricule           *string    `gorm:"uniqueIndex"`
	Role                string     `gorm:"not null;default:'client'"`
	DirectionID         *uint      `gorm:"index"`
	Direction           *Direction `json:",omitempty"`
	AgencyID            *uint      `gorm:"index"`
	Agency              *Agency    `json:",omitempty"`
	ManagedRestaurantID *uint      `gorm:"index"`
	PhotoURL            string
	Active              bool `gorm:"not null;default:true"`
	LastLoginAt         *time.Time
	TokenVersion        int `gorm:"not null;default:1"`
}

// FullName returns "First Last", falling back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func (u *User) MatriculeOrDash() string {
	if u.Matricule == nil || *u.Matricule == "" {
		return "-"
	}
	return *u.Matricule
}

func (u *User) AgencyName() string {
	if u.Agency == nil {
		return "-"
	}
	return u.Agency.Name
}
