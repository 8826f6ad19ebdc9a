package models

import "gorm.io/gorm"

type RestaurantStatus string

const (
	RestaurantActive    RestaurantStatus = "ACTIVE"
	RestaurantInactive  RestaurantStatus = "INACTIVE"
	RestaurantSuspended RestaurantStatus = "SUSPENDED"
)

type Direction struct {
	gorm.Model
	Name   string `gorm:"not null"`
	Code   string `gorm:"uniqueIndex;not null"`
	Active bool   `gorm:"not null;default:true"`
}

// Agency is a physical site whose employees are served by one restaurant at a time.
type Agency struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Code        string `gorm:"uniqueIndex;not null"`
	DirectionID *uint  `gorm:"index"`
	Address     string
	Active      bool `gorm:"not null;default:true"`
}

type Restaurant struct {
	gorm.Model
	Name    string `gorm:"not null"`
	Address string
	Phone   string
	Email   string
	Status  RestaurantStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}
