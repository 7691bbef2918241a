package models

import "time"

// Service is a bookable AC service offering.
type Service struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Duration  int       `json:"duration"` // minutes
	AMC       bool      `json:"amc"`      // covered by a prepaid annual maintenance contract
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
