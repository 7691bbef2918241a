package models

import "time"

// Booking status values. Transitions are append-only: a booking is
// created pending and moves to confirmed or cancelled exactly once.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a scheduled service visit.
type Booking struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CustomerID  string    `gorm:"index" json:"customerId"`
	ServiceID   string    `gorm:"index" json:"serviceId"`
	TimeSlotID  string    `json:"timeSlotId"`
	ScheduledAt time.Time `gorm:"index" json:"scheduledAt"`
	Status      string    `json:"status"`
	Region      string    `json:"region"`
	Address     string    `json:"address"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	AMC         bool      `json:"amc"` // prepaid annual-maintenance visit; bypasses payment
	Email       string    `gorm:"index" json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	ServiceID string   `json:"serviceId" binding:"required"`
	Slot      TimeSlot `json:"slot" binding:"required"`
	Address   string   `json:"address" binding:"required"`
	Email     string   `json:"email"`
	AMC       bool     `json:"amc"`
}
