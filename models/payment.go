package models

import "time"

// Payment status values. The Stripe webhook is authoritative: status is
// updated exactly once by webhook or direct confirmation.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
)

// Payment records one Stripe PaymentIntent for a booking.
type Payment struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	PaymentIntentID string    `gorm:"uniqueIndex" json:"paymentIntentId"`
	Amount          int64     `json:"amount"` // smallest currency unit
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	BookingID       string    `gorm:"index" json:"bookingId"`
	CustomerID      string    `json:"customerId"`
	ServiceID       string    `json:"serviceId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PaymentIntentRequest is the payload for creating a PaymentIntent.
type PaymentIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// PaymentIntentResponse is returned to the client for capture.
type PaymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// RefundRequest is the payload for refunding a PaymentIntent.
type RefundRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	Amount          int64  `json:"amount"`
	Reason          string `json:"reason"`
}
