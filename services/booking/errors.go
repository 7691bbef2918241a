package booking

import "fmt"

// Redirect hints attached to business-rule rejections; the handler layer
// turns these into a user-visible message plus navigation target.
const (
	RedirectLogin    = "login"
	RedirectServices = "services"
	RedirectAMCRenew = "amc-renew"
)

// ValidationError is a bad caller input. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// BookingInProgressError rejects a second scheduling attempt while one is
// in flight. Surfaced to the user, never retried automatically.
type BookingInProgressError struct{}

func (e *BookingInProgressError) Error() string {
	return "a booking is already in progress for this session"
}

// SlotUnavailableError rejects a slot that is blocked or already taken.
type SlotUnavailableError struct {
	SlotID string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s is no longer available", e.SlotID)
}

// AMCInvalidError rejects an AMC booking when the subscription is not
// currently active.
type AMCInvalidError struct {
	Redirect string
}

func (e *AMCInvalidError) Error() string {
	return "AMC subscription is not active"
}

// MaxBookingsError rejects a booking once the attempt or active-booking
// cap is reached. Terminal for the session.
type MaxBookingsError struct {
	Limit int
}

func (e *MaxBookingsError) Error() string {
	return fmt.Sprintf("maximum of %d bookings reached", e.Limit)
}

// NotAuthenticatedError routes the user to login.
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string {
	return "sign in to book a service"
}

// NetworkError wraps a transient transport failure; retried with backoff.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
