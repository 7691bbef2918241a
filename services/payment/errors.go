package payment

import "fmt"

// ValidationError is a caller input failure (zero amount, missing
// identifiers). Distinguished from provider failures: it never reaches
// Stripe and is never retried.
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

// PaymentIntentError is a payment-provider rejection.
type PaymentIntentError struct {
	Code    string
	Message string
}

func (e *PaymentIntentError) Error() string {
	return fmt.Sprintf("paymentIntent: %s: %s", e.Code, e.Message)
}

// WebhookSignatureError is fatal to the webhook request: the event is
// never processed and the endpoint answers 4xx.
type WebhookSignatureError struct {
	Err error
}

func (e *WebhookSignatureError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %v", e.Err)
}

func (e *WebhookSignatureError) Unwrap() error { return e.Err }
