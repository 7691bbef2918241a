package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coolserve/database/repository"
	"coolserve/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// PaymentService creates and reconciles Stripe PaymentIntents.
type PaymentService interface {
	CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error)
	GetIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
	Refund(ctx context.Context, req models.RefundRequest) (*stripe.Refund, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// BookingReconciler is the booking-side hook invoked when a payment
// reaches a terminal state.
type BookingReconciler interface {
	ConfirmFromPayment(ctx context.Context, bookingID string) error
	FailFromPayment(ctx context.Context, bookingID string) error
}

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	PaymentRepo   repository.PaymentRepository
	Bookings      BookingReconciler
	Events        EventStore
	WebhookSecret string
	Logger        *zap.Logger
}

const processedEventTTL = 24 * time.Hour

// CreateIntent validates the request, creates the Stripe PaymentIntent
// and records a pending payment row. Input validation failures are
// ValidationError, provider rejections are PaymentIntentError.
func (s *DefaultPaymentService) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, NewValidationError("amount", "amount must be greater than zero")
	}
	if req.Currency == "" {
		return nil, NewValidationError("currency", "currency is required")
	}
	serviceID := req.Metadata["serviceId"]
	bookingID := req.Metadata["bookingId"]
	if serviceID == "" {
		return nil, NewValidationError("metadata.serviceId", "serviceId is required")
	}
	if bookingID == "" {
		return nil, NewValidationError("metadata.bookingId", "bookingId is required")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &PaymentIntentError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
		}
		return nil, &PaymentIntentError{Code: "provider_error", Message: err.Error()}
	}

	record := &models.Payment{
		ID:              uuid.New().String(),
		PaymentIntentID: pi.ID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          models.PaymentStatusPending,
		BookingID:       bookingID,
		ServiceID:       serviceID,
		CustomerID:      req.Metadata["customerId"],
		CreatedAt:       time.Now(),
	}
	if err := s.PaymentRepo.Create(ctx, record); err != nil {
		// The intent exists at Stripe; the webhook will still reconcile,
		// but surface the persistence failure.
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.Logger.Info("payment intent created",
		zap.String("intentID", pi.ID),
		zap.String("bookingID", bookingID),
		zap.Int64("amount", req.Amount))

	return &models.PaymentIntentResponse{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *DefaultPaymentService) GetIntent(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
	if intentID == "" {
		return nil, NewValidationError("id", "payment intent id is required")
	}
	pi, err := paymentintent.Get(intentID, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &PaymentIntentError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
		}
		return nil, &PaymentIntentError{Code: "provider_error", Message: err.Error()}
	}
	return pi, nil
}

func (s *DefaultPaymentService) Refund(ctx context.Context, req models.RefundRequest) (*stripe.Refund, error) {
	if req.PaymentIntentID == "" {
		return nil, NewValidationError("paymentIntentId", "paymentIntentId is required")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
	}
	if req.Amount > 0 {
		params.Amount = stripe.Int64(req.Amount)
	}
	if req.Reason != "" {
		params.Reason = stripe.String(req.Reason)
	}

	r, err := refund.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &PaymentIntentError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
		}
		return nil, &PaymentIntentError{Code: "provider_error", Message: err.Error()}
	}

	if _, err := s.PaymentRepo.MarkStatusByIntentID(ctx, req.PaymentIntentID, models.PaymentStatusCanceled); err != nil {
		s.Logger.Warn("failed to mark refunded payment", zap.String("intentID", req.PaymentIntentID), zap.Error(err))
	}

	return r, nil
}
