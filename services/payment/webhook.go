package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"coolserve/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// HandleWebhook verifies the Stripe signature before touching the
// payload, then applies the event exactly once. Unknown event types are
// logged and ignored; they are not errors.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return &WebhookSignatureError{Err: err}
	}

	firstTime, err := s.Events.MarkProcessed(ctx, event.ID, processedEventTTL)
	if err != nil {
		s.Logger.Warn("event dedupe store unavailable, relying on status guard", zap.Error(err))
	} else if !firstTime {
		s.Logger.Info("skipping redelivered webhook event", zap.String("eventID", event.ID))
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyIntentStatus(ctx, event, models.PaymentStatusSucceeded)
	case "payment_intent.payment_failed":
		return s.applyIntentStatus(ctx, event, models.PaymentStatusFailed)
	case "payment_intent.canceled":
		return s.applyIntentStatus(ctx, event, models.PaymentStatusCanceled)
	default:
		s.Logger.Info("ignoring webhook event type", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *DefaultPaymentService) applyIntentStatus(ctx context.Context, event stripe.Event, status string) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("parse %s payload: %w", event.Type, err)
	}

	changed, err := s.PaymentRepo.MarkStatusByIntentID(ctx, pi.ID, status)
	if err != nil {
		return fmt.Errorf("apply %s: %w", event.Type, err)
	}
	if changed == 0 {
		// Already in a terminal state: redelivery or out-of-order event.
		s.Logger.Info("payment already settled, no side effects",
			zap.String("intentID", pi.ID), zap.String("status", status))
		return nil
	}

	s.Logger.Info("payment status updated",
		zap.String("intentID", pi.ID),
		zap.String("status", status))

	bookingID := pi.Metadata["bookingId"]
	if bookingID == "" {
		if p, err := s.PaymentRepo.GetByIntentID(ctx, pi.ID); err == nil {
			bookingID = p.BookingID
		}
	}
	if bookingID == "" || s.Bookings == nil {
		return nil
	}

	switch status {
	case models.PaymentStatusSucceeded:
		if err := s.Bookings.ConfirmFromPayment(ctx, bookingID); err != nil {
			return fmt.Errorf("confirm booking %s: %w", bookingID, err)
		}
	case models.PaymentStatusFailed:
		if err := s.Bookings.FailFromPayment(ctx, bookingID); err != nil {
			return fmt.Errorf("fail booking %s: %w", bookingID, err)
		}
	}
	return nil
}
