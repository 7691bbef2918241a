package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"coolserve/models"
)

const testWebhookSecret = "whsec_test"

// signedHeader builds a Stripe-Signature header the way Stripe does:
// t=<unix>,v1=hex(hmac_sha256(secret, "<unix>.<payload>")).
func signedHeader(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventID, eventType, intentID, bookingID string) []byte {
	meta := ""
	if bookingID != "" {
		meta = fmt.Sprintf(`,"metadata":{"bookingId":%q}`, bookingID)
	}
	return []byte(fmt.Sprintf(
		`{"id":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent"%s}}}`,
		eventID, eventType, intentID, meta))
}

func TestHandleWebhook(t *testing.T) {
	t.Parallel()

	t.Run("rejects a bad signature without touching anything", func(t *testing.T) {
		repo := newFakePaymentRepo()
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_1", "payment_intent.succeeded", "pi_1", "b1")
		err := svc.HandleWebhook(context.Background(), payload, signedHeader(payload, "whsec_wrong", time.Now()))

		var sigErr *WebhookSignatureError
		if !errors.As(err, &sigErr) {
			t.Fatalf("expected WebhookSignatureError, got %v", err)
		}
		if repo.markCount() != 0 || len(bookings.confirmed) != 0 {
			t.Fatal("a rejected event must have no side effects")
		}
	})

	t.Run("rejects a stale timestamp", func(t *testing.T) {
		svc := newPaymentServiceUnderTest(newFakePaymentRepo(), &fakeReconciler{})

		payload := eventPayload("evt_1", "payment_intent.succeeded", "pi_1", "b1")
		err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now().Add(-time.Hour)))

		var sigErr *WebhookSignatureError
		if !errors.As(err, &sigErr) {
			t.Fatalf("expected WebhookSignatureError, got %v", err)
		}
	})

	t.Run("succeeded event marks the payment and confirms the booking", func(t *testing.T) {
		repo := newFakePaymentRepo()
		repo.payments["pi_1"] = &models.Payment{
			ID: "p1", PaymentIntentID: "pi_1", BookingID: "b1",
			Status: models.PaymentStatusPending,
		}
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_1", "payment_intent.succeeded", "pi_1", "b1")
		if err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}

		if got := repo.payments["pi_1"].Status; got != models.PaymentStatusSucceeded {
			t.Fatalf("payment status = %s, want succeeded", got)
		}
		if len(bookings.confirmed) != 1 || bookings.confirmed[0] != "b1" {
			t.Fatalf("confirmed = %v, want [b1]", bookings.confirmed)
		}
	})

	t.Run("redelivered event is applied exactly once", func(t *testing.T) {
		repo := newFakePaymentRepo()
		repo.payments["pi_1"] = &models.Payment{
			ID: "p1", PaymentIntentID: "pi_1", BookingID: "b1",
			Status: models.PaymentStatusPending,
		}
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_1", "payment_intent.succeeded", "pi_1", "b1")
		for i := 0; i < 3; i++ {
			if err := svc.HandleWebhook(context.Background(), payload,
				signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
				t.Fatalf("delivery %d: %v", i+1, err)
			}
		}

		if repo.markCount() != 1 {
			t.Fatalf("status marked %d times, want 1", repo.markCount())
		}
		if len(bookings.confirmed) != 1 {
			t.Fatalf("booking confirmed %d times, want 1", len(bookings.confirmed))
		}
	})

	t.Run("status guard stops a distinct event for a settled payment", func(t *testing.T) {
		// Same intent, different event ID: the dedupe store lets it through
		// but the terminal-status guard must stop it.
		repo := newFakePaymentRepo()
		repo.payments["pi_1"] = &models.Payment{
			ID: "p1", PaymentIntentID: "pi_1", BookingID: "b1",
			Status: models.PaymentStatusSucceeded,
		}
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_2", "payment_intent.succeeded", "pi_1", "b1")
		if err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}

		if len(bookings.confirmed) != 0 {
			t.Fatal("a settled payment must not confirm the booking again")
		}
	})

	t.Run("failed event cancels the booking", func(t *testing.T) {
		repo := newFakePaymentRepo()
		repo.payments["pi_2"] = &models.Payment{
			ID: "p2", PaymentIntentID: "pi_2", BookingID: "b2",
			Status: models.PaymentStatusPending,
		}
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_3", "payment_intent.payment_failed", "pi_2", "b2")
		if err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}

		if got := repo.payments["pi_2"].Status; got != models.PaymentStatusFailed {
			t.Fatalf("payment status = %s, want failed", got)
		}
		if len(bookings.failed) != 1 || bookings.failed[0] != "b2" {
			t.Fatalf("failed = %v, want [b2]", bookings.failed)
		}
	})

	t.Run("booking id falls back to the stored payment row", func(t *testing.T) {
		repo := newFakePaymentRepo()
		repo.payments["pi_3"] = &models.Payment{
			ID: "p3", PaymentIntentID: "pi_3", BookingID: "b3",
			Status: models.PaymentStatusPending,
		}
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		// No bookingId in the intent metadata.
		payload := eventPayload("evt_4", "payment_intent.succeeded", "pi_3", "")
		if err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}

		if len(bookings.confirmed) != 1 || bookings.confirmed[0] != "b3" {
			t.Fatalf("confirmed = %v, want [b3]", bookings.confirmed)
		}
	})

	t.Run("unknown event types are acknowledged and ignored", func(t *testing.T) {
		repo := newFakePaymentRepo()
		bookings := &fakeReconciler{}
		svc := newPaymentServiceUnderTest(repo, bookings)

		payload := eventPayload("evt_5", "charge.refunded", "pi_4", "b4")
		if err := svc.HandleWebhook(context.Background(), payload,
			signedHeader(payload, testWebhookSecret, time.Now())); err != nil {
			t.Fatalf("HandleWebhook: %v", err)
		}
		if repo.markCount() != 0 || len(bookings.confirmed) != 0 || len(bookings.failed) != 0 {
			t.Fatal("unknown events must have no side effects")
		}
	})
}
