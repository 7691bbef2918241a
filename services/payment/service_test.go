package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"coolserve/models"

	"go.uber.org/zap"
)

// fakePaymentRepo mirrors the SQL status-transition guard: succeeded and
// canceled are terminal and never overwritten.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment // keyed by intent ID
	marks    []string                   // "intentID:status" in call order
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.payments[p.PaymentIntentID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByIntentID(_ context.Context, intentID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[intentID]
	if !ok {
		return nil, fmt.Errorf("payment for intent %s not found", intentID)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkStatusByIntentID(_ context.Context, intentID, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, intentID+":"+status)
	p, ok := r.payments[intentID]
	if !ok {
		return 0, nil
	}
	if p.Status == models.PaymentStatusSucceeded || p.Status == models.PaymentStatusCanceled {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

func (r *fakePaymentRepo) markCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.marks)
}

type fakeReconciler struct {
	mu        sync.Mutex
	confirmed []string
	failed    []string
}

func (f *fakeReconciler) ConfirmFromPayment(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, bookingID)
	return nil
}

func (f *fakeReconciler) FailFromPayment(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, bookingID)
	return nil
}

func newPaymentServiceUnderTest(repo *fakePaymentRepo, bookings *fakeReconciler) *DefaultPaymentService {
	return &DefaultPaymentService{
		PaymentRepo:   repo,
		Bookings:      bookings,
		Events:        NewMemoryEventStore(),
		WebhookSecret: "whsec_test",
		Logger:        zap.NewNop(),
	}
}

func TestCreateIntentValidation(t *testing.T) {
	t.Parallel()

	repo := newFakePaymentRepo()
	svc := newPaymentServiceUnderTest(repo, &fakeReconciler{})

	cases := []struct {
		name  string
		req   models.PaymentIntentRequest
		field string
	}{
		{
			name:  "zero amount",
			req:   models.PaymentIntentRequest{Amount: 0, Currency: "sgd", Metadata: map[string]string{"serviceId": "s1", "bookingId": "b1"}},
			field: "amount",
		},
		{
			name:  "negative amount",
			req:   models.PaymentIntentRequest{Amount: -500, Currency: "sgd", Metadata: map[string]string{"serviceId": "s1", "bookingId": "b1"}},
			field: "amount",
		},
		{
			name:  "missing currency",
			req:   models.PaymentIntentRequest{Amount: 8000, Metadata: map[string]string{"serviceId": "s1", "bookingId": "b1"}},
			field: "currency",
		},
		{
			name:  "missing serviceId",
			req:   models.PaymentIntentRequest{Amount: 8000, Currency: "sgd", Metadata: map[string]string{"bookingId": "b1"}},
			field: "metadata.serviceId",
		},
		{
			name:  "missing bookingId",
			req:   models.PaymentIntentRequest{Amount: 8000, Currency: "sgd", Metadata: map[string]string{"serviceId": "s1"}},
			field: "metadata.bookingId",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateIntent(context.Background(), tc.req)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Field != tc.field {
				t.Fatalf("field = %q, want %q", valErr.Field, tc.field)
			}
			// Input failures never reach the provider or the database.
			var intentErr *PaymentIntentError
			if errors.As(err, &intentErr) {
				t.Fatal("validation failure must not be a provider error")
			}
			if len(repo.payments) != 0 {
				t.Fatal("nothing should be persisted for an invalid request")
			}
		})
	}
}

func TestGetIntentValidation(t *testing.T) {
	t.Parallel()

	svc := newPaymentServiceUnderTest(newFakePaymentRepo(), &fakeReconciler{})
	_, err := svc.GetIntent(context.Background(), "")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for empty id, got %v", err)
	}
}

func TestRefundValidation(t *testing.T) {
	t.Parallel()

	svc := newPaymentServiceUnderTest(newFakePaymentRepo(), &fakeReconciler{})
	_, err := svc.Refund(context.Background(), models.RefundRequest{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "paymentIntentId" {
		t.Fatalf("expected paymentIntentId ValidationError, got %v", err)
	}
}
