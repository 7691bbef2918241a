package repository

import (
	"context"
	"fmt"

	"coolserve/database"
	"coolserve/models"

	"gorm.io/gorm"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	// MarkStatusByIntentID sets the payment status keyed by the provider
	// payment-intent id. It only transitions away from non-terminal
	// states, so redelivered webhooks are a no-op. Returns the number of
	// rows changed.
	MarkStatusByIntentID(ctx context.Context, intentID, status string) (int64, error)
}

// GormPaymentRepo implements PaymentRepository on Postgres.
type GormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo() *GormPaymentRepo {
	return &GormPaymentRepo{db: database.GetDB()}
}

func NewGormPaymentRepoWithDB(db *gorm.DB) *GormPaymentRepo {
	return &GormPaymentRepo{db: db}
}

func (r *GormPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *GormPaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, "payment_intent_id = ?", intentID).Error; err != nil {
		return nil, fmt.Errorf("get payment by intent %s: %w", intentID, err)
	}
	return &p, nil
}

func (r *GormPaymentRepo) MarkStatusByIntentID(ctx context.Context, intentID, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payment_intent_id = ? AND status NOT IN ?", intentID,
			[]string{models.PaymentStatusSucceeded, models.PaymentStatusCanceled}).
		Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("mark payment status: %w", res.Error)
	}
	return res.RowsAffected, nil
}
