package repository

import (
	"context"
	"testing"
	"time"

	"coolserve/models"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func TestMarkStatusByIntentID(t *testing.T) {
	t.Run("pending payment transitions and reports one row", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewGormPaymentRepoWithDB(gdb)

		mock.ExpectExec(`UPDATE "payments" SET .+ WHERE payment_intent_id = .+ AND status NOT IN`).
			WithArgs(models.PaymentStatusSucceeded, sqlmock.AnyArg(), "pi_1",
				models.PaymentStatusSucceeded, models.PaymentStatusCanceled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		changed, err := repo.MarkStatusByIntentID(context.Background(), "pi_1", models.PaymentStatusSucceeded)
		if err != nil {
			t.Fatalf("MarkStatusByIntentID: %v", err)
		}
		if changed != 1 {
			t.Fatalf("changed = %d, want 1", changed)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("settled payment matches no rows", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewGormPaymentRepoWithDB(gdb)

		mock.ExpectExec(`UPDATE "payments" SET .+ WHERE payment_intent_id = .+ AND status NOT IN`).
			WithArgs(models.PaymentStatusFailed, sqlmock.AnyArg(), "pi_1",
				models.PaymentStatusSucceeded, models.PaymentStatusCanceled).
			WillReturnResult(sqlmock.NewResult(0, 0))

		changed, err := repo.MarkStatusByIntentID(context.Background(), "pi_1", models.PaymentStatusFailed)
		if err != nil {
			t.Fatalf("MarkStatusByIntentID: %v", err)
		}
		if changed != 0 {
			t.Fatalf("changed = %d, want 0", changed)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})
}

func TestGetByIntentID(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormPaymentRepoWithDB(gdb)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "payment_intent_id", "amount", "currency", "status",
		"booking_id", "customer_id", "service_id", "created_at", "updated_at",
	}).AddRow("p1", "pi_1", int64(8000), "sgd", models.PaymentStatusPending,
		"b1", "u1", "s1", now, now)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE payment_intent_id = `).
		WillReturnRows(rows)

	p, err := repo.GetByIntentID(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("GetByIntentID: %v", err)
	}
	if p.BookingID != "b1" || p.Amount != 8000 {
		t.Fatalf("payment = %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
