package repository

import (
	"context"
	"fmt"
	"time"

	"coolserve/database"
	"coolserve/models"

	"gorm.io/gorm"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByEmail(ctx context.Context, email string) ([]models.Booking, error)
	GetByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	GetWindows(ctx context.Context, from, to time.Time) ([]models.BookedWindow, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	CountActiveByCustomer(ctx context.Context, customerID string) (int64, error)
}

// GormBookingRepo implements BookingRepository on Postgres.
type GormBookingRepo struct {
	db *gorm.DB
}

func NewGormBookingRepo() *GormBookingRepo {
	return &GormBookingRepo{db: database.GetDB()}
}

func NewGormBookingRepoWithDB(db *gorm.DB) *GormBookingRepo {
	return &GormBookingRepo{db: db}
}

func (r *GormBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *GormBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *GormBookingRepo) GetByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("scheduled_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("get bookings by email: %w", err)
	}
	return out, nil
}

func (r *GormBookingRepo) GetByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("scheduled_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("get bookings by customer: %w", err)
	}
	return out, nil
}

// GetWindows returns the occupied travel windows for non-cancelled
// bookings scheduled in [from, to).
func (r *GormBookingRepo) GetWindows(ctx context.Context, from, to time.Time) ([]models.BookedWindow, error) {
	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ? AND status <> ?", from, to, models.BookingStatusCancelled).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get booked windows: %w", err)
	}
	windows := make([]models.BookedWindow, 0, len(rows))
	for _, b := range rows {
		windows = append(windows, models.BookedWindow{
			Date:   b.ScheduledAt.Format("2006-01-02"),
			Start:  b.ScheduledAt.Hour()*60 + b.ScheduledAt.Minute(),
			Region: b.Region,
		})
	}
	return windows, nil
}

func (r *GormBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update booking status: booking %s not found", id)
	}
	return nil
}

func (r *GormBookingRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update booking: booking %s not found", id)
	}
	return nil
}

func (r *GormBookingRepo) CountActiveByCustomer(ctx context.Context, customerID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("customer_id = ? AND status <> ?", customerID, models.BookingStatusCancelled).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count active bookings: %w", err)
	}
	return n, nil
}
