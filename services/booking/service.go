package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coolserve/database/repository"
	"coolserve/models"
	"coolserve/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the server-side booking flow: validate, guard
// against duplicate submissions, persist, and reconcile with payment.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error)
	GetAvailability(ctx context.Context, sessionKey, address, date string, amc bool) (OptimizeResult, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error)
	GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id string, fields map[string]interface{}) error
	ConfirmFromPayment(ctx context.Context, bookingID string) error
	FailFromPayment(ctx context.Context, bookingID string) error
}

// ReminderScheduler enqueues a visit reminder to fire before the visit.
type ReminderScheduler interface {
	Schedule(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// Config carries the booking-flow knobs from app config.
type Config struct {
	MaxAttempts     int
	MaxActive       int
	LockTTL         time.Duration
	ReminderLead    time.Duration
	RetryBaseDelay  time.Duration
	DefaultCurrency string
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	BookingRepo repository.BookingRepository
	ServiceRepo repository.ServiceRepository
	UserRepo    repository.UserRepository
	Optimizer   *LocationOptimizer
	Lock        SessionLock
	Attempts    AttemptTracker
	Notifier    notification.NotificationService
	Reminders   ReminderScheduler
	Cfg         Config
	Logger      *zap.Logger
}

func (s *DefaultBookingService) retryDelay() time.Duration {
	if s.Cfg.RetryBaseDelay > 0 {
		return s.Cfg.RetryBaseDelay
	}
	return 150 * time.Millisecond
}

// CreateBooking runs the whole scheduling action for one user session.
// The session lock is the serialization point: a second attempt while
// one is in flight is rejected outright, not queued. The attempt count
// persists across requests, so the cap holds even though each request
// rebuilds the state machine.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error) {
	ok, err := s.Lock.Acquire(ctx, userID, s.Cfg.LockTTL)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("acquire booking lock: %w", err)}
	}
	if !ok {
		return nil, &BookingInProgressError{}
	}
	defer func() {
		if err := s.Lock.Release(context.Background(), userID); err != nil {
			s.Logger.Warn("failed to release booking lock", zap.String("userID", userID), zap.Error(err))
		}
	}()

	machine := RestoreStateMachine(s.Cfg.MaxAttempts, s.priorAttempts(ctx, userID))
	if machine.State() == StateFailed {
		if err := machine.Retry(); err != nil {
			return nil, err
		}
	}
	if err := machine.BeginValidation(); err != nil {
		return nil, err
	}

	user, svc, err := s.validate(ctx, userID, req)
	if err != nil {
		machine.Fail(err.Error())
		return nil, err
	}

	if err := machine.BeginBooking(); err != nil {
		return nil, err
	}
	s.recordAttempt(ctx, userID)

	scheduledAt, err := slotTime(req.Slot)
	if err != nil {
		machine.Fail(err.Error())
		return nil, NewValidationError("slot", err.Error())
	}

	region := ""
	if req.Address != "" {
		existing, err := s.dayWindows(ctx, req.Slot.Date)
		if err != nil {
			machine.Fail(err.Error())
			return nil, err
		}
		result := s.Optimizer.Optimize(ctx, OptimizeInput{
			Address:  req.Address,
			Date:     req.Slot.Date,
			Slots:    []models.TimeSlot{req.Slot},
			Existing: existing,
			AMC:      req.AMC,
		})
		if result.Stale {
			// No session key is set here, so this cannot trigger; if it
			// ever does, the result must not be applied.
			machine.Fail("location check superseded")
			return nil, &NetworkError{Err: errors.New("location check superseded, please retry")}
		}
		region = result.Region
		if result.Distance != nil && !result.WithinRadius {
			machine.Fail("address outside service radius")
			return nil, NewValidationError("address", "address is outside our service area")
		}
		// The requested slot collided with a booked travel window.
		if len(result.Slots) == 0 {
			machine.Fail("slot already taken")
			return nil, &SlotUnavailableError{SlotID: req.Slot.ID}
		}
	}

	email := req.Email
	if email == "" {
		email = user.Email
	}

	currency := svc.Currency
	if currency == "" {
		currency = s.Cfg.DefaultCurrency
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		CustomerID:  user.ID,
		ServiceID:   svc.ID,
		TimeSlotID:  req.Slot.ID,
		ScheduledAt: scheduledAt,
		Status:      models.BookingStatusPending,
		Region:      region,
		Address:     req.Address,
		Amount:      svc.Price,
		Currency:    currency,
		AMC:         req.AMC,
		Email:       email,
		CreatedAt:   time.Now(),
	}

	if err := s.BookingRepo.Create(ctx, booking); err != nil {
		machine.Fail(err.Error())
		return nil, fmt.Errorf("persist booking: %w", err)
	}
	s.resetAttempts(ctx, userID)

	// AMC visits are prepaid: no payment leg, confirm straight away.
	if req.AMC {
		if err := s.confirm(ctx, booking); err != nil {
			machine.Fail(err.Error())
			return nil, err
		}
		booking.Status = models.BookingStatusConfirmed
		if err := machine.Confirm(); err != nil {
			s.Logger.Warn("state machine confirm", zap.Error(err))
		}
		return booking, nil
	}

	// Non-AMC bookings stay pending until the payment webhook confirms.
	if err := machine.Confirm(); err != nil {
		s.Logger.Warn("state machine confirm", zap.Error(err))
	}
	return booking, nil
}

func (s *DefaultBookingService) priorAttempts(ctx context.Context, userID string) int {
	if s.Attempts == nil {
		return 0
	}
	n, err := s.Attempts.Count(ctx, userID)
	if err != nil {
		s.Logger.Warn("attempt store read failed, assuming zero", zap.String("userID", userID), zap.Error(err))
		return 0
	}
	return n
}

func (s *DefaultBookingService) recordAttempt(ctx context.Context, userID string) {
	if s.Attempts == nil {
		return
	}
	if _, err := s.Attempts.Record(ctx, userID); err != nil {
		s.Logger.Warn("attempt store write failed", zap.String("userID", userID), zap.Error(err))
	}
}

func (s *DefaultBookingService) resetAttempts(ctx context.Context, userID string) {
	if s.Attempts == nil {
		return
	}
	if err := s.Attempts.Reset(ctx, userID); err != nil {
		s.Logger.Warn("attempt store reset failed", zap.String("userID", userID), zap.Error(err))
	}
}

// dayWindows fetches the occupied travel windows for the slot's day.
func (s *DefaultBookingService) dayWindows(ctx context.Context, date string) ([]models.BookedWindow, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, NewValidationError("slot", "slot date must be YYYY-MM-DD")
	}
	windows, err := s.BookingRepo.GetWindows(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return windows, nil
}

// validate enforces the validating-stage rules: user present, service
// present, and an active AMC subscription for AMC visits. Each failure
// carries a distinct type the handler maps to a message and redirect.
func (s *DefaultBookingService) validate(ctx context.Context, userID string, req models.BookingRequest) (*models.User, *models.Service, error) {
	if userID == "" {
		return nil, nil, &NotAuthenticatedError{}
	}
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, &NotAuthenticatedError{}
	}

	if req.ServiceID == "" {
		return nil, nil, NewValidationError("serviceId", "select a service first")
	}
	svc, err := s.ServiceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, nil, NewValidationError("serviceId", "unknown service")
	}

	if req.AMC {
		if !svc.AMC {
			return nil, nil, NewValidationError("amc", "service is not covered by AMC")
		}
		if !user.AMCValid(time.Now()) {
			return nil, nil, &AMCInvalidError{Redirect: RedirectAMCRenew}
		}
	}

	if req.Slot.Blocked || !req.Slot.Available {
		return nil, nil, &SlotUnavailableError{SlotID: req.Slot.ID}
	}

	if s.Cfg.MaxActive > 0 {
		var active int64
		err := WithBackoff(ctx, s.Logger, s.Cfg.MaxAttempts, s.retryDelay(), func() error {
			n, cerr := s.BookingRepo.CountActiveByCustomer(ctx, user.ID)
			if cerr != nil {
				return &NetworkError{Err: cerr}
			}
			active = n
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		if active >= int64(s.Cfg.MaxActive) {
			return nil, nil, &MaxBookingsError{Limit: s.Cfg.MaxActive}
		}
	}

	return user, svc, nil
}

// GetAvailability builds the day's candidate slots and runs them through
// the optimizer against existing bookings. The session key scopes stale
// tracking: a newer request from the same caller supersedes this one.
func (s *DefaultBookingService) GetAvailability(ctx context.Context, sessionKey, address, date string, amc bool) (OptimizeResult, error) {
	slots := BuildDaySlots(date)

	var existing []models.BookedWindow
	if date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return OptimizeResult{}, NewValidationError("date", "date must be YYYY-MM-DD")
		}
		existing, err = s.BookingRepo.GetWindows(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return OptimizeResult{}, &NetworkError{Err: err}
		}
	}

	return s.Optimizer.Optimize(ctx, OptimizeInput{
		SessionKey: sessionKey,
		Address:    address,
		Date:       date,
		Slots:      slots,
		Existing:   existing,
		AMC:        amc,
	}), nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.BookingRepo.GetByID(ctx, id)
}

func (s *DefaultBookingService) GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return s.BookingRepo.GetByEmail(ctx, email)
}

func (s *DefaultBookingService) GetBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.BookingRepo.GetByCustomer(ctx, customerID)
}

func (s *DefaultBookingService) UpdateBooking(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.BookingRepo.Update(ctx, id, fields)
}

// ConfirmFromPayment transitions a pending booking to confirmed after
// the payment provider reports success. Called from the webhook path.
func (s *DefaultBookingService) ConfirmFromPayment(ctx context.Context, bookingID string) error {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingStatusConfirmed {
		return nil // redelivered webhook, nothing to do
	}
	return s.confirm(ctx, booking)
}

// FailFromPayment cancels a pending booking whose payment failed.
func (s *DefaultBookingService) FailFromPayment(ctx context.Context, bookingID string) error {
	if err := s.BookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return err
	}
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if s.Notifier != nil {
		if err := s.Notifier.SendUserPushNotification(ctx, booking.CustomerID,
			"Payment failed",
			"Your payment did not go through. Pick a slot and try again.",
			map[string]string{"bookingId": booking.ID, "type": "payment_failed"}); err != nil {
			s.Logger.Warn("payment-failed push failed", zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultBookingService) confirm(ctx context.Context, booking *models.Booking) error {
	if err := s.BookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed); err != nil {
		return err
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendUserPushNotification(ctx, booking.CustomerID,
			"Booking confirmed",
			fmt.Sprintf("Your AC service visit is confirmed for %s.", booking.ScheduledAt.Format("Mon, 2 Jan 15:04")),
			map[string]string{"bookingId": booking.ID, "type": "booking_confirmed"}); err != nil {
			s.Logger.Warn("confirmation push failed", zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	if s.Reminders != nil {
		fireAt := booking.ScheduledAt.Add(-s.Cfg.ReminderLead)
		if fireAt.After(time.Now()) {
			payload := models.ReminderPayload{
				BookingID: booking.ID,
				UserID:    booking.CustomerID,
				Title:     "Upcoming AC service visit",
				Body:      fmt.Sprintf("Your technician arrives around %s.", booking.ScheduledAt.Format("15:04")),
				FireDate:  fireAt.Format(time.RFC3339),
			}
			if err := s.Reminders.Schedule(ctx, payload, fireAt); err != nil {
				s.Logger.Warn("failed to schedule reminder", zap.String("bookingID", booking.ID), zap.Error(err))
			}
		}
	}

	return nil
}

// slotTime combines a slot's date and start minutes into a timestamp.
func slotTime(slot models.TimeSlot) (time.Time, error) {
	day, err := time.Parse("2006-01-02", slot.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot date must be YYYY-MM-DD")
	}
	return day.Add(time.Duration(slot.Start) * time.Minute), nil
}
