package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shuttle/internal/notifications"
	reservationerrors "shuttle/internal/reservations/errors"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/model"
)

const (
	StatusNone = "none"

	MessageConfirmed  = "Booking confirmed"
	MessageWaitlisted = "Added to waitlist"
)

const notifyTimeout = 5 * time.Second

// ScheduleResolver loads a schedule together with its effective seat
// capacity (the schedule's own capacity, or the bus capacity when the
// schedule does not override it).
type ScheduleResolver interface {
	Resolve(ctx context.Context, scheduleID string) (*model.Schedule, int, error)
}

// EmployeeDirectory looks up employee records for notification enrichment.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
}

// BookingService orchestrates the booking workflow: date and cutoff
// validation up front, the seat ledger for the actual seat accounting, and
// best-effort notifications after the fact.
type BookingService interface {
	BookSlot(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error)
	CancelBooking(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error)
	GetUserBookingStatus(ctx context.Context, employeeID, scheduleID, date string) (string, error)
	ListEmployeeBookings(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	Occupancy(ctx context.Context, scheduleID, date string) (*model.Occupancy, error)
}

type bookingService struct {
	ledger     SeatLedger
	schedules  ScheduleResolver
	employees  EmployeeDirectory
	dispatcher notifications.Dispatcher
	cfg        *config.Config
	now        func() time.Time
}

func NewBookingService(
	ledger SeatLedger,
	schedules ScheduleResolver,
	employees EmployeeDirectory,
	dispatcher notifications.Dispatcher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		ledger:     ledger,
		schedules:  schedules,
		employees:  employees,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *bookingService) BookSlot(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error) {
	schedule, capacity, err := s.schedules.Resolve(ctx, scheduleID)
	if err != nil {
		return nil, "", err
	}

	if err := s.validateBookingDate(schedule, date); err != nil {
		s.cfg.Log.Warn("Booking rejected",
			"employee_id", employeeID,
			"schedule_id", scheduleID,
			"date", date,
			"error", err,
		)
		return nil, "", err
	}

	var reservation *model.Reservation
	err = s.withRetry(ctx, func() error {
		var reserveErr error
		reservation, reserveErr = s.ledger.Reserve(ctx, employeeID, scheduleID, date, capacity)
		return reserveErr
	})
	if err != nil {
		return nil, "", err
	}

	s.notifyAsync(notifications.EventBookingConfirmed, reservation)

	message := MessageConfirmed
	if reservation.Status == model.ReservationWaitlisted {
		message = MessageWaitlisted
	}
	return reservation, message, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	_, capacity, err := s.schedules.Resolve(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	var cancelled, promoted *model.Reservation
	err = s.withRetry(ctx, func() error {
		var cancelErr error
		cancelled, promoted, cancelErr = s.ledger.Cancel(ctx, employeeID, scheduleID, date, capacity)
		return cancelErr
	})
	if err != nil {
		return nil, err
	}

	s.notifyAsync(notifications.EventBookingCancelled, cancelled)
	if promoted != nil {
		s.notifyAsync(notifications.EventBookingConfirmed, promoted)
	}
	return cancelled, nil
}

func (s *bookingService) GetUserBookingStatus(ctx context.Context, employeeID, scheduleID, date string) (string, error) {
	if err := validateDateFormat(date); err != nil {
		return "", err
	}

	reservation, err := s.ledger.Latest(ctx, employeeID, scheduleID, date)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return StatusNone, nil
		}
		return "", err
	}
	return reservation.Status, nil
}

func (s *bookingService) ListEmployeeBookings(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return s.ledger.ListByEmployee(ctx, employeeID, limit, offset)
}

func (s *bookingService) Occupancy(ctx context.Context, scheduleID, date string) (*model.Occupancy, error) {
	if err := validateDateFormat(date); err != nil {
		return nil, err
	}

	_, capacity, err := s.schedules.Resolve(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return s.ledger.Occupancy(ctx, scheduleID, date, capacity)
}

// validateBookingDate enforces the booking window and the departure cutoff.
// The window runs from today through MaxAdvanceBookingDays ahead; the cutoff
// requires now to be strictly more than BookingCutoffMinutes before the
// departure on the requested date.
func (s *bookingService) validateBookingDate(schedule *model.Schedule, date string) error {
	day, err := time.ParseInLocation(httputil.DateLayout, date, time.Local)
	if err != nil {
		return apperrors.InvalidDate(fmt.Sprintf("Date must be in %s format", httputil.DateLayout))
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return apperrors.InvalidDate("Date cannot be in the past")
	}
	latest := today.AddDate(0, 0, s.cfg.MaxAdvanceBookingDays)
	if day.After(latest) {
		return apperrors.InvalidDate(fmt.Sprintf(
			"Bookings open at most %d day(s) in advance", s.cfg.MaxAdvanceBookingDays,
		))
	}
	if !schedule.OperatesOn(day.Weekday()) {
		return apperrors.InvalidDate(fmt.Sprintf("Schedule does not operate on %s", day.Weekday()))
	}

	departure, err := departureAt(schedule, day)
	if err != nil {
		return apperrors.Internal("Schedule has an invalid departure time", err)
	}
	cutoff := departure.Add(-time.Duration(s.cfg.BookingCutoffMinutes) * time.Minute)
	if !now.Before(cutoff) {
		return apperrors.CutoffPassed(fmt.Sprintf(
			"Bookings close %d minutes before departure", s.cfg.BookingCutoffMinutes,
		))
	}
	return nil
}

// notifyAsync publishes the event off the request path. Delivery is
// best-effort: failures are logged and never reverse the reservation.
func (s *bookingService) notifyAsync(eventType string, reservation *model.Reservation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		event := &notifications.Event{
			Type:        eventType,
			Reservation: reservation,
			OccurredAt:  s.now().UTC(),
		}
		if employee, err := s.employees.GetByID(ctx, reservation.EmployeeID); err == nil {
			event.Employee = employee
		} else {
			s.cfg.Log.Warn("Failed to load employee for notification",
				"employee_id", reservation.EmployeeID,
				"error", err,
			)
		}

		if err := s.dispatcher.Notify(ctx, event); err != nil {
			s.cfg.Log.Error("Failed to dispatch notification",
				"event_type", eventType,
				"reservation_id", reservation.ID,
				"error", err,
			)
		}
	}()
}

// withRetry re-runs the operation on transient store failures only.
// Business-rule rejections surface immediately.
func (s *bookingService) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || !apperrors.IsTransient(err) || attempt >= s.cfg.StoreMaxRetries {
			return err
		}
		s.cfg.Log.Warn("Transient store failure, retrying",
			"attempt", attempt+1,
			"max_retries", s.cfg.StoreMaxRetries,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(s.cfg.StoreRetryBackoff):
		}
	}
}

func validateDateFormat(date string) error {
	if _, err := time.ParseInLocation(httputil.DateLayout, date, time.Local); err != nil {
		return apperrors.InvalidDate(fmt.Sprintf("Date must be in %s format", httputil.DateLayout))
	}
	return nil
}

func departureAt(schedule *model.Schedule, day time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", schedule.DepartureTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.Local,
	), nil
}
