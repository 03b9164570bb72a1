package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationerrors "shuttle/internal/reservations/errors"
	"shuttle/internal/reservations/repository"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/model"
)

// SeatLedger owns the seat accounting for one (schedule, date) key: reserve,
// cancel with waitlist promotion, and occupancy reads. All mutations run
// under a per-key advisory lock plus a transaction, so capacity checks and
// inserts cannot interleave across concurrent requests.
type SeatLedger interface {
	Reserve(ctx context.Context, employeeID, scheduleID, date string, capacity int) (*model.Reservation, error)
	Cancel(ctx context.Context, employeeID, scheduleID, date string, capacity int) (*model.Reservation, *model.Reservation, error)
	Occupancy(ctx context.Context, scheduleID, date string, capacity int) (*model.Occupancy, error)
	Latest(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error)
}

type seatLedger struct {
	repo     repository.ReservationRepository
	lockRepo repository.SeatLockRepository
	cfg      *config.Config
}

func NewSeatLedger(
	repo repository.ReservationRepository,
	lockRepo repository.SeatLockRepository,
	cfg *config.Config,
) SeatLedger {
	return &seatLedger{
		repo:     repo,
		lockRepo: lockRepo,
		cfg:      cfg,
	}
}

// Reserve grants a seat when capacity allows, waitlists when the schedule is
// full and waitlisting is enabled, and rejects otherwise. Each request
// produces a fresh reservation record; cancelled rows never come back to
// life.
func (l *seatLedger) Reserve(ctx context.Context, employeeID, scheduleID, date string, capacity int) (*model.Reservation, error) {
	reservation := &model.Reservation{
		EmployeeID: employeeID,
		ScheduleID: scheduleID,
		Date:       date,
	}

	err := l.withSlotLock(ctx, scheduleID, date, func() error {
		return l.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			_, err := l.repo.FindCurrent(sessCtx, employeeID, scheduleID, date)
			if err == nil {
				return apperrors.DuplicateBooking("You already have a booking for this schedule and date")
			}
			if !errors.Is(err, reservationerrors.ErrNotFound) {
				return l.classifyStoreError("Failed to check existing booking", err)
			}

			count, err := l.repo.CountActive(sessCtx, scheduleID, date)
			if err != nil {
				return l.classifyStoreError("Failed to count reserved seats", err)
			}

			reservation.Status = model.ReservationActive
			if count >= int64(capacity) {
				if !l.cfg.WaitlistEnabled {
					return apperrors.CapacityExceeded("No seats available for this schedule and date")
				}
				reservation.Status = model.ReservationWaitlisted
			}

			if err := l.repo.Create(sessCtx, reservation); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return apperrors.DuplicateBooking("You already have a booking for this schedule and date")
				}
				return l.classifyStoreError("Failed to create reservation", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	l.cfg.Log.Info("Reservation recorded",
		"id", reservation.ID,
		"employee_id", employeeID,
		"schedule_id", scheduleID,
		"date", date,
		"status", reservation.Status,
	)
	return reservation, nil
}

// Cancel flips the employee's current reservation to cancelled. When an
// active seat is freed and someone is waitlisted, the earliest waitlisted
// reservation is promoted inside the same transaction. Returns the cancelled
// reservation and, when one occurred, the promoted reservation.
func (l *seatLedger) Cancel(ctx context.Context, employeeID, scheduleID, date string, capacity int) (*model.Reservation, *model.Reservation, error) {
	var cancelled *model.Reservation
	var promoted *model.Reservation

	err := l.withSlotLock(ctx, scheduleID, date, func() error {
		return l.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			current, err := l.repo.FindCurrent(sessCtx, employeeID, scheduleID, date)
			if err != nil {
				if errors.Is(err, reservationerrors.ErrNotFound) {
					return apperrors.NotFound("Active booking")
				}
				return l.classifyStoreError("Failed to find booking", err)
			}

			now := time.Now().UTC().Truncate(time.Millisecond)
			if err := l.repo.SetStatus(sessCtx, current.ID, model.ReservationCancelled, &now); err != nil {
				return l.classifyStoreError("Failed to cancel booking", err)
			}
			wasActive := current.Status == model.ReservationActive
			current.Status = model.ReservationCancelled
			current.CancelledAt = &now
			cancelled = current

			// A waitlisted cancellation frees no seat, so nobody moves up.
			if !wasActive {
				return nil
			}

			count, err := l.repo.CountActive(sessCtx, scheduleID, date)
			if err != nil {
				return l.classifyStoreError("Failed to count reserved seats", err)
			}
			if count >= int64(capacity) {
				return nil
			}

			next, err := l.repo.FindEarliestWaitlisted(sessCtx, scheduleID, date)
			if err != nil {
				if errors.Is(err, reservationerrors.ErrNoWaitlisted) {
					return nil
				}
				return l.classifyStoreError("Failed to find waitlisted booking", err)
			}
			if err := l.repo.SetStatus(sessCtx, next.ID, model.ReservationActive, nil); err != nil {
				return l.classifyStoreError("Failed to promote waitlisted booking", err)
			}
			next.Status = model.ReservationActive
			promoted = next
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	l.cfg.Log.Info("Reservation cancelled",
		"id", cancelled.ID,
		"employee_id", employeeID,
		"schedule_id", scheduleID,
		"date", date,
		"promoted", promoted != nil,
	)
	return cancelled, promoted, nil
}

func (l *seatLedger) Occupancy(ctx context.Context, scheduleID, date string, capacity int) (*model.Occupancy, error) {
	count, err := l.repo.CountActive(ctx, scheduleID, date)
	if err != nil {
		return nil, l.classifyStoreError("Failed to count reserved seats", err)
	}
	return &model.Occupancy{
		ScheduleID: scheduleID,
		Date:       date,
		Reserved:   count,
		Capacity:   capacity,
	}, nil
}

func (l *seatLedger) Latest(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	reservation, err := l.repo.FindLatest(ctx, employeeID, scheduleID, date)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, l.classifyStoreError("Failed to find booking", err)
	}
	return reservation, nil
}

func (l *seatLedger) ListByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	count, err := l.repo.CountByEmployee(ctx, employeeID)
	if err != nil {
		return nil, 0, l.classifyStoreError("Failed to count bookings", err)
	}
	reservations, err := l.repo.FindByEmployee(ctx, employeeID, limit, offset)
	if err != nil {
		return nil, 0, l.classifyStoreError("Failed to list bookings", err)
	}
	return reservations, count, nil
}

// withSlotLock serializes the critical section on the (schedule, date) key.
// Contention retries with a fixed backoff up to the configured attempt
// budget; exhausting it surfaces as a conflict so the caller can retry.
func (l *seatLedger) withSlotLock(ctx context.Context, scheduleID, date string, fn func() error) error {
	lockID := fmt.Sprintf("seat_lock_%s_%s", scheduleID, date)

	var acquired bool
	for attempt := 1; attempt <= l.cfg.SeatLockMaxAttempts; attempt++ {
		lock := &model.SeatLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(l.cfg.SeatLockTTL),
		}
		err := l.lockRepo.Acquire(ctx, lock)
		if err == nil {
			acquired = true
			break
		}
		if !mongo.IsDuplicateKeyError(err) {
			return l.classifyStoreError("Failed to acquire seat lock", err)
		}
		if attempt == l.cfg.SeatLockMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return apperrors.StoreUnavailable("Request cancelled while waiting for seat lock", ctx.Err())
		case <-time.After(l.cfg.SeatLockRetryBackoff):
		}
	}
	if !acquired {
		return apperrors.Conflict("This schedule is being booked by another request. Please try again.")
	}

	defer func() {
		if releaseErr := l.lockRepo.Release(ctx, lockID); releaseErr != nil {
			l.cfg.Log.Warn("Failed to release seat lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	return fn()
}

// classifyStoreError separates transient storage failures, which callers may
// retry, from everything else.
func (l *seatLedger) classifyStoreError(message string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return apperrors.StoreUnavailable(message, err)
	}
	return apperrors.Internal(message, err)
}
