package service

import (
	"context"
	"errors"
	"sync"

	"shuttle/internal/schedules/repository"
	scheduleerrors "shuttle/internal/schedules/errors"
	"shuttle/internal/schedules/validator"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/model"
)

// BusSource provides the bus records schedules hang off. Satisfied by the
// bus repository; declared here so the schedule service does not import it.
type BusSource interface {
	FindByID(ctx context.Context, id string) (*model.Bus, error)
}

type ScheduleService interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	GetByBus(ctx context.Context, busID string) ([]*model.Schedule, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Schedule, int64, error)
	Update(ctx context.Context, id string, updates *model.ScheduleUpdate) error
	Delete(ctx context.Context, id string) error

	// Resolve returns the schedule plus its effective seat capacity: the
	// schedule's own capacity when set, otherwise the bus capacity.
	Resolve(ctx context.Context, scheduleID string) (*model.Schedule, int, error)
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	buses     BusSource
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	buses BusSource,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		buses:     buses,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *scheduleService) Create(ctx context.Context, schedule *model.Schedule) error {
	if err := s.validator.Validate(schedule); err != nil {
		s.cfg.Log.Warn("Schedule validation failed", "error", err)
		return apperrors.Validation("Invalid schedule input", map[string]any{"error": err.Error()})
	}

	// The bus must exist before a departure can reference it.
	if _, err := s.buses.FindByID(ctx, schedule.BusID); err != nil {
		return apperrors.InvalidInput("Schedule references an unknown bus")
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return apperrors.Internal("Failed to create schedule", err)
	}

	s.cfg.Log.Info("Schedule created",
		"id", schedule.ID,
		"bus_id", schedule.BusID,
		"departure_time", schedule.DepartureTime,
		"slot", schedule.Slot,
	)
	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}
	return schedule, nil
}

func (s *scheduleService) GetByBus(ctx context.Context, busID string) ([]*model.Schedule, error) {
	if busID == "" {
		return nil, apperrors.InvalidInput("Bus ID cannot be empty")
	}

	schedules, err := s.repo.FindByBus(ctx, busID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve schedules", err)
	}
	return schedules, nil
}

func (s *scheduleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Schedule, int64, error) {
	var count int64
	var schedules []*model.Schedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count schedules", "error", errCount)
			errCount = apperrors.Internal("Failed to count schedules", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		schedules, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list schedules", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve schedules", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return schedules, count, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, updates *model.ScheduleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Schedule update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to check schedule existence", err)
	}

	merged := s.mergeScheduleUpdates(existing, updates)
	if merged.BusID != existing.BusID {
		if _, err := s.buses.FindByID(ctx, merged.BusID); err != nil {
			return apperrors.InvalidInput("Schedule references an unknown bus")
		}
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return apperrors.Internal("Failed to update schedule", err)
	}

	s.cfg.Log.Info("Schedule updated", "id", id)
	return nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to delete schedule", err)
	}

	s.cfg.Log.Info("Schedule deleted", "id", id)
	return nil
}

func (s *scheduleService) Resolve(ctx context.Context, scheduleID string) (*model.Schedule, int, error) {
	schedule, err := s.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, 0, err
	}

	if schedule.Capacity > 0 {
		return schedule, schedule.Capacity, nil
	}

	bus, err := s.buses.FindByID(ctx, schedule.BusID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to resolve bus capacity", err)
	}
	return schedule, bus.Capacity, nil
}

func (s *scheduleService) mergeScheduleUpdates(existing *model.Schedule, updates *model.ScheduleUpdate) *model.Schedule {
	merged := *existing

	if updates.BusID != "" {
		merged.BusID = updates.BusID
	}
	if updates.DepartureTime != "" {
		merged.DepartureTime = updates.DepartureTime
	}
	if updates.Slot != "" {
		merged.Slot = updates.Slot
	}
	if updates.Days != nil {
		merged.Days = updates.Days
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}

	return &merged
}
