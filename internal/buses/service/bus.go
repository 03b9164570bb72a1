package service

import (
	"context"
	"errors"
	"sync"

	buserrors "shuttle/internal/buses/errors"
	"shuttle/internal/buses/repository"
	"shuttle/internal/buses/validator"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/model"
	"shuttle/pkg/sanitizer"
)

type BusService interface {
	Create(ctx context.Context, bus *model.Bus) error
	GetByID(ctx context.Context, id string) (*model.Bus, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Bus, int64, error)
	Update(ctx context.Context, id string, updates *model.BusUpdate) error
	Delete(ctx context.Context, id string) error
}

type busService struct {
	repo      repository.BusRepository
	validator *validator.BusValidator
	cfg       *config.Config
}

func NewBusService(repo repository.BusRepository, validator *validator.BusValidator, cfg *config.Config) BusService {
	return &busService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *busService) Create(ctx context.Context, bus *model.Bus) error {
	s.sanitize(bus)
	if err := s.validator.Validate(bus); err != nil {
		s.cfg.Log.Warn("Bus validation failed", "error", err)
		return apperrors.Validation("Invalid bus input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, bus); err != nil {
		if errors.Is(err, buserrors.ErrDuplicateRegistration) {
			return apperrors.Conflict("A bus with this registration already exists")
		}
		return apperrors.Internal("Failed to create bus", err)
	}

	s.cfg.Log.Info("Bus created", "id", bus.ID, "registration", bus.Registration)
	return nil
}

func (s *busService) GetByID(ctx context.Context, id string) (*model.Bus, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Bus ID cannot be empty")
	}

	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, buserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Bus", id)
		}
		if errors.Is(err, buserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid bus ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve bus", err)
	}
	return bus, nil
}

func (s *busService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Bus, int64, error) {
	var count int64
	var buses []*model.Bus
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count buses", "error", errCount)
			errCount = apperrors.Internal("Failed to count buses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		buses, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list buses", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve buses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return buses, count, nil
}

func (s *busService) Update(ctx context.Context, id string, updates *model.BusUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Bus ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Bus update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, buserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Bus", id)
		}
		if errors.Is(err, buserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid bus ID format")
		}
		return apperrors.Internal("Failed to check bus existence", err)
	}

	merged := s.mergeBusUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, buserrors.ErrDuplicateRegistration) {
			return apperrors.Conflict("A bus with this registration already exists")
		}
		return apperrors.Internal("Failed to update bus", err)
	}

	s.cfg.Log.Info("Bus updated", "id", id)
	return nil
}

func (s *busService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Bus ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, buserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Bus", id)
		}
		if errors.Is(err, buserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid bus ID format")
		}
		return apperrors.Internal("Failed to delete bus", err)
	}

	s.cfg.Log.Info("Bus deleted", "id", id)
	return nil
}

func (s *busService) sanitize(bus *model.Bus) {
	bus.Registration = sanitizer.NormalizeRegistration(bus.Registration)
	bus.Route = sanitizer.NormalizeRoute(bus.Route)
}

func (s *busService) mergeBusUpdates(existing *model.Bus, updates *model.BusUpdate) *model.Bus {
	merged := *existing

	if updates.Registration != "" {
		merged.Registration = updates.Registration
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Route != "" {
		merged.Route = updates.Route
	}

	return &merged
}
