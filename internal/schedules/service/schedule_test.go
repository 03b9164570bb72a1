package service

import (
	"context"
	"testing"

	scheduleerrors "shuttle/internal/schedules/errors"
	"shuttle/internal/schedules/validator"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/logger"
	"shuttle/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockScheduleRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Schedule, error)
	createFunc   func(ctx context.Context, schedule *model.Schedule) error
}

func (m *mockScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, schedule)
	}
	schedule.ID = "sched1"
	return nil
}

func (m *mockScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, scheduleerrors.ErrNotFound
}

func (m *mockScheduleRepository) FindByBus(ctx context.Context, busID string) ([]*model.Schedule, error) {
	return nil, nil
}

func (m *mockScheduleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Schedule, error) {
	return nil, nil
}

func (m *mockScheduleRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockScheduleRepository) Update(ctx context.Context, id string, schedule *model.Schedule) error {
	return nil
}

func (m *mockScheduleRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBusSource struct {
	buses map[string]*model.Bus
}

func (m *mockBusSource) FindByID(ctx context.Context, id string) (*model.Bus, error) {
	if bus, ok := m.buses[id]; ok {
		return bus, nil
	}
	return nil, context.Canceled
}

func newTestScheduleService(repo *mockScheduleRepository, buses *mockBusSource) ScheduleService {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	cfg := &config.Config{Log: log}
	return NewScheduleService(repo, buses, validator.NewScheduleValidator(log), cfg)
}

// ────────────────────────────────────────────────
// Resolve
// ────────────────────────────────────────────────

func TestResolve_ScheduleCapacityOverride(t *testing.T) {
	repo := &mockScheduleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Schedule, error) {
			return &model.Schedule{ID: id, BusID: "bus1", Capacity: 12}, nil
		},
	}
	buses := &mockBusSource{buses: map[string]*model.Bus{
		"bus1": {ID: "bus1", Capacity: 40},
	}}
	svc := newTestScheduleService(repo, buses)

	_, capacity, err := svc.Resolve(context.Background(), "sched1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capacity != 12 {
		t.Errorf("expected schedule override capacity 12, got %d", capacity)
	}
}

func TestResolve_InheritsBusCapacity(t *testing.T) {
	repo := &mockScheduleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Schedule, error) {
			return &model.Schedule{ID: id, BusID: "bus1", Capacity: 0}, nil
		},
	}
	buses := &mockBusSource{buses: map[string]*model.Bus{
		"bus1": {ID: "bus1", Capacity: 40},
	}}
	svc := newTestScheduleService(repo, buses)

	_, capacity, err := svc.Resolve(context.Background(), "sched1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capacity != 40 {
		t.Errorf("expected inherited bus capacity 40, got %d", capacity)
	}
}

func TestResolve_UnknownSchedule(t *testing.T) {
	svc := newTestScheduleService(&mockScheduleRepository{}, &mockBusSource{})

	_, _, err := svc.Resolve(context.Background(), "missing")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_RejectsUnknownBus(t *testing.T) {
	svc := newTestScheduleService(&mockScheduleRepository{}, &mockBusSource{})

	err := svc.Create(context.Background(), &model.Schedule{
		BusID:         "507f1f77bcf86cd799439011",
		DepartureTime: "08:30",
		Slot:          model.SlotMorning,
		Days:          []string{"Monday"},
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != "INVALID_INPUT" {
		t.Fatalf("expected INVALID_INPUT for unknown bus, got %v", err)
	}
}

func TestCreate_RejectsInvalidDepartureTime(t *testing.T) {
	buses := &mockBusSource{buses: map[string]*model.Bus{
		"507f1f77bcf86cd799439011": {ID: "507f1f77bcf86cd799439011", Capacity: 40},
	}}
	svc := newTestScheduleService(&mockScheduleRepository{}, buses)

	err := svc.Create(context.Background(), &model.Schedule{
		BusID:         "507f1f77bcf86cd799439011",
		DepartureTime: "24:30",
		Slot:          model.SlotMorning,
		Days:          []string{"Monday"},
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
