package validator

import (
	"testing"

	"shuttle/pkg/logger"
	"shuttle/pkg/model"
)

func newTestValidator() *ScheduleValidator {
	return NewScheduleValidator(logger.New(logger.Config{Level: "error", Service: "test"}))
}

func validSchedule() *model.Schedule {
	return &model.Schedule{
		BusID:         "507f1f77bcf86cd799439011",
		DepartureTime: "08:30",
		Slot:          model.SlotMorning,
		Days:          []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	}
}

func TestValidate_DepartureTime(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		time      string
		wantError bool
	}{
		{"standard morning time", "08:30", false},
		{"midnight", "00:00", false},
		{"last minute of day", "23:59", false},
		{"hour out of range", "24:00", true},
		{"minute out of range", "08:60", true},
		{"missing leading zero", "8:30", true},
		{"with seconds", "08:30:00", true},
		{"empty", "", true},
		{"garbage", "morning", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := validSchedule()
			schedule.DepartureTime = tt.time

			err := v.Validate(schedule)
			if tt.wantError && err == nil {
				t.Errorf("expected %q to be rejected", tt.time)
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected %q to be accepted, got %v", tt.time, err)
			}
		})
	}
}

func TestValidate_Slot(t *testing.T) {
	v := newTestValidator()

	for _, slot := range []string{model.SlotMorning, model.SlotEvening, model.SlotNight} {
		schedule := validSchedule()
		schedule.Slot = slot
		if err := v.Validate(schedule); err != nil {
			t.Errorf("expected slot %q to be accepted, got %v", slot, err)
		}
	}

	schedule := validSchedule()
	schedule.Slot = "afternoon"
	if err := v.Validate(schedule); err == nil {
		t.Error("expected unknown slot to be rejected")
	}
}

func TestValidate_Days(t *testing.T) {
	v := newTestValidator()

	schedule := validSchedule()
	schedule.Days = nil
	if err := v.Validate(schedule); err == nil {
		t.Error("expected empty days to be rejected")
	}

	schedule = validSchedule()
	schedule.Days = []string{"Monday", "Funday"}
	if err := v.Validate(schedule); err == nil {
		t.Error("expected unknown day name to be rejected")
	}

	schedule = validSchedule()
	schedule.Days = []string{"Monday", "Monday"}
	if err := v.Validate(schedule); err == nil {
		t.Error("expected duplicate days to be rejected")
	}
}

func TestValidate_CapacityOverride(t *testing.T) {
	v := newTestValidator()

	// Zero means inherit the bus capacity.
	schedule := validSchedule()
	schedule.Capacity = 0
	if err := v.Validate(schedule); err != nil {
		t.Errorf("expected zero capacity to be accepted, got %v", err)
	}

	schedule = validSchedule()
	schedule.Capacity = 101
	if err := v.Validate(schedule); err == nil {
		t.Error("expected capacity above 100 to be rejected")
	}
}

func TestValidateUpdate_PartialFields(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUpdate(&model.ScheduleUpdate{}); err != nil {
		t.Errorf("expected empty update to be accepted, got %v", err)
	}

	if err := v.ValidateUpdate(&model.ScheduleUpdate{DepartureTime: "25:00"}); err == nil {
		t.Error("expected invalid departure time to be rejected")
	}

	capacity := 12
	if err := v.ValidateUpdate(&model.ScheduleUpdate{Capacity: &capacity}); err != nil {
		t.Errorf("expected capacity update to be accepted, got %v", err)
	}
}
