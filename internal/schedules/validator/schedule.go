package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"shuttle/pkg/logger"
	"shuttle/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	v := validator.New()

	if err := v.RegisterValidation("departure_time", validateDepartureTime); err != nil {
		log.Fatal("Failed to register 'departure_time' validator", "error", err)
	}

	log.Info("Schedule validator initialized successfully")

	return &ScheduleValidator{
		validate: v,
		logger:   log,
	}
}

// validateDepartureTime accepts 24-hour HH:MM wall clock strings.
func validateDepartureTime(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func (v *ScheduleValidator) Validate(schedule *model.Schedule) error {
	if err := v.check(schedule); err != nil {
		return err
	}
	return validateUniqueDays(schedule.Days)
}

func (v *ScheduleValidator) ValidateUpdate(update *model.ScheduleUpdate) error {
	if err := v.check(update); err != nil {
		return err
	}
	if update.Days != nil {
		return validateUniqueDays(update.Days)
	}
	return nil
}

func validateUniqueDays(days []string) error {
	seen := map[string]bool{}
	for _, day := range days {
		if seen[day] {
			return ValidationErrors{
				ValidationError{
					Field:   "Days",
					Message: fmt.Sprintf("duplicate day: %s", day),
				},
			}
		}
		seen[day] = true
	}
	return nil
}

func (v *ScheduleValidator) check(value any) error {
	if err := v.validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "departure_time":
			message = fmt.Sprintf("%s must be a 24-hour HH:MM time", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
